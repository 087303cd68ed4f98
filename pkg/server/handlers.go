package server

import (
	"Shutter/handler"
)

type Handlers struct {
	Auth       *handler.Auth
	User       *handler.User
	Photo      *handler.Photo
	Like       *handler.Like
	Follow     *handler.Follow
	Comment    *handler.Comment
	Collection *handler.Collection
	Category   *handler.Category
	Download   *handler.Download
}
