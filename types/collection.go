package types

import "time"

type CreateCollectionReq struct {
	Name        string `json:"name" binding:"required,notblank,max=255"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	IsPublic    *bool  `json:"is_public"`
}

type UpdateCollectionReq struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	IsPublic    *bool   `json:"is_public"`
}

type CollectionListReq struct {
	PageQuery
	IsPublic *bool  `form:"is_public"`
	Username string `form:"username"`
	Search   string `form:"search"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=likes followers date"`
}

type CollectionItem struct {
	ID             ID        `json:"id"`
	User           UserBrief `json:"user"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	IsPublic       bool      `json:"is_public"`
	LikesCount     int64     `json:"likes_count"`
	FollowersCount int64     `json:"followers_count"`
	PhotosCount    int64     `json:"photos_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	IsLiked        bool      `json:"is_liked"`
	IsFollowing    bool      `json:"is_following"`
}

type CollectionLikeResp struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type CollectionFollowResp struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followers_count"`
}

type CollectionStats struct {
	CollectionID   ID    `json:"collection_id"`
	LikesCount     int64 `json:"likes_count"`
	FollowersCount int64 `json:"followers_count"`
	PhotosCount    int64 `json:"photos_count"`
}
