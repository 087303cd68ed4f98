package handler

import (
	"Shutter/middleware"
	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

type Like struct {
	Authenticator *middleware.Authenticator
	LikeService   service.ILikeService
}

func (l *Like) RegisterRouter(r gin.IRouter) {
	authorize := l.Authenticator.Auth()
	optional := l.Authenticator.OptionalAuth()

	g := r.Group("/likes")
	g.POST("/toggle", authorize, context.Wrap(l.Toggle))
	g.GET("/check", authorize, context.Wrap(l.Check))
	g.GET("/photo_likes", optional, context.Wrap(l.PhotoLikes))
	g.GET("/user_likes", optional, context.Wrap(l.UserLikes))
	g.GET("/stats", context.Wrap(l.Stats))
}

func (l *Like) Toggle(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.ToggleLikeReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := l.LikeService.Toggle(c.Request.Context(), userID, req.PhotoID.Int64())
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (l *Like) Check(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var q types.PhotoQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	resp, err := l.LikeService.Check(c.Request.Context(), userID, q.PhotoID.Int64())
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (l *Like) PhotoLikes(c *gin.Context) error {
	var q struct {
		types.PhotoQuery
		types.PageQuery
	}
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := l.LikeService.PhotoLikes(c.Request.Context(), context.OptionalUserID(c), q.PhotoID.Int64(), q.PageQuery)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

// UserLikes lists the photos a user liked; the caller's own without ?username.
func (l *Like) UserLikes(c *gin.Context) error {
	var q types.GalleryReq
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := l.LikeService.UserLikes(c.Request.Context(), context.OptionalUserID(c), q.Username, q.PageQuery)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (l *Like) Stats(c *gin.Context) error {
	var q types.PhotoQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	stats, err := l.LikeService.Stats(c.Request.Context(), q.PhotoID.Int64())
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}
