package handler

import (
	"Shutter/middleware"
	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

type Follow struct {
	Authenticator *middleware.Authenticator
	FollowService service.IFollowService
}

func (f *Follow) RegisterRouter(r gin.IRouter) {
	authorize := f.Authenticator.Auth()
	optional := f.Authenticator.OptionalAuth()

	g := r.Group("/followers")
	g.POST("/toggle_follow", authorize, context.Wrap(f.Toggle))
	g.GET("/followers", optional, context.Wrap(f.Followers))
	g.GET("/following", optional, context.Wrap(f.Following))
	g.GET("/check_follow", authorize, context.Wrap(f.Check))
	g.GET("/stats", optional, context.Wrap(f.Stats))
}

// Toggle names the target by username or user_id, in the body or the query string.
func (f *Follow) Toggle(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.ToggleFollowReq
	if c.Request.ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	if req.Username == "" && req.UserID == 0 {
		if err := bindQuery(c, &req); err != nil {
			return err
		}
	}
	resp, err := f.FollowService.Toggle(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (f *Follow) Followers(c *gin.Context) error {
	var req types.FollowListReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	page, err := f.FollowService.Followers(c.Request.Context(), context.OptionalUserID(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (f *Follow) Following(c *gin.Context) error {
	var req types.FollowListReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	page, err := f.FollowService.Following(c.Request.Context(), context.OptionalUserID(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (f *Follow) Check(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	resp, err := f.FollowService.Check(c.Request.Context(), userID, c.Query("username"))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (f *Follow) Stats(c *gin.Context) error {
	stats, err := f.FollowService.Stats(c.Request.Context(), context.OptionalUserID(c), c.Query("username"))
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}
