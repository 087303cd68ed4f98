package handler

import (
	"encoding/json"
	"strings"

	"Shutter/middleware"
	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

type User struct {
	Authenticator *middleware.Authenticator
	UserService   service.IUserService
	FollowService service.IFollowService
}

func (u *User) RegisterRouter(r gin.IRouter) {
	authorize := u.Authenticator.Auth()
	optional := u.Authenticator.OptionalAuth()

	g := r.Group("/users")
	g.GET("/profile", authorize, context.Wrap(u.Profile))
	g.PATCH("/profile", authorize, context.Wrap(u.UpdateProfile))
	g.DELETE("/profile", authorize, context.Wrap(u.DeleteAccount))
	g.GET("/profile/:id", optional, context.Wrap(u.GetByID))
	g.GET("/suggested", authorize, context.Wrap(u.Suggested))
	g.GET("/:username", optional, context.Wrap(u.GetByUsername))
	g.GET("/:username/stats", context.Wrap(u.Stats))
	g.GET("/:username/followers", optional, context.Wrap(u.Followers))
	g.GET("/:username/following", optional, context.Wrap(u.Following))
}

func (u *User) Profile(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	profile, err := u.UserService.Profile(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, profile)
	return nil
}

// UpdateProfile accepts JSON, or a multipart form carrying profile_picture.
// In a form, contact is a JSON object encoded as a string.
func (u *User) UpdateProfile(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.UpdateProfileReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		if raw := c.PostForm("contact"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Contact); err != nil {
				return response.BadRequest("contact must be a JSON object")
			}
		}
	}
	avatar, err := formFile(c, "profile_picture")
	if err != nil {
		return err
	}
	profile, err := u.UserService.UpdateProfile(c.Request.Context(), userID, &req, avatar)
	if err != nil {
		return err
	}
	response.Success(c, profile)
	return nil
}

func (u *User) DeleteAccount(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	if err := u.UserService.DeleteAccount(c.Request.Context(), userID); err != nil {
		return err
	}
	response.NoContent(c)
	return nil
}

func (u *User) GetByID(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := u.UserService.GetByID(c.Request.Context(), context.OptionalUserID(c), id)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (u *User) GetByUsername(c *gin.Context) error {
	detail, err := u.UserService.GetByUsername(c.Request.Context(), context.OptionalUserID(c), c.Param("username"))
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (u *User) Stats(c *gin.Context) error {
	stats, err := u.UserService.Stats(c.Request.Context(), c.Param("username"))
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}

func (u *User) Suggested(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.SuggestedReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	users, err := u.UserService.Suggested(c.Request.Context(), userID, req.Limit)
	if err != nil {
		return err
	}
	response.Success(c, users)
	return nil
}

func (u *User) Followers(c *gin.Context) error {
	var req types.FollowListReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	req.Username = c.Param("username")
	page, err := u.FollowService.Followers(c.Request.Context(), context.OptionalUserID(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (u *User) Following(c *gin.Context) error {
	var req types.FollowListReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	req.Username = c.Param("username")
	page, err := u.FollowService.Following(c.Request.Context(), context.OptionalUserID(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}
