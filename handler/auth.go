package handler

import (
	"Shutter/middleware"
	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

type Auth struct {
	Authenticator *middleware.Authenticator
	AuthService   service.IAuthService
}

func (a *Auth) RegisterRouter(r gin.IRouter) {
	g := r.Group("/auth")
	g.POST("/register", context.Wrap(a.Register))
	g.POST("/login", context.Wrap(a.Login))
	g.POST("/refresh", context.Wrap(a.Refresh))
	g.POST("/logout", a.Authenticator.Auth(), context.Wrap(a.Logout))
}

func (a *Auth) Register(c *gin.Context) error {
	var req types.RegisterReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := a.AuthService.Register(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Created(c, user)
	return nil
}

func (a *Auth) Login(c *gin.Context) error {
	var req types.LoginReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := a.AuthService.Login(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// Logout revokes the posted refresh token and the access token of this request.
func (a *Auth) Logout(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.RefreshReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := a.AuthService.Logout(c.Request.Context(), userID, req.Refresh, c.GetString(context.CtxTokenID)); err != nil {
		return err
	}
	response.Success(c, gin.H{"detail": "logged out"})
	return nil
}

func (a *Auth) Refresh(c *gin.Context) error {
	var req types.RefreshReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	pair, err := a.AuthService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		return err
	}
	response.Success(c, pair)
	return nil
}
