package context

import (
	"errors"
	"net/http"

	"Shutter/pkg/log"
	"Shutter/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxIsAdmin  = "is_admin"
	CtxTokenID  = "token_id"
)

type HandlerFunc func(*gin.Context) error

// Wrap writes BizErrors with their own status. Anything else is logged and
// answered with a generic 500.
func Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h(c)
		if err == nil {
			return
		}
		// 如果已经写过响应，直接返回
		if c.Writer.Written() {
			return
		}
		var be *response.BizError
		if errors.As(err, &be) {
			response.Fail(c, be.Code, be.Msg)
			return
		}
		log.L.Error("unexpected error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		response.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}

var ErrNoUser = response.Unauthorized("authentication credentials were not provided")

func GetUserID(c *gin.Context) (int64, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, ErrNoUser
	}

	uid, ok := v.(int64)
	if !ok || uid == 0 {
		return 0, ErrNoUser
	}

	return uid, nil
}

// OptionalUserID returns 0 for anonymous requests.
func OptionalUserID(c *gin.Context) int64 {
	uid, _ := GetUserID(c)
	return uid
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(CtxIsAdmin)
}
