package response

import (
	"net/http"

	"Shutter/pkg/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BizError is an error the client is allowed to see. Code is the HTTP status.
type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

func BadRequest(msg string) *BizError { return NewError(http.StatusBadRequest, msg) }

func Unauthorized(msg string) *BizError { return NewError(http.StatusUnauthorized, msg) }

func Forbidden(msg string) *BizError { return NewError(http.StatusForbidden, msg) }

func NotFound(msg string) *BizError { return NewError(http.StatusNotFound, msg) }

// Conflict covers duplicate relations and unique key violations; clients see a 400.
func Conflict(msg string) *BizError { return NewError(http.StatusBadRequest, msg) }

func TooManyRequests(msg string) *BizError { return NewError(http.StatusTooManyRequests, msg) }

// ErrorMiddleware turns panics and errors attached with c.Error into the standard body.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Request.URL.Path))
				Abort(c, http.StatusInternalServerError, "internal server error")
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err

			if be, ok := err.(*BizError); ok {
				Fail(c, be.Code, be.Msg)
			} else {
				log.L.Error("request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
				Fail(c, http.StatusInternalServerError, "internal server error")
			}
			c.Abort()
		}
	}
}
