package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope for every JSON body. Error is set only on failures.
type Response struct {
	Code  int    `json:"code"`
	Msg   string `json:"message,omitempty"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "ok", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: 0, Msg: "created", Data: data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, Response{Code: httpStatus, Error: msg})
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{Code: httpStatus, Error: msg})
}
