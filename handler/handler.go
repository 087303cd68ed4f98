package handler

import (
	stdctx "context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/pkg/validate"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

// principal is the caller as the services see it; zero for anonymous requests.
func principal(c *gin.Context) service.Principal {
	return service.Principal{UserID: context.OptionalUserID(c), IsAdmin: context.IsAdmin(c)}
}

func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return response.BadRequest(validate.Message(err))
	}
	return nil
}

func bindQuery(c *gin.Context, req any) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return response.BadRequest(validate.Message(err))
	}
	return nil
}

// bind picks the binding from the Content-Type, so JSON and multipart bodies both work.
func bind(c *gin.Context, req any) error {
	if err := c.ShouldBind(req); err != nil {
		return response.BadRequest(validate.Message(err))
	}
	return nil
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, response.BadRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// formFile returns nil when the field is absent so the service decides whether it was required.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, response.BadRequest(err.Error())
	}
	return fh, nil
}

type membersFunc func(ctx stdctx.Context, p service.Principal, targetID int64, req *types.PhotoIDsReq) (*types.MembershipResp, error)

// members binds a photo_ids batch for the :id target and applies change.
func members(c *gin.Context, change membersFunc) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req types.PhotoIDsReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := change(c.Request.Context(), principal(c), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
