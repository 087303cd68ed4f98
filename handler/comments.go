package handler

import (
	"Shutter/middleware"
	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

type Comment struct {
	Authenticator  *middleware.Authenticator
	CommentService service.ICommentService
}

func (h *Comment) RegisterRouter(r gin.IRouter) {
	authorize := h.Authenticator.Auth()

	g := r.Group("/comments")
	g.POST("", authorize, context.Wrap(h.Create))
	g.GET("/photo/:photo_id", context.Wrap(h.ListByPhoto))
	g.GET("/user/:user_id", context.Wrap(h.ListByUser))
	g.GET("/:id", context.Wrap(h.Get))
	g.PATCH("/:id", authorize, context.Wrap(h.Update))
	g.DELETE("/:id", authorize, context.Wrap(h.Delete))
}

func (h *Comment) Create(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateCommentReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.CommentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Created(c, item)
	return nil
}

func (h *Comment) ListByPhoto(c *gin.Context) error {
	photoID, err := idParam(c, "photo_id")
	if err != nil {
		return err
	}
	var q types.PageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := h.CommentService.ListByPhoto(c.Request.Context(), photoID, q)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Comment) ListByUser(c *gin.Context) error {
	userID, err := idParam(c, "user_id")
	if err != nil {
		return err
	}
	var q types.PageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := h.CommentService.ListByUser(c.Request.Context(), userID, q)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Comment) Get(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	item, err := h.CommentService.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (h *Comment) Update(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateCommentReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.CommentService.Update(c.Request.Context(), principal(c), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (h *Comment) Delete(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.CommentService.Delete(c.Request.Context(), principal(c), id); err != nil {
		return err
	}
	response.NoContent(c)
	return nil
}
