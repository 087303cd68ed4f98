package handler

import (
	"Shutter/middleware"
	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

type Category struct {
	Authenticator   *middleware.Authenticator
	CategoryService service.ICategoryService
}

func (h *Category) RegisterRouter(r gin.IRouter) {
	authorize := h.Authenticator.Auth()
	optional := h.Authenticator.OptionalAuth()

	g := r.Group("/categories")
	g.GET("", context.Wrap(h.List))
	g.POST("", authorize, context.Wrap(h.Create))
	g.GET("/popular", context.Wrap(h.Popular))
	g.GET("/:id", context.Wrap(h.Get))
	g.PATCH("/:id", authorize, context.Wrap(h.Update))
	g.DELETE("/:id", authorize, context.Wrap(h.Delete))
	g.GET("/:id/photos", optional, context.Wrap(h.Photos))
	g.GET("/:id/stats", context.Wrap(h.Stats))
	g.POST("/:id/add_photos", authorize, context.Wrap(h.AddPhotos))
	g.POST("/:id/remove_photos", authorize, context.Wrap(h.RemovePhotos))
}

func (h *Category) List(c *gin.Context) error {
	items, err := h.CategoryService.List(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

func (h *Category) Create(c *gin.Context) error {
	var req types.CreateCategoryReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.CategoryService.Create(c.Request.Context(), principal(c), &req)
	if err != nil {
		return err
	}
	response.Created(c, item)
	return nil
}

func (h *Category) Popular(c *gin.Context) error {
	var req types.LimitReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	items, err := h.CategoryService.Popular(c.Request.Context(), req.Limit)
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

func (h *Category) Get(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	item, err := h.CategoryService.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (h *Category) Update(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateCategoryReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.CategoryService.Update(c.Request.Context(), principal(c), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (h *Category) Delete(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.CategoryService.Delete(c.Request.Context(), principal(c), id); err != nil {
		return err
	}
	response.NoContent(c)
	return nil
}

func (h *Category) Photos(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var q types.PageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := h.CategoryService.Photos(c.Request.Context(), context.OptionalUserID(c), id, q)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Category) Stats(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.CategoryService.Stats(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}

func (h *Category) AddPhotos(c *gin.Context) error {
	return members(c, h.CategoryService.AddPhotos)
}

func (h *Category) RemovePhotos(c *gin.Context) error {
	return members(c, h.CategoryService.RemovePhotos)
}
