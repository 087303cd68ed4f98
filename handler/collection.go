package handler

import (
	"Shutter/middleware"
	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

type Collection struct {
	Authenticator     *middleware.Authenticator
	CollectionService service.ICollectionService
}

func (h *Collection) RegisterRouter(r gin.IRouter) {
	authorize := h.Authenticator.Auth()
	optional := h.Authenticator.OptionalAuth()

	g := r.Group("/collections")
	g.GET("", optional, context.Wrap(h.List))
	g.POST("", authorize, context.Wrap(h.Create))
	g.GET("/trending", optional, context.Wrap(h.Trending))
	g.GET("/mine", authorize, context.Wrap(h.Mine))
	g.GET("/recommended", authorize, context.Wrap(h.Recommended))
	g.GET("/user/:username", optional, context.Wrap(h.UserCollections))
	g.GET("/slug/:slug", optional, context.Wrap(h.BySlug))
	g.GET("/:id", optional, context.Wrap(h.Detail))
	g.PATCH("/:id", authorize, context.Wrap(h.Update))
	g.DELETE("/:id", authorize, context.Wrap(h.Delete))
	g.GET("/:id/photos", optional, context.Wrap(h.Photos))
	g.GET("/:id/stats", optional, context.Wrap(h.Stats))
	g.POST("/:id/add_photos", authorize, context.Wrap(h.AddPhotos))
	g.POST("/:id/remove_photos", authorize, context.Wrap(h.RemovePhotos))
	g.POST("/:id/toggle_like", authorize, context.Wrap(h.ToggleLike))
	g.POST("/:id/toggle_follow", authorize, context.Wrap(h.ToggleFollow))
}

func (h *Collection) List(c *gin.Context) error {
	var req types.CollectionListReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	page, err := h.CollectionService.List(c.Request.Context(), principal(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Collection) Create(c *gin.Context) error {
	var req types.CreateCollectionReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.CollectionService.Create(c.Request.Context(), principal(c), &req)
	if err != nil {
		return err
	}
	response.Created(c, item)
	return nil
}

func (h *Collection) Trending(c *gin.Context) error {
	items, err := h.CollectionService.Trending(c.Request.Context(), principal(c))
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

func (h *Collection) Recommended(c *gin.Context) error {
	items, err := h.CollectionService.Recommended(c.Request.Context(), principal(c))
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

func (h *Collection) Mine(c *gin.Context) error {
	var q types.PageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := h.CollectionService.Mine(c.Request.Context(), principal(c), q)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Collection) UserCollections(c *gin.Context) error {
	var q types.PageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := h.CollectionService.UserCollections(c.Request.Context(), principal(c), c.Param("username"), q)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Collection) BySlug(c *gin.Context) error {
	item, err := h.CollectionService.BySlug(c.Request.Context(), principal(c), c.Param("slug"))
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (h *Collection) Detail(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	item, err := h.CollectionService.Detail(c.Request.Context(), principal(c), id)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (h *Collection) Update(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateCollectionReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := h.CollectionService.Update(c.Request.Context(), principal(c), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (h *Collection) Delete(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.CollectionService.Delete(c.Request.Context(), principal(c), id); err != nil {
		return err
	}
	response.NoContent(c)
	return nil
}

func (h *Collection) Photos(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var q types.PageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := h.CollectionService.Photos(c.Request.Context(), principal(c), id, q)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (h *Collection) Stats(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	stats, err := h.CollectionService.Stats(c.Request.Context(), principal(c), id)
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}

func (h *Collection) AddPhotos(c *gin.Context) error {
	return members(c, h.CollectionService.AddPhotos)
}

func (h *Collection) RemovePhotos(c *gin.Context) error {
	return members(c, h.CollectionService.RemovePhotos)
}

func (h *Collection) ToggleLike(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.CollectionService.ToggleLike(c.Request.Context(), principal(c), id)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *Collection) ToggleFollow(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.CollectionService.ToggleFollow(c.Request.Context(), principal(c), id)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
