package handler

import (
	"errors"
	"net/http"

	"Shutter/middleware"
	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

type Photo struct {
	Authenticator *middleware.Authenticator
	PhotoService  service.IPhotoService
}

func (p *Photo) RegisterRouter(r gin.IRouter) {
	authorize := p.Authenticator.Auth()
	optional := p.Authenticator.OptionalAuth()

	g := r.Group("/photos")
	g.GET("", optional, context.Wrap(p.List))
	g.POST("", authorize, context.Wrap(p.Create))
	g.POST("/upload", authorize, context.Wrap(p.BatchUpload))
	g.GET("/trending", optional, context.Wrap(p.Trending))
	g.GET("/feed", authorize, context.Wrap(p.Feed))
	g.GET("/user_gallery", optional, context.Wrap(p.UserGallery))
	g.GET("/:id", optional, context.Wrap(p.Detail))
	g.PATCH("/:id", authorize, context.Wrap(p.Update))
	g.DELETE("/:id", authorize, context.Wrap(p.Delete))
	g.GET("/:id/stats", context.Wrap(p.Stats))
}

func (p *Photo) List(c *gin.Context) error {
	var req types.PhotoListReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	page, err := p.PhotoService.List(c.Request.Context(), context.OptionalUserID(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

// Create takes a multipart form with one "image" file.
func (p *Photo) Create(c *gin.Context) error {
	var req types.CreatePhotoReq
	if err := bind(c, &req); err != nil {
		return err
	}
	fh, err := formFile(c, "image")
	if err != nil {
		return err
	}
	item, err := p.PhotoService.Create(c.Request.Context(), principal(c), &req, fh)
	if err != nil {
		return err
	}
	response.Created(c, item)
	return nil
}

// BatchUpload takes every file under "images". Each file succeeds or fails on its own.
func (p *Photo) BatchUpload(c *gin.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return service.ErrMissingImage
		}
		return response.BadRequest(err.Error())
	}
	resp, err := p.PhotoService.BatchUpload(c.Request.Context(), principal(c), form.File["images"])
	if err != nil {
		return err
	}
	if resp.Uploaded == 0 {
		c.JSON(http.StatusBadRequest, response.Response{Code: http.StatusBadRequest, Error: "no image was uploaded", Data: resp})
		return nil
	}
	response.Created(c, resp)
	return nil
}

func (p *Photo) Trending(c *gin.Context) error {
	var req types.TrendingReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	items, err := p.PhotoService.Trending(c.Request.Context(), context.OptionalUserID(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

func (p *Photo) Feed(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var q types.PageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	page, err := p.PhotoService.Feed(c.Request.Context(), userID, q)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (p *Photo) UserGallery(c *gin.Context) error {
	var req types.GalleryReq
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	page, err := p.PhotoService.UserGallery(c.Request.Context(), context.OptionalUserID(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, page)
	return nil
}

func (p *Photo) Detail(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	item, err := p.PhotoService.Detail(c.Request.Context(), context.OptionalUserID(c), id)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (p *Photo) Update(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdatePhotoReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item, err := p.PhotoService.Update(c.Request.Context(), principal(c), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, item)
	return nil
}

func (p *Photo) Delete(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := p.PhotoService.Delete(c.Request.Context(), principal(c), id); err != nil {
		return err
	}
	response.NoContent(c)
	return nil
}

func (p *Photo) Stats(c *gin.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	stats, err := p.PhotoService.Stats(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}
