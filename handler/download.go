package handler

import (
	"Shutter/middleware"
	"Shutter/pkg/context"
	"Shutter/pkg/response"
	"Shutter/service"
	"Shutter/types"

	"github.com/gin-gonic/gin"
)

type Download struct {
	Authenticator   *middleware.Authenticator
	DownloadService service.IDownloadService
}

func (h *Download) RegisterRouter(r gin.IRouter) {
	authorize := h.Authenticator.Auth()
	optional := h.Authenticator.OptionalAuth()

	g := r.Group("/downloads")
	g.POST("/track", authorize, context.Wrap(h.Track))
	g.GET("/history", authorize, context.Wrap(h.History))
	g.GET("/most_downloaded", optional, context.Wrap(h.MostDownloaded))
	g.GET("/stats", authorize, context.Wrap(h.Stats))
	g.DELETE("/remove_by_photo", authorize, context.Wrap(h.RemoveByPhoto))
}

func (h *Download) Track(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.TrackDownloadReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.DownloadService.Track(c.Request.Context(), userID, req.PhotoID.Int64())
	if err != nil {
		return err
	}
	response.Created(c, resp)
	return nil
}

func (h *Download) History(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	items, err := h.DownloadService.History(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

func (h *Download) MostDownloaded(c *gin.Context) error {
	items, err := h.DownloadService.MostDownloaded(c.Request.Context(), context.OptionalUserID(c))
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

func (h *Download) Stats(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	stats, err := h.DownloadService.Stats(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}

// RemoveByPhoto reads photo_id from the query string.
func (h *Download) RemoveByPhoto(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var q types.PhotoQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	if err := h.DownloadService.RemoveByPhoto(c.Request.Context(), userID, q.PhotoID.Int64()); err != nil {
		return err
	}
	response.NoContent(c)
	return nil
}
