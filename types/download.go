package types

import "time"

type TrackDownloadReq struct {
	PhotoID ID `json:"photo_id" binding:"required"`
}

type DownloadResp struct {
	PhotoID        ID     `json:"photo_id"`
	ImageURL       string `json:"image"`
	DownloadsCount int64  `json:"downloads_count"`
}

type DownloadItem struct {
	Photo        PhotoItem `json:"photo"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

type DownloadStats struct {
	DownloadsMade     int64 `json:"downloads_made"`
	DownloadsReceived int64 `json:"downloads_received"`
}
