package types

import "time"

type PhotoItem struct {
	ID             ID        `json:"id"`
	User           UserBrief `json:"user"`
	ImageURL       string    `json:"image"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Format         string    `json:"format"`
	Tags           []string  `json:"ai_tags"`
	LikesCount     int64     `json:"likes_count"`
	CommentsCount  int64     `json:"comments_count"`
	DownloadsCount int64     `json:"downloads_count"`
	UploadDate     time.Time `json:"upload_date"`
	IsLiked        bool      `json:"is_liked"`
}

// CreatePhotoReq is the multipart form next to the "image" file.
type CreatePhotoReq struct {
	Title       string `form:"title" binding:"omitempty,max=255"`
	Description string `form:"description" binding:"omitempty,max=5000"`
	// Tags is a comma separated list. Photos created with tags skip auto-tagging.
	Tags string `form:"tags" binding:"omitempty,max=1000"`
}

type UpdatePhotoReq struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

type PhotoListReq struct {
	PageQuery
	Search   string `form:"search"`
	Username string `form:"username"`
}

type TrendingReq struct {
	Days  int `form:"days" binding:"omitempty,min=1,max=365"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

type GalleryReq struct {
	PageQuery
	Username string `form:"username"`
}

// UploadedImage is a stored object plus what sniffing learned about it.
type UploadedImage struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type BatchUploadItem struct {
	Filename string     `json:"filename"`
	Photo    *PhotoItem `json:"photo,omitempty"`
	Error    string     `json:"error,omitempty"`
}

type BatchUploadResp struct {
	Uploaded int               `json:"uploaded"`
	Failed   int               `json:"failed"`
	Results  []BatchUploadItem `json:"results"`
}

type PhotoStats struct {
	PhotoID          ID    `json:"photo_id"`
	LikesCount       int64 `json:"likes_count"`
	CommentsCount    int64 `json:"comments_count"`
	DownloadsCount   int64 `json:"downloads_count"`
	CollectionsCount int64 `json:"collections_count"`
}
