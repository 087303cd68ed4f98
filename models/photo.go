package models

import (
	"time"

	"gorm.io/datatypes"
)

// Photo 图片
// Tagged flips to true once auto-tagging has run (or tags were supplied), so tagging happens at most once.
type Photo struct {
	ID             int64                       `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	UserID         int64                       `gorm:"column:user_id;not null;index:idx_user_upload,priority:1" json:"user_id,string"`
	ImageURL       string                      `gorm:"column:image_url;type:varchar(512);not null" json:"image_url"`
	ObjectKey      string                      `gorm:"column:object_key;type:varchar(512);not null;default:''" json:"-"`
	Title          string                      `gorm:"column:title;type:varchar(255);not null;default:''" json:"title"`
	Description    string                      `gorm:"column:description;type:text" json:"description"`
	Width          int                         `gorm:"column:width;not null;default:0" json:"width"`
	Height         int                         `gorm:"column:height;not null;default:0" json:"height"`
	Format         string                      `gorm:"column:format;type:varchar(16);not null;default:''" json:"format"`
	Tags           datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	Tagged         bool                        `gorm:"column:tagged;not null;default:false" json:"-"`
	LikesCount     int64                       `gorm:"column:likes_count;not null;default:0;index:idx_likes" json:"likes_count"`
	CommentsCount  int64                       `gorm:"column:comments_count;not null;default:0" json:"comments_count"`
	DownloadsCount int64                       `gorm:"column:downloads_count;not null;default:0" json:"downloads_count"`
	UploadDate     time.Time                   `gorm:"column:upload_date;index:idx_user_upload,priority:2;index:idx_upload_date" json:"upload_date"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at" json:"updated_at"`
}

func (Photo) TableName() string { return "photos" }

// Like 点赞记录
// 唯一键: user_id + photo_id
type Like struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:uk_user_photo,priority:1" json:"user_id,string"`
	PhotoID   int64     `gorm:"column:photo_id;not null;uniqueIndex:uk_user_photo,priority:2;index:idx_photo" json:"photo_id,string"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Like) TableName() string { return "likes" }

// Download 下载记录
// 唯一键: user_id + photo_id
type Download struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:uk_download_user_photo,priority:1" json:"user_id,string"`
	PhotoID   int64     `gorm:"column:photo_id;not null;uniqueIndex:uk_download_user_photo,priority:2;index:idx_download_photo" json:"photo_id,string"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Download) TableName() string { return "downloads" }

// Comment 评论
type Comment struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	UserID      int64     `gorm:"column:user_id;not null;index:idx_comment_user" json:"user_id,string"`
	PhotoID     int64     `gorm:"column:photo_id;not null;index:idx_comment_photo" json:"photo_id,string"`
	CommentText string    `gorm:"column:comment_text;type:text;not null" json:"comment_text"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }
