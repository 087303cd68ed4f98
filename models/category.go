package models

import "time"

// Category 分类
type Category struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	Name        string    `gorm:"column:name;type:varchar(100);not null;uniqueIndex:uk_category_name" json:"name"`
	Slug        string    `gorm:"column:slug;type:varchar(120);not null;uniqueIndex:uk_category_slug" json:"slug"`
	ImageURL    string    `gorm:"column:image_url;type:varchar(512);not null;default:''" json:"image_url"`
	PhotosCount int64     `gorm:"column:photos_count;not null;default:0" json:"photos_count"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// PhotoCategory 唯一键: category_id + photo_id
type PhotoCategory struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CategoryID int64     `gorm:"column:category_id;not null;uniqueIndex:uk_category_photo,priority:1" json:"category_id,string"`
	PhotoID    int64     `gorm:"column:photo_id;not null;uniqueIndex:uk_category_photo,priority:2;index:idx_pcat_photo" json:"photo_id,string"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PhotoCategory) TableName() string { return "photo_categories" }
