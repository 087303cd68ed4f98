package models

import "time"

// Collection 图集
type Collection struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	UserID         int64     `gorm:"column:user_id;not null;index:idx_collection_user" json:"user_id,string"`
	Name           string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug           string    `gorm:"column:slug;type:varchar(255);not null;uniqueIndex:uk_slug" json:"slug"`
	Description    string    `gorm:"column:description;type:text" json:"description"`
	IsPublic       bool      `gorm:"column:is_public;not null" json:"is_public"`
	LikesCount     int64     `gorm:"column:likes_count;not null;default:0" json:"likes_count"`
	FollowersCount int64     `gorm:"column:followers_count;not null;default:0" json:"followers_count"`
	PhotosCount    int64     `gorm:"column:photos_count;not null;default:0" json:"photos_count"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Collection) TableName() string { return "collections" }

// PhotoCollection 图集成员
// 唯一键: collection_id + photo_id
type PhotoCollection struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CollectionID int64     `gorm:"column:collection_id;not null;uniqueIndex:uk_collection_photo,priority:1" json:"collection_id,string"`
	PhotoID      int64     `gorm:"column:photo_id;not null;uniqueIndex:uk_collection_photo,priority:2;index:idx_pc_photo" json:"photo_id,string"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PhotoCollection) TableName() string { return "photo_collections" }

type CollectionLike struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:uk_cl_user_collection,priority:1" json:"user_id,string"`
	CollectionID int64     `gorm:"column:collection_id;not null;uniqueIndex:uk_cl_user_collection,priority:2;index:idx_cl_collection" json:"collection_id,string"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (CollectionLike) TableName() string { return "collection_likes" }

type CollectionFollower struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:uk_cf_user_collection,priority:1" json:"user_id,string"`
	CollectionID int64     `gorm:"column:collection_id;not null;uniqueIndex:uk_cf_user_collection,priority:2;index:idx_cf_collection" json:"collection_id,string"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (CollectionFollower) TableName() string { return "collection_followers" }
