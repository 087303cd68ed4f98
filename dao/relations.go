package dao

import (
	"Shutter/models"

	"gorm.io/gorm"
)

var LikeRelation = RelationSpec{
	Name:          "like",
	Table:         "likes",
	SubjectColumn: "user_id",
	TargetColumn:  "photo_id",
	TargetTable:   "photos",
	Counters: []Counter{
		{Table: "photos", Column: "likes_count", Side: SideTarget},
	},
}

var FollowRelation = RelationSpec{
	Name:          "follow",
	Table:         "followers",
	SubjectColumn: "follower_id",
	TargetColumn:  "following_id",
	TargetTable:   "users",
	ForbidSelf:    true,
	Counters: []Counter{
		{Table: "users", Column: "followers_count", Side: SideTarget},
		{Table: "users", Column: "following_count", Side: SideSubject},
	},
}

var CollectionLikeRelation = RelationSpec{
	Name:          "collection_like",
	Table:         "collection_likes",
	SubjectColumn: "user_id",
	TargetColumn:  "collection_id",
	TargetTable:   "collections",
	Counters: []Counter{
		{Table: "collections", Column: "likes_count", Side: SideTarget},
	},
}

var CollectionFollowRelation = RelationSpec{
	Name:          "collection_follow",
	Table:         "collection_followers",
	SubjectColumn: "user_id",
	TargetColumn:  "collection_id",
	TargetTable:   "collections",
	Counters: []Counter{
		{Table: "collections", Column: "followers_count", Side: SideTarget},
	},
}

// PhotoCollectionRelation has the photo as subject; membership counts live on the collection.
var PhotoCollectionRelation = RelationSpec{
	Name:          "photo_collection",
	Table:         "photo_collections",
	SubjectColumn: "photo_id",
	TargetColumn:  "collection_id",
	TargetTable:   "collections",
	Counters: []Counter{
		{Table: "collections", Column: "photos_count", Side: SideTarget},
	},
}

var PhotoCategoryRelation = RelationSpec{
	Name:          "photo_category",
	Table:         "photo_categories",
	SubjectColumn: "photo_id",
	TargetColumn:  "category_id",
	TargetTable:   "categories",
	Counters: []Counter{
		{Table: "categories", Column: "photos_count", Side: SideTarget},
	},
}

var DownloadRelation = RelationSpec{
	Name:          "download",
	Table:         "downloads",
	SubjectColumn: "user_id",
	TargetColumn:  "photo_id",
	TargetTable:   "photos",
	Counters: []Counter{
		{Table: "photos", Column: "downloads_count", Side: SideTarget},
	},
}

type (
	LikeDAO             = RelationDAO[models.Like]
	FollowDAO           = RelationDAO[models.Follower]
	CollectionLikeDAO   = RelationDAO[models.CollectionLike]
	CollectionFollowDAO = RelationDAO[models.CollectionFollower]
	PhotoCollectionDAO  = RelationDAO[models.PhotoCollection]
	PhotoCategoryDAO    = RelationDAO[models.PhotoCategory]
	DownloadDAO         = RelationDAO[models.Download]
)

func NewLikeDAO(db *gorm.DB) *LikeDAO {
	return NewRelationDAO(db, LikeRelation, func(userID, photoID int64) *models.Like {
		return &models.Like{UserID: userID, PhotoID: photoID}
	})
}

func NewFollowDAO(db *gorm.DB) *FollowDAO {
	return NewRelationDAO(db, FollowRelation, func(followerID, followingID int64) *models.Follower {
		return &models.Follower{FollowerID: followerID, FollowingID: followingID}
	})
}

func NewCollectionLikeDAO(db *gorm.DB) *CollectionLikeDAO {
	return NewRelationDAO(db, CollectionLikeRelation, func(userID, collectionID int64) *models.CollectionLike {
		return &models.CollectionLike{UserID: userID, CollectionID: collectionID}
	})
}

func NewCollectionFollowDAO(db *gorm.DB) *CollectionFollowDAO {
	return NewRelationDAO(db, CollectionFollowRelation, func(userID, collectionID int64) *models.CollectionFollower {
		return &models.CollectionFollower{UserID: userID, CollectionID: collectionID}
	})
}

func NewPhotoCollectionDAO(db *gorm.DB) *PhotoCollectionDAO {
	return NewRelationDAO(db, PhotoCollectionRelation, func(photoID, collectionID int64) *models.PhotoCollection {
		return &models.PhotoCollection{PhotoID: photoID, CollectionID: collectionID}
	})
}

func NewPhotoCategoryDAO(db *gorm.DB) *PhotoCategoryDAO {
	return NewRelationDAO(db, PhotoCategoryRelation, func(photoID, categoryID int64) *models.PhotoCategory {
		return &models.PhotoCategory{PhotoID: photoID, CategoryID: categoryID}
	})
}

func NewDownloadDAO(db *gorm.DB) *DownloadDAO {
	return NewRelationDAO(db, DownloadRelation, func(userID, photoID int64) *models.Download {
		return &models.Download{UserID: userID, PhotoID: photoID}
	})
}
