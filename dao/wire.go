//go:build wireinject

package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewUserDAO,
	NewPhotoDAO,
	NewCommentDAO,
	NewCollectionDAO,
	NewCategoryDAO,

	NewLikeDAO,
	NewFollowDAO,
	NewCollectionLikeDAO,
	NewCollectionFollowDAO,
	NewPhotoCollectionDAO,
	NewPhotoCategoryDAO,
	NewDownloadDAO,
)
