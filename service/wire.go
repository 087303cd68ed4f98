package service

import (
	"Shutter/middleware"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(Presenter), "*"),

	wire.Struct(new(AuthService), "*"),
	wire.Bind(new(IAuthService), new(*AuthService)),

	wire.Struct(new(UserService), "*"),
	wire.Bind(new(IUserService), new(*UserService)),
	wire.Bind(new(middleware.AccountChecker), new(*UserService)),

	wire.Struct(new(UploadService), "*"),
	wire.Bind(new(IUploadService), new(*UploadService)),

	NewTagService,
	wire.Bind(new(ITagService), new(*TagService)),

	wire.Struct(new(PhotoService), "*"),
	wire.Bind(new(IPhotoService), new(*PhotoService)),

	wire.Struct(new(LikeService), "*"),
	wire.Bind(new(ILikeService), new(*LikeService)),

	wire.Struct(new(FollowService), "*"),
	wire.Bind(new(IFollowService), new(*FollowService)),

	wire.Struct(new(CommentService), "*"),
	wire.Bind(new(ICommentService), new(*CommentService)),

	wire.Struct(new(CollectionService), "*"),
	wire.Bind(new(ICollectionService), new(*CollectionService)),

	wire.Struct(new(CategoryService), "*"),
	wire.Bind(new(ICategoryService), new(*CategoryService)),

	wire.Struct(new(DownloadService), "*"),
	wire.Bind(new(IDownloadService), new(*DownloadService)),
)
