package service

import (
	"errors"
	"fmt"
	"net/http"

	"Shutter/dao"
	"Shutter/pkg/response"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = response.NotFound("user not found")
	ErrPhotoNotFound      = response.NotFound("photo not found")
	ErrCommentNotFound    = response.NotFound("comment not found")
	ErrCollectionNotFound = response.NotFound("collection not found")
	ErrCategoryNotFound   = response.NotFound("category not found")
	ErrDownloadNotFound   = response.NotFound("download record not found")

	ErrPermissionDenied = response.Forbidden("you do not have permission to perform this action")
	ErrAdminOnly        = response.Forbidden("admin privileges required")

	ErrInvalidCredentials = response.Unauthorized("invalid email or password")
	ErrInactiveUser       = response.Unauthorized("user account is disabled")
	ErrInvalidToken       = response.Unauthorized("token is invalid or expired")

	ErrUsernameTaken     = response.Conflict("a user with that username already exists")
	ErrEmailTaken        = response.Conflict("a user with that email already exists")
	ErrCategoryExists    = response.Conflict("a category with that name already exists")
	ErrDuplicateComment  = response.Conflict("you already posted this comment")
	ErrAlreadyDownloaded = response.Conflict("photo already downloaded")

	ErrSelfFollow       = response.BadRequest("you cannot follow yourself")
	ErrFollowTarget     = response.BadRequest("username or user_id is required")
	ErrUsernameRequired = response.BadRequest("username is required")
	ErrMissingImage     = response.BadRequest("image file is required")
	ErrInvalidImage     = response.BadRequest("invalid image format; allowed formats: jpeg, png, gif, webp, tiff")
	ErrDownloadThrottle = response.TooManyRequests("download rate limit exceeded, try again in a minute")

	ErrStorageFailure = response.NewError(http.StatusBadGateway, "image upload failed")
)

func errImageTooLarge(max int64) error {
	return response.BadRequest(fmt.Sprintf("image exceeds the maximum size of %d MB", max>>20))
}

// notFound maps a missing row to the resource's 404 and wraps anything else.
func notFound(err error, nf *response.BizError, what string) error {
	if dao.IsNotFound(err) {
		return nf
	}
	return fmt.Errorf("%s: %w", what, err)
}

// relationErr maps toggle core errors onto the client error taxonomy.
func relationErr(err error, nf *response.BizError, what string) error {
	switch {
	case errors.Is(err, dao.ErrTargetNotFound), dao.IsNotFound(err):
		return nf
	case errors.Is(err, dao.ErrSelfRelation):
		return ErrSelfFollow
	case errors.Is(err, dao.ErrRelationExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return response.Conflict(what + " already exists")
	case errors.Is(err, dao.ErrRelationMissing):
		return response.NotFound(what + " does not exist")
	}
	return fmt.Errorf("%s: %w", what, err)
}
