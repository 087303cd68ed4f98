package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/middleware"
	"Shutter/models"
	"Shutter/pkg/log"
	"Shutter/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultSuggestedLimit = 10

var (
	_ IUserService             = (*UserService)(nil)
	_ middleware.AccountChecker = (*UserService)(nil)
)

type IUserService interface {
	Profile(ctx context.Context, userID int64) (*types.UserProfile, error)
	// UpdateProfile applies the non-nil fields. A new avatar replaces the old object.
	UpdateProfile(ctx context.Context, userID int64, req *types.UpdateProfileReq, avatar *multipart.FileHeader) (*types.UserProfile, error)
	GetByID(ctx context.Context, viewerID, userID int64) (*types.UserDetail, error)
	GetByUsername(ctx context.Context, viewerID int64, username string) (*types.UserDetail, error)
	Stats(ctx context.Context, username string) (*types.UserStats, error)
	Suggested(ctx context.Context, viewerID int64, limit int) ([]types.UserBrief, error)
	DeleteAccount(ctx context.Context, userID int64) error
	SetAdmin(ctx context.Context, username string, admin bool) error
	IsActive(ctx context.Context, userID int64) (bool, error)
}

type UserService struct {
	Config        *config.Config
	UserDAO       *dao.UserDAO
	PhotoDAO      *dao.PhotoDAO
	CollectionDAO *dao.CollectionDAO
	FollowDAO     *dao.FollowDAO
	Cache         cache.Cache
	Presenter     *Presenter
	Upload        IUploadService
}

// userByNameOrSelf resolves username, or the viewer when it is empty.
func userByNameOrSelf(ctx context.Context, users *dao.UserDAO, username string, viewerID int64) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case username != "":
		user, err = users.FindByUsername(ctx, username)
	case viewerID != 0:
		user, err = users.FindById(ctx, viewerID)
	default:
		return nil, ErrUsernameRequired
	}
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}
	return user, nil
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*types.UserProfile, error) {
	user, err := s.UserDAO.FindById(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}
	return userProfile(user), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *types.UpdateProfileReq, avatar *multipart.FileHeader) (*types.UserProfile, error) {
	user, err := s.UserDAO.FindById(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}

	updates := map[string]any{}
	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.UserDAO.IsUsernameTaken(ctx, *req.Username, userID)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		updates["username"] = *req.Username
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			taken, err := s.UserDAO.IsEmailTaken(ctx, email, userID)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if taken {
				return nil, ErrEmailTaken
			}
			updates["email"] = email
		}
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.About != nil {
		updates["about"] = *req.About
	}
	if req.Contact != nil {
		updates["contact"] = datatypes.JSONMap(req.Contact)
	}

	var uploaded string
	if avatar != nil {
		img, err := s.Upload.UploadAvatar(ctx, user, avatar)
		if err != nil {
			return nil, err
		}
		uploaded = img.URL
		updates["profile_picture"] = img.URL
	}

	if len(updates) == 0 {
		return userProfile(user), nil
	}
	if _, err := s.UserDAO.UpdateById(ctx, userID, updates); err != nil {
		s.Upload.Purge(ctx, uploaded)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if uploaded != "" && user.ProfilePicture != "" {
		s.Upload.Purge(ctx, user.ProfilePicture)
	}
	cache.Invalidate(ctx, s.Cache, cache.UserWritten, cache.Target{Subject: userID, Target: userID})
	return s.Profile(ctx, userID)
}

func (s *UserService) GetByID(ctx context.Context, viewerID, userID int64) (*types.UserDetail, error) {
	detail, err := cache.Remember(ctx, s.Cache, cache.UserKey(userID), config.Seconds(s.Config.Cache.UserTTL),
		func(ctx context.Context) (types.UserDetail, error) {
			user, err := s.UserDAO.FindById(ctx, userID)
			if err != nil {
				return types.UserDetail{}, notFound(err, ErrUserNotFound, "find user")
			}
			return userDetail(user), nil
		})
	if err != nil {
		return nil, err
	}
	if viewerID != 0 && viewerID != userID {
		detail.IsFollowing, err = s.FollowDAO.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, fmt.Errorf("check follow: %w", err)
		}
	}
	return &detail, nil
}

func (s *UserService) GetByUsername(ctx context.Context, viewerID int64, username string) (*types.UserDetail, error) {
	user, err := s.UserDAO.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}
	return s.GetByID(ctx, viewerID, user.ID)
}

func (s *UserService) Stats(ctx context.Context, username string) (*types.UserStats, error) {
	user, err := s.UserDAO.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}
	totals, err := s.PhotoDAO.SumStats(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("photo totals: %w", err)
	}
	collections, err := s.CollectionDAO.FindCount(ctx, "user_id = ?", user.ID)
	if err != nil {
		return nil, fmt.Errorf("count collections: %w", err)
	}
	return &types.UserStats{
		UserID:           types.ID(user.ID),
		Username:         user.Username,
		FollowersCount:   user.FollowersCount,
		FollowingCount:   user.FollowingCount,
		PhotosCount:      totals.Photos,
		CollectionsCount: collections,
		TotalLikes:       totals.Likes,
		TotalComments:    totals.Comments,
		TotalDownloads:   totals.Downloads,
	}, nil
}

func (s *UserService) Suggested(ctx context.Context, viewerID int64, limit int) ([]types.UserBrief, error) {
	if limit < 1 {
		limit = defaultSuggestedLimit
	}
	users, err := s.UserDAO.Suggested(ctx, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("suggested users: %w", err)
	}
	return s.Presenter.Users(ctx, viewerID, users)
}

// DeleteAccount removes the user with everything they own or engaged with.
// Stored media is purged afterwards on a best-effort basis.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	user, err := s.UserDAO.FindById(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound, "find user")
	}
	photos, err := s.PhotoDAO.FindAll(ctx, "user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("list photos: %w", err)
	}

	cascade, err := s.UserDAO.DeleteCascade(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound, "delete user")
	}

	for _, id := range cascade.PhotoIDs {
		cache.Invalidate(ctx, s.Cache, cache.PhotoWritten, cache.Target{Subject: userID, Target: id})
	}
	for _, id := range cascade.CollectionIDs {
		cache.Invalidate(ctx, s.Cache, cache.CollectionWritten, cache.Target{Subject: userID, Target: id})
	}
	for _, id := range cascade.UserIDs {
		cache.Invalidate(ctx, s.Cache, cache.UserWritten, cache.Target{Subject: userID, Target: id})
	}

	for _, p := range photos {
		s.Upload.Purge(ctx, p.ImageURL)
	}
	s.Upload.Purge(ctx, user.ProfilePicture)
	log.L.Info("account deleted", zap.Int64("user_id", userID), zap.Int("photos", len(photos)))
	return nil
}

func (s *UserService) SetAdmin(ctx context.Context, username string, admin bool) error {
	user, err := s.UserDAO.FindByUsername(ctx, username)
	if err != nil {
		return notFound(err, ErrUserNotFound, "find user")
	}
	if _, err := s.UserDAO.UpdateById(ctx, user.ID, map[string]any{"is_admin": admin}); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	cache.Invalidate(ctx, s.Cache, cache.UserWritten, cache.Target{Target: user.ID})
	return nil
}

// IsActive reports false for deleted and disabled accounts.
func (s *UserService) IsActive(ctx context.Context, userID int64) (bool, error) {
	active, _, err := s.Standing(ctx, userID)
	return active, err
}

// Standing reads the account flags tokens are checked against on every request.
func (s *UserService) Standing(ctx context.Context, userID int64) (bool, bool, error) {
	user, err := s.UserDAO.FindById(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return false, false, nil
		}
		return false, false, err
	}
	return user.IsActive, user.Privileged(), nil
}
