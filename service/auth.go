package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Shutter/config"
	"Shutter/dao"
	"Shutter/dao/cache"
	"Shutter/models"
	"Shutter/pkg/encrypt"
	"Shutter/pkg/jwt"
	"Shutter/pkg/log"
	"Shutter/pkg/snowflake"
	"Shutter/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ IAuthService = (*AuthService)(nil)

type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterReq) (*types.UserProfile, error)
	Login(ctx context.Context, req *types.LoginReq) (*types.LoginResp, error)
	// Logout revokes the refresh token and, when known, the access token in use.
	Logout(ctx context.Context, userID int64, refresh string, accessJTI string) error
	Refresh(ctx context.Context, refresh string) (*types.TokenPair, error)
}

type AuthService struct {
	Config    *config.Config
	UserDAO   *dao.UserDAO
	Blacklist *cache.TokenBlacklist
}

func (s *AuthService) Register(ctx context.Context, req *types.RegisterReq) (*types.UserProfile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.UserDAO.IsUsernameTaken(ctx, req.Username, 0)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.UserDAO.IsEmailTaken(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := encrypt.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		ID:       snowflake.GenID(),
		Username: req.Username,
		Email:    email,
		Password: hash,
		FullName: req.FullName,
		IsActive: true,
	}
	if err := s.UserDAO.Create(ctx, user); err != nil {
		// Lost a race with another signup for the same name or email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.L.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return userProfile(user), nil
}

func (s *AuthService) Login(ctx context.Context, req *types.LoginReq) (*types.LoginResp, error) {
	user, err := s.UserDAO.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !encrypt.VerifyPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := s.UserDAO.UpdateById(ctx, user.ID, map[string]any{"last_login": now}); err != nil {
		log.L.Warn("update last_login", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	user.LastLogin = &now
	return &types.LoginResp{TokenPair: *pair, User: *userProfile(user)}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID int64, refresh string, accessJTI string) error {
	claims, err := jwt.ParseToken([]byte(s.Config.Jwt.Secret), jwt.TypeRefresh, refresh)
	if err != nil || claims.UserID != userID {
		return ErrInvalidToken
	}
	if err := s.Blacklist.Add(ctx, claims.ID, claims.Remaining()); err != nil {
		return fmt.Errorf("blacklist refresh token: %w", err)
	}
	if accessJTI != "" {
		if err := s.Blacklist.Add(ctx, accessJTI, s.Config.Jwt.AccessTTL()); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}

// Refresh rotates a refresh token: the old one is revoked and a new pair issued.
// A refresh token is spent at most once, even under concurrent calls.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (*types.TokenPair, error) {
	claims, err := jwt.ParseToken([]byte(s.Config.Jwt.Secret), jwt.TypeRefresh, refresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.UserDAO.FindById(ctx, claims.UserID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	claimed, err := s.Blacklist.Claim(ctx, claims.ID, claims.Remaining())
	if err != nil {
		return nil, fmt.Errorf("blacklist refresh token: %w", err)
	}
	if !claimed {
		return nil, ErrInvalidToken
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*types.TokenPair, error) {
	secret := []byte(s.Config.Jwt.Secret)
	sub := jwt.Subject{UserID: user.ID, Username: user.Username, Admin: user.Privileged()}

	access, _, err := jwt.GenerateToken(secret, sub, jwt.TypeAccess, s.Config.Jwt.AccessTTL())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, _, err := jwt.GenerateToken(secret, sub, jwt.TypeRefresh, s.Config.Jwt.RefreshTTL())
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &types.TokenPair{
		Access:    access,
		Refresh:   refresh,
		ExpiresIn: s.Config.Jwt.AccessExpire,
	}, nil
}
