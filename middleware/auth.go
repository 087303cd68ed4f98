package middleware

import (
	"context"
	"net/http"
	"strings"

	"Shutter/config"
	"Shutter/dao/cache"
	ctxutil "Shutter/pkg/context"
	"Shutter/pkg/jwt"
	"Shutter/pkg/log"
	"Shutter/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountChecker reports whether an account may still use its tokens and
// whether it currently holds admin rights.
type AccountChecker interface {
	Standing(ctx context.Context, userID int64) (active, admin bool, err error)
}

type Authenticator struct {
	secret    []byte
	blacklist *cache.TokenBlacklist
	users     AccountChecker
}

func NewAuthenticator(cfg *config.Config, blacklist *cache.TokenBlacklist, users AccountChecker) *Authenticator {
	return &Authenticator{secret: []byte(cfg.Jwt.Secret), blacklist: blacklist, users: users}
}

// Auth rejects requests without a valid access token.
func (a *Authenticator) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}
		if msg := a.authenticate(c, authHeader); msg != "" {
			response.Abort(c, http.StatusUnauthorized, msg)
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present and lets
// anonymous requests through. A bad token is still rejected.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		if msg := a.authenticate(c, authHeader); msg != "" {
			response.Abort(c, http.StatusUnauthorized, msg)
			return
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "malformed authorization header"
	}

	claims, err := jwt.ParseToken(a.secret, jwt.TypeAccess, parts[1])
	if err != nil {
		return "invalid or expired token"
	}

	ctx := c.Request.Context()
	if a.blacklist != nil {
		revoked, err := a.blacklist.Contains(ctx, claims.ID)
		if err != nil {
			log.L.Warn("blacklist lookup", zap.Error(err))
		}
		if revoked {
			return "token has been revoked"
		}
	}
	// The admin claim is only a ceiling; revocation applies on the next request.
	admin := claims.Admin
	if a.users != nil {
		active, current, err := a.users.Standing(ctx, claims.UserID)
		if err != nil {
			log.L.Warn("account check", zap.Int64("user_id", claims.UserID), zap.Error(err))
			admin = false
		} else {
			if !active {
				return "user is inactive or deleted"
			}
			admin = admin && current
		}
	}

	c.Set(ctxutil.CtxUserID, claims.UserID)
	c.Set(ctxutil.CtxUsername, claims.Username)
	c.Set(ctxutil.CtxIsAdmin, admin)
	c.Set(ctxutil.CtxTokenID, claims.ID)
	return ""
}
