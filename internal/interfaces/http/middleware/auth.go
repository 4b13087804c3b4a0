package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"monthly-club.backend/internal/domain/entities"
	"monthly-club.backend/pkg/jwt"
	"monthly-club.backend/pkg/logger"
	"monthly-club.backend/pkg/redis"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionCookieName carries the server-side session id
	SessionCookieName = "session_id"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
)

// SessionReader resolves a session id issued at login
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
}

// AuthMiddleware resolves the current user from a bearer token or the
// session cookie and aborts with 401 otherwise. sessions may be nil.
func AuthMiddleware(jwtService *jwt.JWTService, sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, email, err := authenticate(c, jwtService, sessions)
		if err != nil {
			logger.Debug(ctx, "Authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "Token has expired"
			} else if errors.Is(err, errNoCredentials) {
				msg = "Authentication required"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": msg,
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserEmailKey, email)
		c.Request = c.Request.WithContext(context.WithValue(ctx, logger.UserIDKey, userID.String()))

		c.Next()
	}
}

var (
	errNoCredentials  = errors.New("no credentials")
	errSessionInvalid = errors.New("session invalid")
)

func authenticate(c *gin.Context, jwtService *jwt.JWTService, sessions SessionReader) (uuid.UUID, string, error) {
	if authHeader := c.GetHeader(AuthorizationHeader); authHeader != "" {
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			return uuid.Nil, "", jwt.ErrInvalidToken
		}
		claims, err := jwtService.ValidateAccessToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			return uuid.Nil, "", err
		}
		return claims.UserID, claims.Email, nil
	}

	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || sessionID == "" || sessions == nil {
		return uuid.Nil, "", errNoCredentials
	}
	session, err := sessions.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		return uuid.Nil, "", errors.Join(errSessionInvalid, err)
	}
	// The session expires in redis, so its stored identity is authoritative
	// even after the embedded access token has lapsed.
	userID, err := uuid.Parse(session.UserID)
	if err != nil {
		return uuid.Nil, "", errors.Join(errSessionInvalid, err)
	}
	return userID, session.Email, nil
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmail gets the user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// CurrentUser returns the authenticated user, or nil for anonymous requests
func CurrentUser(c *gin.Context) *entities.CurrentUser {
	id, ok := GetUserID(c)
	if !ok {
		return nil
	}
	email, _ := GetUserEmail(c)
	return &entities.CurrentUser{ID: id, Email: email}
}
