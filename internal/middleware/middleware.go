package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/events/internal/helpers"
	"github.com/joshua-takyi/events/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
	UserKey         = "user"

	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// TokenRefresher exchanges a refresh token for a new access token. The
// Supabase GoTrue client satisfies it.
type TokenRefresher interface {
	RefreshToken(refreshToken string) (*types.TokenResponse, error)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get(RequestIDKey)

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler turns errors recorded with c.Error into a generic 500. The
// error itself is only logged.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		requestID, _ := c.Get(RequestIDKey)

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}

		// Don't return error details
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": requestID,
		})
	}
}

// AuthMiddleware requires a valid access token, read from the Authorization
// header or the access_token cookie. When the token is rejected and a
// refresher is configured, a refresh_token cookie is exchanged once.
func AuthMiddleware(validator *helpers.TokenValidator, refresher TokenRefresher, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "access token not found")
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			claims, err = refreshAndValidate(c, validator, refresher, logger)
			if err != nil {
				unauthorized(c, "invalid or expired token")
				return
			}
		}

		enhanced, err := helpers.NewEnhancedClaims(claims)
		if err != nil {
			logger.Info("Rejected token with invalid subject",
				"subject", claims.Subject,
				"error", err,
			)
			unauthorized(c, "invalid user ID in token")
			return
		}

		c.Set(UserKey, enhanced)
		c.Next()
	}
}

// CurrentUser returns the claims stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	user, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	claims, ok := user.(*helpers.EnhancedClaims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, err := c.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}
	return token
}

func refreshAndValidate(c *gin.Context, validator *helpers.TokenValidator, refresher TokenRefresher, logger *slog.Logger) (*helpers.CustomClaims, error) {
	if refresher == nil {
		return nil, helpers.ErrInvalidToken
	}
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		return nil, helpers.ErrInvalidToken
	}

	tokenRes, err := refresher.RefreshToken(refreshToken)
	if err != nil {
		logger.Error("Token refresh failed", "error", err)
		return nil, err
	}
	if tokenRes == nil || tokenRes.AccessToken == "" {
		return nil, helpers.ErrInvalidToken
	}

	claims, err := validator.ValidateToken(tokenRes.AccessToken)
	if err != nil {
		return nil, err
	}

	secure := gin.Mode() == gin.ReleaseMode
	c.SetCookie(accessTokenCookie, tokenRes.AccessToken, tokenRes.ExpiresIn, "/", "", secure, true)
	c.SetCookie(refreshTokenCookie, tokenRes.RefreshToken, 3600*24*30, "/", "", secure, true)

	logger.Info("Token refreshed successfully",
		"subject", claims.Subject,
		"expires_in", tokenRes.ExpiresIn,
	)
	return claims, nil
}

func unauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(reason))
}
