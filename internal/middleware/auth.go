package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// ContextAdmin holds the authenticated *models.Admin.
	ContextAdmin = "currentAdmin"
	// ContextSession holds the session id (the token's jti).
	ContextSession = "currentSession"
	// TokenCookie is the cookie login sets alongside the returned token.
	TokenCookie = "hostel_token"
)

// tokenFromRequest looks for the JWT in the Authorization header, then the
// ?token= query parameter (downloads), then the cookie.
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware validates the JWT and its session row and puts the admin
// into the context. Revoked or expired sessions are rejected.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Authentication required")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Session expired, please log in again")
			c.Abort()
			return
		}

		var session models.Session
		if err := db.Preload("Admin").Where("id = ? AND admin_id = ?", claims.ID, claims.AdminID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Session not found, please log in again")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
			}
			c.Abort()
			return
		}
		if session.Revoked || time.Now().After(session.ExpiresAt) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Session expired, please log in again")
			c.Abort()
			return
		}
		if session.Admin.ID == 0 {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Admin not found")
			c.Abort()
			return
		}

		admin := session.Admin
		c.Set(ContextAdmin, &admin)
		c.Set(ContextSession, session.ID)
		c.Next()
	}
}
