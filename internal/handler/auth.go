package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"hostel-admin/internal/metrics"
	"hostel-admin/internal/middleware"
	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 10 * time.Minute
)

// AuthHandler handles admin login, logout and session checks.
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
	Log       *zap.Logger
	Metrics   *metrics.Metrics
}

func NewAuthHandler(db *gorm.DB, jwtSecret, issuer string, ttlHours int, log *zap.Logger, m *metrics.Metrics) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		DB:        db,
		JWTSecret: jwtSecret,
		Issuer:    issuer,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
		Log:       log,
		Metrics:   m,
	}
}

func adminJSON(a *models.Admin) gin.H {
	return gin.H{
		"id":       a.ID,
		"username": a.Username,
		"name":     a.Name,
		"email":    a.Email,
	}
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Username and password are required")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	var admin models.Admin
	if err := h.DB.Where("LOWER(username) = LOWER(?)", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.Metrics.LoginFailed()
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid username or password")
		} else {
			h.Log.Error("login lookup", zap.Error(err))
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		}
		return
	}

	now := time.Now()
	if admin.LockedUntil != nil && now.Before(*admin.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Account is locked, try again later")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		// five failures in a row lock the account for ten minutes
		admin.FailedLoginAttempts++
		if admin.FailedLoginAttempts >= maxFailedLogins {
			lockUntil := now.Add(lockoutDuration)
			admin.LockedUntil = &lockUntil
			admin.FailedLoginAttempts = 0
			h.Log.Warn("admin locked out", zap.Uint("admin_id", admin.ID), zap.String("ip", c.ClientIP()))
		}
		_ = h.DB.Model(&admin).Select("failed_login_attempts", "locked_until").Updates(&admin).Error
		h.Metrics.LoginFailed()
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid username or password")
		return
	}

	session := models.Session{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		ExpiresAt: now.Add(h.TokenTTL),
		IP:        c.ClientIP(),
	}
	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, admin.ID, session.ID, h.TokenTTL)
	if err != nil {
		h.Log.Error("sign token", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}

	admin.FailedLoginAttempts = 0
	admin.LockedUntil = nil
	admin.LastLoginAt = &now
	admin.LastLoginIP = c.ClientIP()
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		return tx.Model(&admin).
			Select("failed_login_attempts", "locked_until", "last_login_at", "last_login_ip").
			Updates(&admin).Error
	})
	if err != nil {
		h.Log.Error("create session", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.TokenTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	h.Log.Info("admin logged in", zap.Uint("admin_id", admin.ID), zap.String("ip", c.ClientIP()))

	util.Success(c, util.Response{
		"message":    "Login successful",
		"token":      token,
		"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
		"admin":      adminJSON(&admin),
	})
}

// ---------- session ----------

func (h *AuthHandler) CheckAuth(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{
		"authenticated": true,
		"admin":         adminJSON(admin),
	})
}

// Logout revokes the session carried by the token.
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := currentAdmin(c); !ok {
		return
	}
	if sid := c.GetString(middleware.ContextSession); sid != "" {
		if err := h.DB.Model(&models.Session{}).Where("id = ?", sid).Update("revoked", true).Error; err != nil {
			h.Log.Error("revoke session", zap.Error(err))
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
			return
		}
	}
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	util.Success(c, util.Response{"message": "Logged out successfully"})
}
