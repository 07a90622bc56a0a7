package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxAuditBody is the largest request body copied into an audit entry.
const maxAuditBody = 2000

// AuditMiddleware records every admin write request (method, path, small
// bodies) with path and action encrypted under encryptKey. It must run after
// AuthMiddleware.
func AuditMiddleware(db *gorm.DB, encryptKey string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		var adminID uint
		if v, ok := c.Get(ContextAdmin); ok {
			if admin, ok := v.(*models.Admin); ok && admin != nil {
				adminID = admin.ID
			}
		}

		// multipart uploads are not copied
		var bodyBytes []byte
		if c.Request.Body != nil && !isMultipart(c) {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		if adminID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody && !isPasswordPath(path) {
			action += " " + string(bodyBytes)
		}

		encPath, err := util.EncryptField(encryptKey, path)
		if err != nil {
			log.Warn("audit encrypt", zap.Error(err))
			return
		}
		encAction, err := util.EncryptField(encryptKey, action)
		if err != nil {
			log.Warn("audit encrypt", zap.Error(err))
			return
		}

		entry := models.AuditLog{
			AdminID:   &adminID,
			PathEnc:   encPath,
			Method:    c.Request.Method,
			ActionEnc: encAction,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: truncate(c.Request.UserAgent(), 255),
		}
		if err := db.Create(&entry).Error; err != nil {
			log.Warn("audit write", zap.Error(err))
		}
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// isPasswordPath keeps password bodies out of the audit trail.
func isPasswordPath(path string) bool {
	return strings.Contains(strings.ToLower(path), "password")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
