package handler

import (
	"net/http"

	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ChangePasswordReq is the password change body.
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// ChangePassword replaces the current admin's password and revokes every
// session of that admin, the current one included.
func ChangePassword(db *gorm.DB, cost int) gin.HandlerFunc {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return func(c *gin.Context) {
		admin, ok := currentAdmin(c)
		if !ok {
			return
		}

		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "old_password and new_password (8-64 characters) are required")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.OldPassword)); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Current password is incorrect")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), cost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(admin).Update("password_hash", string(hash)).Error; err != nil {
				return err
			}
			return tx.Model(&models.Session{}).Where("admin_id = ?", admin.ID).Update("revoked", true).Error
		})
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
			return
		}

		util.Success(c, util.Response{
			"message": "Password changed, please log in again",
		})
	}
}
