package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LogHandler 负责审计日志查询接口
type LogHandler struct {
	DB         *gorm.DB
	EncryptKey string
	Log        *zap.Logger
}

func NewLogHandler(db *gorm.DB, encryptKey string, log *zap.Logger) *LogHandler {
	return &LogHandler{
		DB:         db,
		EncryptKey: encryptKey,
		Log:        log,
	}
}

type logResp struct {
	ID        uint      `json:"id"`
	AdminID   *uint     `json:"admin_id"`
	Action    string    `json:"action"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *LogHandler) toResp(l *models.AuditLog) logResp {
	return logResp{
		ID:        l.ID,
		AdminID:   l.AdminID,
		Action:    util.DecryptField(h.EncryptKey, l.ActionEnc),
		Path:      util.DecryptField(h.EncryptKey, l.PathEnc),
		Method:    l.Method,
		Status:    l.Status,
		IP:        l.IP,
		UserAgent: l.UserAgent,
		CreatedAt: l.CreatedAt,
	}
}

// ListLogs 列出审计日志（分页 + 时间 + 关键字）
// 关键字匹配解密后的 path / action，因此带 q 时在内存中分页。
func (h *LogHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	base := h.DB.Model(&models.AuditLog{})

	// 时间筛选：start / end（格式 YYYY-MM-DD）
	if s := c.Query("start"); s != "" {
		start, err := time.Parse(util.DateLayout, s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid start date, use YYYY-MM-DD")
			return
		}
		base = base.Where("created_at >= ?", start)
	}
	if s := c.Query("end"); s != "" {
		end, err := time.Parse(util.DateLayout, s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid end date, use YYYY-MM-DD")
			return
		}
		base = base.Where("created_at < ?", end.AddDate(0, 0, 1))
	}
	if s := c.Query("admin_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid admin_id")
			return
		}
		base = base.Where("admin_id = ?", id)
	}

	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q == "" {
		var total int64
		if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			h.Log.Error("count audit logs", zap.Error(err))
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
			return
		}
		var logs []models.AuditLog
		if err := base.Session(&gorm.Session{}).
			Order("created_at DESC, id DESC").
			Limit(size).
			Offset(offset).
			Find(&logs).Error; err != nil {
			h.Log.Error("list audit logs", zap.Error(err))
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
			return
		}
		items := make([]logResp, 0, len(logs))
		for i := range logs {
			items = append(items, h.toResp(&logs[i]))
		}
		util.Success(c, util.Response{"items": items, "total": total, "page": page, "size": size})
		return
	}

	var all []models.AuditLog
	if err := base.Order("created_at DESC, id DESC").Find(&all).Error; err != nil {
		h.Log.Error("list audit logs", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}
	matched := make([]logResp, 0)
	for i := range all {
		r := h.toResp(&all[i])
		if strings.Contains(strings.ToLower(r.Path), q) || strings.Contains(strings.ToLower(r.Action), q) {
			matched = append(matched, r)
		}
	}
	total := int64(len(matched))

	// 分页
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + size
	if end > len(matched) {
		end = len(matched)
	}
	util.Success(c, util.Response{
		"items": matched[offset:end],
		"total": total,
		"page":  page,
		"size":  size,
	})
}
