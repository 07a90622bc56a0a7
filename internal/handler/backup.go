package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hostel-admin/internal/cache"
	"hostel-admin/internal/database"
	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BackupHandler serves the encrypted backup endpoints.
type BackupHandler struct {
	DB         *gorm.DB
	EncryptKey string
	BackupDir  string
	Cache      cache.Store
	Log        *zap.Logger
}

func NewBackupHandler(db *gorm.DB, encryptKey, backupDir string, store cache.Store, log *zap.Logger) *BackupHandler {
	if store == nil {
		store = cache.Noop{}
	}
	return &BackupHandler{
		DB:         db,
		EncryptKey: encryptKey,
		BackupDir:  backupDir,
		Cache:      store,
		Log:        log,
	}
}

// snapshot is the content of a backup file: every hostel table except admin
// accounts, sessions, audit logs and the backup index itself.
type snapshot struct {
	Version       int                         `json:"version"`
	AdminID       uint                        `json:"admin_id"`
	Created       time.Time                   `json:"created"`
	Rooms         []models.Room               `json:"rooms"`
	Students      []models.Student            `json:"students"`
	FeeRecords    []models.FeeRecord          `json:"fee_records"`
	Employees     []models.Employee           `json:"employees"`
	SalaryRecords []models.SalaryRecord       `json:"salary_records"`
	Expenses      []models.Expense            `json:"expenses"`
	Registrations []models.HostelRegistration `json:"registrations"`
	MealTimings   []models.MealTiming         `json:"meal_timings"`
	MealMenus     []models.MealMenu           `json:"meal_menus"`
}

const snapshotVersion = 1

func takeSnapshot(db *gorm.DB, adminID uint) (*snapshot, error) {
	s := &snapshot{Version: snapshotVersion, AdminID: adminID, Created: time.Now().UTC()}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, dest := range []interface{}{
			&s.Rooms, &s.Students, &s.FeeRecords, &s.Employees, &s.SalaryRecords,
			&s.Expenses, &s.Registrations, &s.MealTimings, &s.MealMenus,
		} {
			if err := tx.Order("id ASC").Find(dest).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return s, err
}

// restoreSnapshot replaces the hostel tables with the snapshot inside tx.
// Children are cleared before parents and inserted after them; ids are kept.
func restoreSnapshot(tx *gorm.DB, s *snapshot) error {
	for _, model := range []interface{}{
		&models.FeeRecord{}, &models.Expense{}, &models.SalaryRecord{}, &models.Student{},
		&models.Employee{}, &models.Room{}, &models.HostelRegistration{},
		&models.MealTiming{}, &models.MealMenu{},
	} {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}

	// associations are not part of the snapshot rows
	for i := range s.Rooms {
		s.Rooms[i].Students = nil
	}
	for i := range s.Students {
		s.Students[i].Room = nil
		s.Students[i].FeeRecords = nil
	}
	for i := range s.FeeRecords {
		s.FeeRecords[i].Student = nil
	}
	for i := range s.Employees {
		s.Employees[i].SalaryRecords = nil
	}
	for i := range s.SalaryRecords {
		s.SalaryRecords[i].Employee = nil
	}

	inserts := []struct {
		n    int
		rows interface{}
	}{
		{len(s.Rooms), &s.Rooms},
		{len(s.Students), &s.Students},
		{len(s.FeeRecords), &s.FeeRecords},
		{len(s.Employees), &s.Employees},
		{len(s.SalaryRecords), &s.SalaryRecords},
		{len(s.Expenses), &s.Expenses},
		{len(s.Registrations), &s.Registrations},
		{len(s.MealTimings), &s.MealTimings},
		{len(s.MealMenus), &s.MealMenus},
	}
	for _, in := range inserts {
		if in.n == 0 {
			continue
		}
		if err := tx.Omit(clause.Associations).CreateInBatches(in.rows, 200).Error; err != nil {
			return err
		}
	}

	if tx.Dialector.Name() == "postgres" {
		for _, table := range []string{
			"rooms", "students", "fee_records", "employees", "salary_records",
			"expenses", "hostel_registrations", "meal_timings", "meal_menus",
		} {
			q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)", table)
			if err := tx.Exec(q).Error; err != nil {
				return err
			}
		}
	}
	if err := database.SeedRooms(tx); err != nil {
		return err
	}
	return database.ReconcileOccupancy(tx)
}

type backupResp struct {
	ID        uint      `json:"id"`
	AdminID   uint      `json:"admin_id"`
	FileName  string    `json:"file_name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func toBackupResp(b *models.Backup) backupResp {
	return backupResp{ID: b.ID, AdminID: b.AdminID, FileName: b.FileName, Size: b.Size, CreatedAt: b.CreatedAt}
}

// CreateBackup writes an encrypted snapshot of the hostel data.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	data, err := takeSnapshot(h.DB.WithContext(c.Request.Context()), admin.ID)
	if err != nil {
		h.Log.Error("backup snapshot", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}
	enc, err := util.EncryptAES(h.EncryptKey, raw)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		h.Log.Error("backup dir", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}
	fileName := fmt.Sprintf("backup-%s-%s.bin", time.Now().UTC().Format("20060102-150405"), uuid.NewString())
	filePath := filepath.Join(h.BackupDir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		h.Log.Error("write backup", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}

	backup := models.Backup{
		AdminID:  admin.ID,
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
	}
	if err := h.DB.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}

	h.Log.Info("backup created", zap.Uint("backup_id", backup.ID), zap.Int64("size", backup.Size))
	util.Created(c, util.Response{"backup": toBackupResp(&backup)})
}

// ListBackups lists the stored backups, newest first.
func (h *BackupHandler) ListBackups(c *gin.Context) {
	var list []models.Backup
	if err := h.DB.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}
	items := make([]backupResp, 0, len(list))
	for i := range list {
		items = append(items, toBackupResp(&list[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *BackupHandler) findBackup(c *gin.Context) (*models.Backup, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	var backup models.Backup
	if err := h.DB.First(&backup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		}
		return nil, false
	}
	return &backup, true
}

// DownloadBackup streams the encrypted backup file.
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	backup, ok := h.findBackup(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", backup.FileName))
	c.File(backup.FilePath)
}

// DeleteBackup removes the backup row and its file.
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	backup, ok := h.findBackup(c)
	if !ok {
		return
	}
	// file first, then the row
	if err := os.Remove(backup.FilePath); err != nil && !os.IsNotExist(err) {
		h.Log.Warn("remove backup file", zap.String("file", backup.FilePath), zap.Error(err))
	}
	if err := h.DB.Delete(backup).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
		return
	}
	util.Success(c, util.Response{"message": "Backup deleted"})
}

// RestoreBackup replaces the hostel data with the content of a backup file.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	backup, ok := h.findBackup(c)
	if !ok {
		return
	}

	encData, err := os.ReadFile(backup.FilePath)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Backup file could not be read")
		return
	}
	raw, err := util.DecryptAES(h.EncryptKey, encData)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Backup file could not be decrypted with the current key")
		return
	}
	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Backup file is corrupt")
		return
	}
	if data.Version != snapshotVersion {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, fmt.Sprintf("Unsupported backup version %d", data.Version))
		return
	}

	ctx := c.Request.Context()
	if err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return restoreSnapshot(tx, &data)
	}); err != nil {
		h.Log.Error("restore backup", zap.Uint("backup_id", backup.ID), zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Restore failed")
		return
	}
	if err := h.Cache.DeleteByPrefix(ctx, cache.PrefixDashboard); err != nil {
		h.Log.Warn("invalidate dashboard cache", zap.Error(err))
	}

	h.Log.Info("backup restored", zap.Uint("backup_id", backup.ID))
	util.Success(c, util.Response{
		"message":        "Backup restored",
		"students_count": len(data.Students),
		"fee_records":    len(data.FeeRecords),
		"expenses":       len(data.Expenses),
	})
}
