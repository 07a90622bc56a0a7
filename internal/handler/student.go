package handler

import (
	"fmt"
	"net/http"
	"strings"

	"hostel-admin/internal/service"
	"hostel-admin/internal/sheet"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadSize bounds bulk upload files.
const maxUploadSize = 10 << 20

// StudentHandler serves students, their fee status and the bulk import.
type StudentHandler struct {
	Students *service.StudentService
	Fees     *service.FeeService
	Import   *service.ImportService
	Log      *zap.Logger
}

func NewStudentHandler(svc *service.Services, log *zap.Logger) *StudentHandler {
	return &StudentHandler{
		Students: svc.Students,
		Fees:     svc.Fees,
		Import:   svc.Import,
		Log:      log,
	}
}

// ---------- requests ----------

type createStudentReq struct {
	Name           string      `json:"name" binding:"required,max=100"`
	Fee            util.Amount `json:"fee" binding:"required"`
	RoomID         int         `json:"room_id" binding:"required"`
	Email          string      `json:"email" binding:"omitempty,email,max=120"`
	Phone          string      `json:"phone" binding:"max=20"`
	Picture        string      `json:"picture" binding:"max=255"`
	EnrollmentDate string      `json:"enrollment_date"`
}

type updateStudentReq struct {
	Name   *string      `json:"name"`
	Fee    *util.Amount `json:"fee"`
	RoomID *int         `json:"room_id"`
	Status *string      `json:"status"`
	Email  *string      `json:"email"`
	Phone  *string      `json:"phone"`
}

// ---------- CRUD ----------

// ListStudents GET /api/students?page&per_page&search
func (h *StudentHandler) ListStudents(c *gin.Context) {
	list, meta, err := h.Students.List(c.Request.Context(), pageQuery(c), c.Query("search"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"students": list,
		"meta":     meta,
	})
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := h.Students.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"student": st})
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req createStudentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Name, fee, and room_id are required")
		return
	}
	st, err := h.Students.Create(c.Request.Context(), service.StudentInput{
		Name:           req.Name,
		Fee:            req.Fee,
		RoomID:         req.RoomID,
		Email:          req.Email,
		Phone:          req.Phone,
		Picture:        req.Picture,
		EnrollmentDate: req.EnrollmentDate,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Created(c, util.Response{
		"message": "Student added successfully",
		"student": st,
	})
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateStudentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	in := service.StudentUpdate{
		Name:   req.Name,
		RoomID: req.RoomID,
		Status: req.Status,
		Email:  req.Email,
		Phone:  req.Phone,
		Fee:    req.Fee,
	}
	st, err := h.Students.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"message": "Student updated successfully",
		"student": st,
	})
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	removed, err := h.Students.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"message":             "Student deleted successfully",
		"fee_records_removed": removed,
	})
}

// FeeStatus GET /api/students/:id/fee-status?month=YYYY-MM
func (h *StudentHandler) FeeStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	month, err := monthQuery(c, h.Fees.Today())
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	fs, err := h.Fees.MonthlyStatus(c.Request.Context(), id, month)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"student_id": fs.StudentID,
		"month":      fs.Month,
		"fee_status": fs.Status,
		"fee":        util.FormatCents(fs.FeeCent),
		"total_paid": util.FormatCents(fs.PaidCent),
		"remaining":  util.FormatCents(fs.RemainingCent),
	})
}

// ---------- bulk import ----------

// BulkUpload POST /api/students/bulk-upload (multipart field "file").
// Columns: name, fee, room_id. Valid rows persist even when others fail.
func (h *StudentHandler) BulkUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fh, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "No file part in the request")
		return
	}
	if strings.TrimSpace(fh.Filename) == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "No file selected")
		return
	}
	if !sheet.Allowed(fh.Filename) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid file type. Please upload an Excel (.xlsx) or CSV file")
		return
	}

	f, err := fh.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Unable to open uploaded file")
		return
	}
	defer f.Close()

	table, err := sheet.Read(fh.Filename, f)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if missing := table.Missing("name", "fee", "room_id"); len(missing) > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			fmt.Sprintf("Missing required columns: %s. Required: name, fee, room_id", strings.Join(missing, ", ")))
		return
	}

	rows := make([]service.ImportRow, 0, len(table.Rows))
	for _, r := range table.Rows {
		rows = append(rows, service.ImportRow{
			Row:    r.Line,
			Name:   r.Get("name"),
			Fee:    r.Get("fee"),
			RoomID: r.Get("room_id"),
		})
	}

	sum, err := h.Import.ImportStudents(c.Request.Context(), rows)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{
		"message": sum.Message,
		"summary": sum,
	})
}

// DownloadTemplate GET /api/students/download-template
func (h *StudentHandler) DownloadTemplate(c *gin.Context) {
	c.Header("Content-Type", sheet.ContentTypeXLSX)
	c.Header("Content-Disposition", `attachment; filename="student_bulk_upload_template.xlsx"`)
	if err := sheet.StudentTemplate(c.Writer); err != nil {
		h.Log.Error("write template", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
	}
}
