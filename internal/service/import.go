package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hostel-admin/internal/database"
	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ImportService struct {
	*base
	rooms *RoomService
}

// ImportRow is one parsed data row; Row is its 1-based line in the source file
// (the header is row 1).
type ImportRow struct {
	Row    int
	Name   string
	Fee    string
	RoomID string
}

type ImportSummary struct {
	TotalProcessed int      `json:"total_processed"`
	SuccessCount   int      `json:"success_count"`
	ErrorCount     int      `json:"error_count"`
	Errors         []string `json:"errors"`
	Message        string   `json:"message"`
}

// rowError is a row rejection reported back as "Row N: reason".
type rowError string

func (e rowError) Error() string { return string(e) }

// ImportStudents validates and inserts rows one by one. Each valid row commits
// in its own transaction; a rejected row is reported and skipped.
func (s *ImportService) ImportStudents(ctx context.Context, rows []ImportRow) (*ImportSummary, error) {
	const op = "import.Students"
	sum := &ImportSummary{Errors: []string{}}
	seen := make(map[string]struct{})
	enrolled := s.today()

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum.TotalProcessed++

		name, err := s.importRow(ctx, op, row, seen, enrolled)
		if err != nil {
			var re rowError
			var se *Error
			reason := err.Error()
			switch {
			case errors.As(err, &re):
			case errors.As(err, &se) && se.Kind != nil:
				reason = se.Message
			default:
				s.log.Error("bulk import row failed", zap.Int("row", row.Row), zap.Error(err))
				reason = "could not save row"
			}
			sum.Errors = append(sum.Errors, fmt.Sprintf("Row %d: %s", row.Row, reason))
			continue
		}
		seen[name] = struct{}{}
		sum.SuccessCount++
	}

	sum.ErrorCount = len(sum.Errors)
	switch {
	case sum.SuccessCount == 0:
		sum.Message = "No students were added. Please review the errors."
	case sum.ErrorCount == 0:
		sum.Message = fmt.Sprintf("Successfully added %d student(s).", sum.SuccessCount)
	default:
		sum.Message = fmt.Sprintf("Added %d student(s) with %d error(s).", sum.SuccessCount, sum.ErrorCount)
	}

	s.metrics.ImportRows(sum.SuccessCount, sum.ErrorCount)
	if sum.SuccessCount > 0 {
		s.invalidateReports(ctx)
	}
	s.log.Info("bulk import finished",
		zap.Int("processed", sum.TotalProcessed),
		zap.Int("succeeded", sum.SuccessCount),
		zap.Int("failed", sum.ErrorCount))
	return sum, nil
}

func (s *ImportService) importRow(ctx context.Context, op string, row ImportRow, seen map[string]struct{}, enrolled time.Time) (string, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" || strings.EqualFold(name, "nan") {
		return "", rowError("name is required")
	}
	if _, dup := seen[name]; dup {
		return "", rowError("duplicate name within file")
	}

	fee, err := util.ParseCents(row.Fee)
	if err != nil {
		return "", rowError("fee must be a number")
	}
	if err := checkAmount(op, "fee", fee); err != nil {
		return "", err
	}

	roomID, err := parseIntCell(row.RoomID)
	if err != nil {
		return "", rowError("room_id must be an integer")
	}
	if roomID < database.MinRoomID || roomID > database.MaxRoomID {
		return "", rowError(fmt.Sprintf("room_id must be between %d and %d", database.MinRoomID, database.MaxRoomID))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Student{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return rowError("student with this name already exists")
		}
		if err := s.rooms.reserveSeat(tx, op, uint(roomID)); err != nil {
			return err
		}
		st := models.Student{
			Name:           name,
			FeeCent:        fee,
			RoomID:         uint(roomID),
			Status:         models.StudentActive,
			FeeStatus:      models.FeeUnpaid,
			EnrollmentDate: enrolled,
		}
		return tx.Create(&st).Error
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// parseIntCell accepts "3" as well as spreadsheet renderings like "3.0".
func parseIntCell(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if n, err := strconv.Atoi(cell); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", cell)
	}
	return int(f), nil
}
