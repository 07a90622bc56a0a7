package service

import (
	"context"
	"errors"
	"strings"

	"hostel-admin/internal/models"
	"hostel-admin/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StudentService struct {
	*base
	rooms *RoomService
	fees  *FeeService
}

// StudentView is the API shape of a student. FeeStatus is the stored snapshot,
// ComputedFeeStatus and RemainingFee are derived from the current month's payments.
type StudentView struct {
	ID                uint    `json:"id"`
	Name              string  `json:"name"`
	Email             *string `json:"email"`
	Phone             string  `json:"phone"`
	FeeCent           int64   `json:"fee_cent"`
	Fee               string  `json:"fee"`
	RoomID            uint    `json:"room_id"`
	RoomNumber        int     `json:"room_number"`
	Status            string  `json:"status"`
	Picture           string  `json:"picture"`
	FeeStatus         string  `json:"fee_status"`
	ComputedFeeStatus string  `json:"computed_fee_status"`
	PaidThisMonth     string  `json:"paid_this_month"`
	RemainingFeeCent  int64   `json:"remaining_fee_cent"`
	RemainingFee      string  `json:"remaining_fee"`
	EnrollmentDate    string  `json:"enrollment_date"`
	LastFeePayment    *string `json:"last_fee_payment"`
}

func toStudentView(st *models.Student, fs *FeeStatus) StudentView {
	v := StudentView{
		ID:             st.ID,
		Name:           st.Name,
		Email:          st.Email,
		Phone:          st.Phone,
		FeeCent:        st.FeeCent,
		Fee:            util.FormatCents(st.FeeCent),
		RoomID:         st.RoomID,
		RoomNumber:     int(st.RoomID),
		Status:         st.Status,
		Picture:        st.Picture,
		FeeStatus:      st.FeeStatus,
		EnrollmentDate: st.EnrollmentDate.Format(util.DateLayout),
	}
	if st.Room != nil {
		v.RoomNumber = st.Room.RoomNumber
	}
	if st.LastFeePayment != nil {
		d := st.LastFeePayment.Format(util.DateLayout)
		v.LastFeePayment = &d
	}
	if fs != nil {
		v.ComputedFeeStatus = fs.Status
		v.PaidThisMonth = util.FormatCents(fs.PaidCent)
		v.RemainingFeeCent = fs.RemainingCent
		v.RemainingFee = util.FormatCents(fs.RemainingCent)
	}
	return v
}

// List returns a page of students, newest first, optionally filtered by a search
// term matched against name, email and phone.
func (s *StudentService) List(ctx context.Context, page Page, search string) ([]StudentView, PageMeta, error) {
	const op = "students.List"
	page = page.normalize(s.pageSize)

	base := s.db.WithContext(ctx).Model(&models.Student{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		base = base.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?", like, like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, PageMeta{}, storeErr(op, err)
	}

	var students []models.Student
	if err := base.Session(&gorm.Session{}).
		Preload("Room").
		Order("id DESC").
		Limit(page.PerPage).
		Offset(page.offset()).
		Find(&students).Error; err != nil {
		return nil, PageMeta{}, storeErr(op, err)
	}

	statuses, err := s.fees.StatusesFor(ctx, students, s.today())
	if err != nil {
		return nil, PageMeta{}, err
	}
	items := make([]StudentView, 0, len(students))
	for i := range students {
		fs := statuses[students[i].ID]
		items = append(items, toStudentView(&students[i], &fs))
	}
	return items, newPageMeta(page, total), nil
}

// Get returns one student with the current month's computed status.
func (s *StudentService) Get(ctx context.Context, id uint) (*StudentView, error) {
	const op = "students.Get"
	var st models.Student
	if err := s.db.WithContext(ctx).Preload("Room").First(&st, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf(op, "Student %d not found", id)
		}
		return nil, storeErr(op, err)
	}
	fs, err := s.fees.MonthlyStatus(ctx, id, s.today())
	if err != nil {
		return nil, err
	}
	v := toStudentView(&st, fs)
	return &v, nil
}

// StudentInput enrolls a new student.
type StudentInput struct {
	Name           string
	Fee            util.Amount
	RoomID         int
	Email          string
	Phone          string
	Picture        string
	EnrollmentDate string // YYYY-MM-DD, defaults to today
}

func normalizeEmail(email string) *string {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	return &email
}

// Create enrolls a student, taking a seat in the destination room.
func (s *StudentService) Create(ctx context.Context, in StudentInput) (*StudentView, error) {
	const op = "students.Create"

	name := strings.TrimSpace(in.Name)
	if err := util.ValidateName("name", name, 100); err != nil {
		return nil, validationf(op, "Name, fee, and room_id are required")
	}
	fee, err := in.Fee.Cents()
	if err != nil {
		return nil, validationf(op, "Fee must be a valid number")
	}
	if err := checkAmount(op, "Fee", fee); err != nil {
		return nil, err
	}
	if err := ValidateRoomID(op, in.RoomID); err != nil {
		return nil, err
	}
	enrolled := s.today()
	if strings.TrimSpace(in.EnrollmentDate) != "" {
		d, err := util.ParseDate(strings.TrimSpace(in.EnrollmentDate))
		if err != nil {
			return nil, validationf(op, "Invalid enrollment_date. Use YYYY-MM-DD")
		}
		enrolled = d.UTC()
	}

	st := models.Student{
		Name:           name,
		Email:          normalizeEmail(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Picture:        strings.TrimSpace(in.Picture),
		FeeCent:        fee,
		RoomID:         uint(in.RoomID),
		Status:         models.StudentActive,
		FeeStatus:      models.FeeUnpaid,
		EnrollmentDate: enrolled,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.rooms.reserveSeat(tx, op, st.RoomID); err != nil {
			return err
		}
		if err := tx.Create(&st).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictf(op, "A student with this email already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(op, err)
	}

	s.invalidateReports(ctx)
	s.log.Info("student enrolled", zap.Uint("student_id", st.ID), zap.Uint("room_id", st.RoomID))
	v := toStudentView(&st, &FeeStatus{Status: models.FeeUnpaid, FeeCent: fee, RemainingCent: fee})
	return &v, nil
}

// StudentUpdate is a partial update; nil fields are left unchanged.
type StudentUpdate struct {
	Name   *string
	Fee    *util.Amount
	RoomID *int
	Status *string
	Email  *string
	Phone  *string
}

// Update applies a partial update. Moving to another room takes a seat there and
// releases the old one in the same transaction; moving to the current room is a no-op.
func (s *StudentService) Update(ctx context.Context, id uint, in StudentUpdate) (*StudentView, error) {
	const op = "students.Update"

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := util.ValidateName("name", name, 100); err != nil {
			return nil, validationf(op, "%s", err.Error())
		}
		updates["name"] = name
	}
	if in.Fee != nil {
		fee, err := in.Fee.Cents()
		if err != nil {
			return nil, validationf(op, "Fee must be a valid number")
		}
		if err := checkAmount(op, "Fee", fee); err != nil {
			return nil, err
		}
		updates["fee_cent"] = fee
	}
	if in.Status != nil {
		if !models.ValidStudentStatus(*in.Status) {
			return nil, validationf(op, "Invalid status. Must be one of: active, inactive, graduated")
		}
		updates["status"] = *in.Status
	}
	if in.Email != nil {
		updates["email"] = normalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.RoomID != nil {
		if err := ValidateRoomID(op, *in.RoomID); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st models.Student
		if err := tx.First(&st, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf(op, "Student %d not found", id)
			}
			return err
		}

		if in.RoomID != nil && uint(*in.RoomID) != st.RoomID {
			dest := uint(*in.RoomID)
			if err := s.rooms.reserveSeat(tx, op, dest); err != nil {
				return err
			}
			if err := s.rooms.releaseSeat(tx, op, st.RoomID); err != nil {
				return err
			}
			updates["room_id"] = dest
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Student{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictf(op, "A student with this email already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	if len(updates) > 0 {
		s.invalidateReports(ctx)
	}
	return s.Get(ctx, id)
}

// Delete removes the student's fee records, then the student, and frees the seat.
// It returns the number of fee records removed.
func (s *StudentService) Delete(ctx context.Context, id uint) (int64, error) {
	const op = "students.Delete"
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st models.Student
		if err := tx.First(&st, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf(op, "Student %d not found", id)
			}
			return err
		}
		res := tx.Where("student_id = ?", id).Delete(&models.FeeRecord{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		if err := tx.Delete(&models.Student{}, id).Error; err != nil {
			return err
		}
		return s.rooms.releaseSeat(tx, op, st.RoomID)
	})
	if err != nil {
		return 0, storeErr(op, err)
	}
	s.invalidateReports(ctx)
	s.log.Info("student deleted", zap.Uint("student_id", id), zap.Int64("fee_records_removed", removed))
	return removed, nil
}

// activeFeeTotal sums the monthly fee of active students.
func activeFeeTotal(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&models.Student{}).
		Select("COALESCE(SUM(fee_cent), 0)").
		Where("status = ?", models.StudentActive).
		Scan(&total).Error
	return total, err
}
