package service

import (
	"context"
	"errors"
	"strings"

	"hostel-admin/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegistrationService struct {
	*base
}

// RegistrationInput is the public intake form.
type RegistrationInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Address              string `json:"address"`
	EmergencyContact     string `json:"emergency_contact"`
	EmergencyContactName string `json:"emergency_contact_name"`
	University           string `json:"university"`
	Course               string `json:"course"`
	YearOfStudy          string `json:"year_of_study"`
	ExpectedDuration     string `json:"expected_duration"`
	SpecialRequirements  string `json:"special_requirements"`
}

func (in *RegistrationInput) trim() {
	for _, f := range []*string{
		&in.Name, &in.Email, &in.Phone, &in.Address, &in.EmergencyContact,
		&in.EmergencyContactName, &in.University, &in.Course, &in.YearOfStudy,
		&in.ExpectedDuration, &in.SpecialRequirements,
	} {
		*f = strings.TrimSpace(*f)
	}
}

func (in *RegistrationInput) missing() []string {
	fields := []struct {
		name, value string
	}{
		{"name", in.Name},
		{"email", in.Email},
		{"phone", in.Phone},
		{"address", in.Address},
		{"emergency_contact", in.EmergencyContact},
		{"emergency_contact_name", in.EmergencyContactName},
		{"university", in.University},
		{"course", in.Course},
		{"year_of_study", in.YearOfStudy},
		{"expected_duration", in.ExpectedDuration},
	}
	var out []string
	for _, f := range fields {
		if f.value == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// Submit stores a pending registration. An email may register only once.
func (s *RegistrationService) Submit(ctx context.Context, in RegistrationInput) (uint, error) {
	const op = "registrations.Submit"
	in.trim()
	if missing := in.missing(); len(missing) > 0 {
		return 0, validationf(op, "Missing required fields: %s", strings.Join(missing, ", "))
	}
	if !strings.Contains(in.Email, "@") {
		return 0, validationf(op, "Invalid email address")
	}

	reg := models.HostelRegistration{
		Name:                 in.Name,
		Email:                in.Email,
		Phone:                in.Phone,
		Address:              in.Address,
		EmergencyContact:     in.EmergencyContact,
		EmergencyContactName: in.EmergencyContactName,
		University:           in.University,
		Course:               in.Course,
		YearOfStudy:          in.YearOfStudy,
		ExpectedDuration:     in.ExpectedDuration,
		SpecialRequirements:  in.SpecialRequirements,
		Status:               models.RegistrationPending,
		SubmittedAt:          s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.HostelRegistration{}).
			Where("LOWER(email) = ?", strings.ToLower(in.Email)).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return conflictf(op, "A registration with this email already exists")
		}
		return tx.Create(&reg).Error
	})
	if err != nil {
		return 0, storeErr(op, err)
	}
	s.log.Info("registration submitted", zap.Uint("registration_id", reg.ID))
	return reg.ID, nil
}

type RegistrationView struct {
	ID                   uint    `json:"id"`
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Phone                string  `json:"phone"`
	Address              string  `json:"address"`
	EmergencyContact     string  `json:"emergency_contact"`
	EmergencyContactName string  `json:"emergency_contact_name"`
	University           string  `json:"university"`
	Course               string  `json:"course"`
	YearOfStudy          string  `json:"year_of_study"`
	ExpectedDuration     string  `json:"expected_duration"`
	SpecialRequirements  string  `json:"special_requirements"`
	Status               string  `json:"status"`
	SubmittedAt          string  `json:"submitted_at"`
	AdminNotes           string  `json:"admin_notes"`
	ContactedAt          *string `json:"contacted_at"`
	ContactedBy          *string `json:"contacted_by"`
}

const timestampLayout = "2006-01-02 15:04:05"

func toRegistrationView(r *models.HostelRegistration, admins map[uint]string) RegistrationView {
	v := RegistrationView{
		ID:                   r.ID,
		Name:                 r.Name,
		Email:                r.Email,
		Phone:                r.Phone,
		Address:              r.Address,
		EmergencyContact:     r.EmergencyContact,
		EmergencyContactName: r.EmergencyContactName,
		University:           r.University,
		Course:               r.Course,
		YearOfStudy:          r.YearOfStudy,
		ExpectedDuration:     r.ExpectedDuration,
		SpecialRequirements:  r.SpecialRequirements,
		Status:               r.Status,
		SubmittedAt:          r.SubmittedAt.UTC().Format(timestampLayout),
		AdminNotes:           r.AdminNotes,
	}
	if r.ContactedAt != nil {
		ts := r.ContactedAt.UTC().Format(timestampLayout)
		v.ContactedAt = &ts
	}
	if r.ContactedBy != nil {
		if name, ok := admins[*r.ContactedBy]; ok {
			v.ContactedBy = &name
		}
	}
	return v
}

// List pages registrations newest first. status "" or "all" disables the filter.
func (s *RegistrationService) List(ctx context.Context, page Page, status string) ([]RegistrationView, PageMeta, error) {
	const op = "registrations.List"
	page = page.normalize(s.pageSize)

	base := s.db.WithContext(ctx).Model(&models.HostelRegistration{})
	status = strings.TrimSpace(status)
	if status != "" && status != "all" {
		if !models.ValidRegistrationStatus(status) {
			return nil, PageMeta{}, validationf(op, "Invalid status filter %q", status)
		}
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, PageMeta{}, storeErr(op, err)
	}
	var regs []models.HostelRegistration
	if err := base.Session(&gorm.Session{}).
		Order("submitted_at DESC, id DESC").
		Limit(page.PerPage).
		Offset(page.offset()).
		Find(&regs).Error; err != nil {
		return nil, PageMeta{}, storeErr(op, err)
	}

	var adminIDs []uint
	for _, r := range regs {
		if r.ContactedBy != nil {
			adminIDs = append(adminIDs, *r.ContactedBy)
		}
	}
	admins := map[uint]string{}
	if len(adminIDs) > 0 {
		var list []models.Admin
		if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", adminIDs).Find(&list).Error; err != nil {
			return nil, PageMeta{}, storeErr(op, err)
		}
		for _, a := range list {
			admins[a.ID] = a.Name
		}
	}

	out := make([]RegistrationView, 0, len(regs))
	for i := range regs {
		out = append(out, toRegistrationView(&regs[i], admins))
	}
	return out, newPageMeta(page, total), nil
}

// RegistrationUpdate changes the workflow status and/or the admin notes.
type RegistrationUpdate struct {
	Status     *string
	AdminNotes *string
	AdminID    uint
}

// Update moves a registration through its workflow. Setting status to
// contacted stamps contacted_at and contacted_by.
func (s *RegistrationService) Update(ctx context.Context, id uint, in RegistrationUpdate) error {
	const op = "registrations.Update"

	updates := map[string]interface{}{}
	if in.Status != nil {
		status := strings.TrimSpace(*in.Status)
		if !models.ValidRegistrationStatus(status) {
			return validationf(op, "Invalid status. Must be one of: %s", strings.Join(models.RegistrationStatuses, ", "))
		}
		updates["status"] = status
		if status == models.RegistrationContacted {
			updates["contacted_at"] = s.now().UTC()
			if in.AdminID != 0 {
				updates["contacted_by"] = in.AdminID
			}
		}
	}
	if in.AdminNotes != nil {
		updates["admin_notes"] = strings.TrimSpace(*in.AdminNotes)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reg models.HostelRegistration
		if err := tx.First(&reg, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf(op, "Registration %d not found", id)
			}
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&reg).Updates(updates).Error
	})
	if err != nil {
		return storeErr(op, err)
	}
	return nil
}

func (s *RegistrationService) Delete(ctx context.Context, id uint) error {
	const op = "registrations.Delete"
	res := s.db.WithContext(ctx).Delete(&models.HostelRegistration{}, id)
	if res.Error != nil {
		return storeErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf(op, "Registration %d not found", id)
	}
	return nil
}

type RegistrationStats struct {
	Total     int64 `json:"total_registrations"`
	Pending   int64 `json:"pending_count"`
	Contacted int64 `json:"contacted_count"`
	Approved  int64 `json:"approved_count"`
	Rejected  int64 `json:"rejected_count"`
	Recent    int64 `json:"recent_count"`
}

// Stats counts registrations per status and those submitted in the last seven days.
func (s *RegistrationService) Stats(ctx context.Context) (*RegistrationStats, error) {
	const op = "registrations.Stats"
	db := s.db.WithContext(ctx)

	var rows []struct {
		Status string
		N      int64
	}
	if err := db.Model(&models.HostelRegistration{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, storeErr(op, err)
	}
	st := &RegistrationStats{}
	for _, r := range rows {
		st.Total += r.N
		switch r.Status {
		case models.RegistrationPending:
			st.Pending = r.N
		case models.RegistrationContacted:
			st.Contacted = r.N
		case models.RegistrationApproved:
			st.Approved = r.N
		case models.RegistrationRejected:
			st.Rejected = r.N
		}
	}
	weekAgo := s.now().UTC().AddDate(0, 0, -7)
	if err := db.Model(&models.HostelRegistration{}).
		Where("submitted_at >= ?", weekAgo).
		Count(&st.Recent).Error; err != nil {
		return nil, storeErr(op, err)
	}
	return st, nil
}
