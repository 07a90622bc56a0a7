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

type EmployeeService struct {
	*base
}

type EmployeeView struct {
	ID                       uint   `json:"id"`
	Name                     string `json:"name"`
	Position                 string `json:"position"`
	BaseSalaryCent           int64  `json:"base_salary_cent"`
	BaseSalary               string `json:"base_salary"`
	HireDate                 string `json:"hire_date"`
	Status                   string `json:"status"`
	CurrentMonthSalaryPaid   string `json:"current_month_salary_paid"`
	CurrentMonthSalaryStatus string `json:"current_month_salary_status"`
}

func toEmployeeView(e *models.Employee) EmployeeView {
	return EmployeeView{
		ID:                       e.ID,
		Name:                     e.Name,
		Position:                 e.Position,
		BaseSalaryCent:           e.BaseSalaryCent,
		BaseSalary:               util.FormatCents(e.BaseSalaryCent),
		HireDate:                 e.HireDate.Format(util.DateLayout),
		Status:                   e.Status,
		CurrentMonthSalaryPaid:   util.FormatCents(0),
		CurrentMonthSalaryStatus: "unpaid",
	}
}

// List returns every employee with this month's salary position.
func (s *EmployeeService) List(ctx context.Context) ([]EmployeeView, error) {
	const op = "employees.List"
	db := s.db.WithContext(ctx)

	var employees []models.Employee
	if err := db.Order("id ASC").Find(&employees).Error; err != nil {
		return nil, storeErr(op, err)
	}
	var paid []models.SalaryRecord
	if err := db.Where("month_year = ?", util.MonthKey(s.today())).Find(&paid).Error; err != nil {
		return nil, storeErr(op, err)
	}
	byEmployee := make(map[uint]int64, len(paid))
	for _, r := range paid {
		byEmployee[r.EmployeeID] = r.AmountPaidCent
	}

	out := make([]EmployeeView, 0, len(employees))
	for i := range employees {
		v := toEmployeeView(&employees[i])
		if amount, ok := byEmployee[employees[i].ID]; ok {
			v.CurrentMonthSalaryPaid = util.FormatCents(amount)
			v.CurrentMonthSalaryStatus = "paid"
		}
		out = append(out, v)
	}
	return out, nil
}

type EmployeeInput struct {
	Name       string
	Position   string
	BaseSalary util.Amount
	HireDate   string // optional, defaults to today
}

func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (*EmployeeView, error) {
	const op = "employees.Create"

	name := strings.TrimSpace(in.Name)
	position := strings.TrimSpace(in.Position)
	if name == "" || position == "" || !in.BaseSalary.IsSet() {
		return nil, validationf(op, "Missing required fields: name, position and base_salary")
	}
	if err := util.ValidateName("name", name, 100); err != nil {
		return nil, validationf(op, "%s", err.Error())
	}
	if err := util.ValidateName("position", position, 100); err != nil {
		return nil, validationf(op, "%s", err.Error())
	}
	salary, err := in.BaseSalary.Cents()
	if err != nil {
		return nil, validationf(op, "base_salary must be a valid number")
	}
	if err := checkAmount(op, "base_salary", salary); err != nil {
		return nil, err
	}
	hired := s.today()
	if strings.TrimSpace(in.HireDate) != "" {
		d, err := util.ParseDate(strings.TrimSpace(in.HireDate))
		if err != nil {
			return nil, validationf(op, "Invalid hire_date. Use YYYY-MM-DD")
		}
		hired = d.UTC()
	}

	e := models.Employee{
		Name:           name,
		Position:       position,
		BaseSalaryCent: salary,
		HireDate:       hired,
		Status:         models.EmployeeActive,
	}
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, storeErr(op, err)
	}
	s.log.Info("employee added", zap.Uint("employee_id", e.ID), zap.String("position", e.Position))
	v := toEmployeeView(&e)
	return &v, nil
}

// EmployeeUpdate is a partial update; nil fields are left unchanged.
type EmployeeUpdate struct {
	Name       *string
	Position   *string
	BaseSalary *util.Amount
	Status     *string
}

func (s *EmployeeService) Update(ctx context.Context, id uint, in EmployeeUpdate) (*EmployeeView, error) {
	const op = "employees.Update"

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := util.ValidateName("name", name, 100); err != nil {
			return nil, validationf(op, "%s", err.Error())
		}
		updates["name"] = name
	}
	if in.Position != nil {
		position := strings.TrimSpace(*in.Position)
		if err := util.ValidateName("position", position, 100); err != nil {
			return nil, validationf(op, "%s", err.Error())
		}
		updates["position"] = position
	}
	if in.BaseSalary != nil {
		salary, err := in.BaseSalary.Cents()
		if err != nil {
			return nil, validationf(op, "base_salary must be a valid number")
		}
		if err := checkAmount(op, "base_salary", salary); err != nil {
			return nil, err
		}
		updates["base_salary_cent"] = salary
	}
	if in.Status != nil {
		if !models.ValidEmployeeStatus(*in.Status) {
			return nil, validationf(op, "Invalid status. Must be one of: active, inactive, terminated")
		}
		updates["status"] = *in.Status
	}

	var e models.Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf(op, "Employee %d not found", id)
			}
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&e).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&e, id).Error
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	v := toEmployeeView(&e)
	return &v, nil
}

// Delete removes the employee, their salary records and the expenses mirrored
// from those records.
func (s *EmployeeService) Delete(ctx context.Context, id uint) error {
	const op = "employees.Delete"
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Employee
		if err := tx.First(&e, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf(op, "Employee %d not found", id)
			}
			return err
		}
		salaryIDs := tx.Model(&models.SalaryRecord{}).Select("id").Where("employee_id = ?", id)
		if err := tx.Where("salary_record_id IN (?)", salaryIDs).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		res := tx.Where("employee_id = ?", id).Delete(&models.SalaryRecord{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return tx.Delete(&e).Error
	})
	if err != nil {
		return storeErr(op, err)
	}
	s.invalidateReports(ctx)
	s.log.Info("employee deleted", zap.Uint("employee_id", id), zap.Int64("salary_records_removed", removed))
	return nil
}
