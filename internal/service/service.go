// Package service holds the hostel business rules: fee reconciliation, room
// occupancy, salary idempotency, bulk import and the reporting aggregates.
// Every mutating operation runs in a single gorm transaction.
package service

import (
	"context"
	"time"

	"hostel-admin/internal/cache"
	"hostel-admin/internal/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Cache    cache.Store
	CacheTTL time.Duration
	// PageSize is the default page size of paged listings.
	PageSize int
	// RecordSalaryExpense mirrors salary payments into the expense ledger.
	RecordSalaryExpense bool
	// Now overrides the clock in tests.
	Now func() time.Time
}

type base struct {
	db       *gorm.DB
	log      *zap.Logger
	metrics  *metrics.Metrics
	cache    cache.Store
	cacheTTL time.Duration
	pageSize int
	now      func() time.Time
}

func newBase(db *gorm.DB, opts Options) *base {
	b := &base{
		db:       db,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		pageSize: opts.PageSize,
		now:      opts.Now,
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	if b.cache == nil {
		b.cache = cache.Noop{}
	}
	if b.cacheTTL <= 0 {
		b.cacheTTL = 5 * time.Minute
	}
	if b.pageSize <= 0 {
		b.pageSize = 10
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// today returns the current calendar day at midnight UTC.
func (b *base) today() time.Time {
	n := b.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar day of the configured clock. Handlers use it
// to default month filters so they agree with the services.
func (b *base) Today() time.Time {
	return b.today()
}

// invalidateReports drops cached dashboards after a money-moving write.
func (b *base) invalidateReports(ctx context.Context) {
	if err := b.cache.DeleteByPrefix(ctx, cache.PrefixDashboard); err != nil {
		b.log.Warn("invalidate dashboard cache", zap.Error(err))
	}
}

// Services bundles every domain service over one database handle.
type Services struct {
	Rooms         *RoomService
	Students      *StudentService
	Fees          *FeeService
	Import        *ImportService
	Expenses      *ExpenseService
	Employees     *EmployeeService
	Salaries      *SalaryService
	Reports       *ReportService
	Registrations *RegistrationService
	Meals         *MealService
}

func New(db *gorm.DB, opts Options) *Services {
	b := newBase(db, opts)
	fees := &FeeService{base: b}
	rooms := &RoomService{base: b}
	return &Services{
		Rooms:         rooms,
		Students:      &StudentService{base: b, rooms: rooms, fees: fees},
		Fees:          fees,
		Import:        &ImportService{base: b, rooms: rooms},
		Expenses:      &ExpenseService{base: b},
		Employees:     &EmployeeService{base: b},
		Salaries:      &SalaryService{base: b, recordExpense: opts.RecordSalaryExpense},
		Reports:       &ReportService{base: b},
		Registrations: &RegistrationService{base: b},
		Meals:         &MealService{base: b},
	}
}

// Today returns the shared clock's calendar day.
func (s *Services) Today() time.Time {
	return s.Fees.Today()
}

// Page is a 1-based page request; PerPage is clamped to 1..100.
type Page struct {
	Page    int
	PerPage int
}

func (p Page) normalize(defaultSize int) Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = defaultSize
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	return p
}

func (p Page) offset() int {
	return (p.Page - 1) * p.PerPage
}

// PageMeta describes a result page.
type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func newPageMeta(p Page, total int64) PageMeta {
	pages := (total + int64(p.PerPage) - 1) / int64(p.PerPage)
	return PageMeta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: pages,
		HasNext:    int64(p.Page) < pages,
		HasPrev:    p.Page > 1,
	}
}
