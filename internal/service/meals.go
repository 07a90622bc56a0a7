package service

import (
	"context"
	"strings"

	"hostel-admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MealService struct {
	*base
}

type MealTimingView struct {
	MealName  string `json:"meal_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Notes     string `json:"notes"`
}

type MealMenuView struct {
	DayOfWeek int    `json:"day_of_week"`
	MealName  string `json:"meal_name"`
	MenuItems string `json:"menu_items"`
}

// Meals is the published meal schedule.
type Meals struct {
	Timings []MealTimingView `json:"timings"`
	Menu    []MealMenuView   `json:"menu"`
}

func (s *MealService) Get(ctx context.Context) (*Meals, error) {
	return loadMeals(s.db.WithContext(ctx))
}

func loadMeals(db *gorm.DB) (*Meals, error) {
	const op = "meals.Get"
	var timings []models.MealTiming
	if err := db.Order("meal_name ASC").Find(&timings).Error; err != nil {
		return nil, storeErr(op, err)
	}
	var menu []models.MealMenu
	if err := db.Order("day_of_week ASC, meal_name ASC").Find(&menu).Error; err != nil {
		return nil, storeErr(op, err)
	}
	out := &Meals{
		Timings: make([]MealTimingView, 0, len(timings)),
		Menu:    make([]MealMenuView, 0, len(menu)),
	}
	for _, t := range timings {
		out.Timings = append(out.Timings, MealTimingView{
			MealName:  t.MealName,
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
			Notes:     t.Notes,
		})
	}
	for _, m := range menu {
		out.Menu = append(out.Menu, MealMenuView{
			DayOfWeek: m.DayOfWeek,
			MealName:  m.MealName,
			MenuItems: m.MenuItems,
		})
	}
	return out, nil
}

// UpsertTimings writes every timing keyed by meal name in one transaction.
func (s *MealService) UpsertTimings(ctx context.Context, items []MealTimingView) ([]MealTimingView, error) {
	const op = "meals.UpsertTimings"
	rows := make([]models.MealTiming, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.MealName)
		if name == "" {
			return nil, validationf(op, "meal_name is required")
		}
		if len(name) > 50 {
			return nil, validationf(op, "meal_name too long, max 50 characters")
		}
		rows = append(rows, models.MealTiming{
			MealName:  name,
			StartTime: strings.TrimSpace(it.StartTime),
			EndTime:   strings.TrimSpace(it.EndTime),
			Notes:     strings.TrimSpace(it.Notes),
		})
	}

	var out *Meals
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "meal_name"}},
				DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "notes", "updated_at"}),
			}).Create(&rows[i]).Error
			if err != nil {
				return err
			}
		}
		var err error
		out, err = loadMeals(tx)
		return err
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out.Timings, nil
}

// UpsertMenu writes every menu entry keyed by (day_of_week, meal_name) in one transaction.
// Days run 0 (Sunday) to 6.
func (s *MealService) UpsertMenu(ctx context.Context, items []MealMenuView) ([]MealMenuView, error) {
	const op = "meals.UpsertMenu"
	rows := make([]models.MealMenu, 0, len(items))
	for _, it := range items {
		if it.DayOfWeek < 0 || it.DayOfWeek > 6 {
			return nil, validationf(op, "day_of_week must be between 0 and 6")
		}
		name := strings.TrimSpace(it.MealName)
		if name == "" {
			return nil, validationf(op, "meal_name is required")
		}
		if len(name) > 50 {
			return nil, validationf(op, "meal_name too long, max 50 characters")
		}
		rows = append(rows, models.MealMenu{
			DayOfWeek: it.DayOfWeek,
			MealName:  name,
			MenuItems: strings.TrimSpace(it.MenuItems),
		})
	}

	var out *Meals
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "day_of_week"}, {Name: "meal_name"}},
				DoUpdates: clause.AssignmentColumns([]string{"menu_items", "updated_at"}),
			}).Create(&rows[i]).Error
			if err != nil {
				return err
			}
		}
		var err error
		out, err = loadMeals(tx)
		return err
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out.Menu, nil
}
