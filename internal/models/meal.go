package models

import "time"

type MealTiming struct {
	ID        uint   `gorm:"primaryKey"`
	MealName  string `gorm:"size:50;uniqueIndex;not null"`
	StartTime string `gorm:"size:20"`
	EndTime   string `gorm:"size:20"`
	Notes     string `gorm:"size:255"`
	UpdatedAt time.Time
}

// MealMenu holds the dishes for one meal on one weekday (0 = Sunday).
type MealMenu struct {
	ID        uint   `gorm:"primaryKey"`
	DayOfWeek int    `gorm:"not null;uniqueIndex:idx_menu_day_meal"`
	MealName  string `gorm:"size:50;not null;uniqueIndex:idx_menu_day_meal"`
	MenuItems string `gorm:"type:text"`
	UpdatedAt time.Time
}
