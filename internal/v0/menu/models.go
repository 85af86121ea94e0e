package menu

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"HostelAPI/internal/auth"

	json "github.com/goccy/go-json"
)

type Day string

const (
	Sunday    Day = "sunday"
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
)

// Days in week order, Sunday first
var Days = []Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var dayValues = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func (d Day) Valid() bool {
	return d.index() >= 0
}

func (d Day) Values() []string { return dayValues }

// Weekday converts to time.Weekday; invalid days map to Sunday
func (d Day) Weekday() time.Weekday {
	if i := d.index(); i >= 0 {
		return time.Weekday(i)
	}
	return time.Sunday
}

func (d Day) index() int {
	for i, v := range Days {
		if v == d {
			return i
		}
	}
	return -1
}

// DayOf returns the Day of t
func DayOf(t time.Time) Day {
	return Days[t.Weekday()]
}

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes in serving order
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

func (m MealType) Valid() bool {
	return m.order() >= 0
}

func (m MealType) Values() []string {
	return []string{string(Breakfast), string(Lunch), string(Dinner)}
}

func (m MealType) order() int {
	for i, v := range MealTypes {
		if v == m {
			return i
		}
	}
	return -1
}

type SpecialItem struct {
	Name         string `json:"name" validate:"required,notblank,max=100"`
	Description  string `json:"description,omitempty" validate:"max=500"`
	IsVegetarian bool   `json:"isVegetarian"`
	Image        string `json:"image,omitempty" validate:"max=500"`
}

// Items is stored as a JSON array column
type Items []string

func (i Items) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(i))
	return string(b), err
}

func (i *Items) Scan(src interface{}) error {
	out := Items{}
	if err := scanJSON(src, &out); err != nil {
		return err
	}
	*i = out
	return nil
}

// SpecialItems is stored as a JSON array column
type SpecialItems []SpecialItem

func (s SpecialItems) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]SpecialItem(s))
	return string(b), err
}

func (s *SpecialItems) Scan(src interface{}) error {
	out := SpecialItems{}
	if err := scanJSON(src, &out); err != nil {
		return err
	}
	*s = out
	return nil
}

func scanJSON(src interface{}, dst interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into a JSON column", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// Menu is one meal slot of the rotating mess menu
type Menu struct {
	ID           string         `db:"id" json:"id"`
	Day          Day            `db:"day" json:"day" validate:"required,enum"`
	MealType     MealType       `db:"meal_type" json:"mealType" validate:"required,enum"`
	Items        Items          `db:"items" json:"items" validate:"max=50,dive,required,notblank,max=100"`
	WeekNumber   int            `db:"week_number" json:"weekNumber" validate:"min=1,max=52"`
	IsActive     bool           `db:"is_active" json:"isActive"`
	SpecialItems SpecialItems   `db:"special_items" json:"specialItems" validate:"max=20,dive"`
	CreatedByID  string         `db:"created_by" json:"-" validate:"required"`
	UpdatedByID  sql.NullString `db:"updated_by" json:"-"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`

	// Resolved from the users table, not stored here
	CreatedBy *auth.UserRef `db:"-" json:"createdBy"`
	UpdatedBy *auth.UserRef `db:"-" json:"updatedBy,omitempty"`
}

// HasSpecials reports whether the menu features at least one special item
func (m *Menu) HasSpecials() bool {
	return len(m.SpecialItems) > 0
}

type CreateMenuRequest struct {
	Day          Day           `json:"day" validate:"required,enum"`
	MealType     MealType      `json:"mealType" validate:"required,enum"`
	Items        []string      `json:"items" validate:"max=50,dive,required,notblank,max=100"`
	WeekNumber   *int          `json:"weekNumber" validate:"omitempty,min=1,max=52"`
	IsActive     *bool         `json:"isActive"`
	SpecialItems []SpecialItem `json:"specialItems" validate:"max=20,dive"`
}

// UpdateMenuRequest replaces only the fields present. A nil slice means absent,
// an empty JSON array clears the list.
type UpdateMenuRequest struct {
	Day          *Day          `json:"day" validate:"omitempty,enum"`
	MealType     *MealType     `json:"mealType" validate:"omitempty,enum"`
	Items        []string      `json:"items" validate:"omitempty,max=50,dive,required,notblank,max=100"`
	WeekNumber   *int          `json:"weekNumber" validate:"omitempty,min=1,max=52"`
	IsActive     *bool         `json:"isActive"`
	SpecialItems []SpecialItem `json:"specialItems" validate:"omitempty,max=20,dive"`
}

// DayMenus is one entry of the weekly view
type DayMenus struct {
	Day   Day    `json:"day"`
	Date  string `json:"date"`
	Meals []Menu `json:"meals"`
}

// DailyMenu is the daily view, one slot per meal
type DailyMenu struct {
	Date       string `json:"date"`
	Day        Day    `json:"day"`
	WeekNumber int    `json:"weekNumber"`
	Breakfast  *Menu  `json:"breakfast"`
	Lunch      *Menu  `json:"lunch"`
	Dinner     *Menu  `json:"dinner"`
}

// SpecialOffer is a special item flattened with the meal it belongs to
type SpecialOffer struct {
	MenuID   string   `json:"menuId"`
	MealType MealType `json:"mealType"`
	SpecialItem
}

// Specials always carries both lists, empty when nothing is on offer
type Specials struct {
	Items         []Menu         `json:"items"`
	SpecialOffers []SpecialOffer `json:"specialOffers"`
}

type WeekRangeDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

/*
This project is the backend API for the hostel management system: mess menus, room bookings, complaints, lost and found and counseling appointments.
Hostel API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
