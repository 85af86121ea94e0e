package menu

import (
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

// WeekRange returns the window [most recent Sunday 00:00:00.000, following
// Saturday 23:59:59.999] that contains t, in t's location.
func WeekRange(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	start = midnight.AddDate(0, 0, -int(t.Weekday()))
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// DayRange returns [t 00:00:00.000, next day 00:00:00.000)
func DayRange(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// weekOfYear numbers weeks from the first Sunday-started window, capped at 52
func weekOfYear(t time.Time) int {
	start, _ := WeekRange(t)
	w := (start.YearDay()-1)/7 + 1
	if w > 52 {
		w = 52
	}
	return w
}

// WeekNumberFor maps the week containing t onto a rotation slot in [1, rotation].
// With a single-week rotation every date maps to week 1.
func WeekNumberFor(t time.Time, rotation int) int {
	if rotation <= 1 {
		return 1
	}
	return ((weekOfYear(t) - 1) % rotation) + 1
}

// SortMenus orders menus Sunday to Saturday, then breakfast, lunch, dinner
func SortMenus(menus []Menu) {
	sort.SliceStable(menus, func(i, j int) bool {
		di, dj := menus[i].Day.Weekday(), menus[j].Day.Weekday()
		if di != dj {
			return di < dj
		}
		return menus[i].MealType.order() < menus[j].MealType.order()
	})
}

// GroupByDay builds the weekly view from the active menus of one week number.
// Each day carries its concrete date inside the window starting at weekStart.
// Days without meals are left out, so no menus gives an empty slice.
func GroupByDay(menus []Menu, weekStart time.Time) []DayMenus {
	active := make([]Menu, 0, len(menus))
	for _, m := range menus {
		if m.IsActive {
			active = append(active, m)
		}
	}
	SortMenus(active)

	grouped := []DayMenus{}
	for _, m := range active {
		if n := len(grouped); n > 0 && grouped[n-1].Day == m.Day {
			grouped[n-1].Meals = append(grouped[n-1].Meals, m)
			continue
		}
		date := weekStart.AddDate(0, 0, int(m.Day.Weekday()))
		grouped = append(grouped, DayMenus{
			Day:   m.Day,
			Date:  date.Format(DateLayout),
			Meals: []Menu{m},
		})
	}
	return grouped
}

// BuildDaily slots the menus of one day into breakfast, lunch and dinner.
// It reports false when no active meal exists.
func BuildDaily(menus []Menu, date time.Time, weekNumber int) (*DailyMenu, bool) {
	daily := &DailyMenu{
		Date:       date.Format(DateLayout),
		Day:        DayOf(date),
		WeekNumber: weekNumber,
	}

	found := false
	for i := range menus {
		m := &menus[i]
		if !m.IsActive || m.Day != daily.Day {
			continue
		}
		switch m.MealType {
		case Breakfast:
			daily.Breakfast = m
		case Lunch:
			daily.Lunch = m
		case Dinner:
			daily.Dinner = m
		default:
			continue
		}
		found = true
	}
	return daily, found
}

// BuildSpecials collects the menus with special items and flattens their offers
func BuildSpecials(menus []Menu) Specials {
	out := Specials{
		Items:         []Menu{},
		SpecialOffers: []SpecialOffer{},
	}

	sorted := append([]Menu(nil), menus...)
	SortMenus(sorted)
	for _, m := range sorted {
		if !m.IsActive || !m.HasSpecials() {
			continue
		}
		out.Items = append(out.Items, m)
		for _, s := range m.SpecialItems {
			out.SpecialOffers = append(out.SpecialOffers, SpecialOffer{
				MenuID:      m.ID,
				MealType:    m.MealType,
				SpecialItem: s,
			})
		}
	}
	return out
}
