package menu

import (
	"net/http"
	"strconv"
	"time"

	"HostelAPI/internal/common"
	"HostelAPI/internal/metrics"
	"HostelAPI/internal/v0/crud"

	"github.com/gin-gonic/gin"
)

const resourceName = "menu"

// Handler serves the public menu views on top of the shared CRUD handlers
type Handler struct {
	*crud.Handler[Menu, CreateMenuRequest, UpdateMenuRequest]
	repo     *Repository
	rotation int
	now      func() time.Time
}

// NewHandler creates a menu handler. rotation is the number of distinct
// menu weeks that repeat over the year.
func NewHandler(repo *Repository, rotation int) *Handler {
	if rotation < 1 {
		rotation = 1
	}
	return &Handler{
		Handler:  crud.NewHandler[Menu, CreateMenuRequest, UpdateMenuRequest](resourceName, "Menu", repo),
		repo:     repo,
		rotation: rotation,
		now:      time.Now,
	}
}

// Weekly returns the active menus of a week grouped by day
// GET /menu/weekly
func (h *Handler) Weekly(c *gin.Context) {
	now := h.now()
	start, end := WeekRange(now)

	weekNumber := WeekNumberFor(now, h.rotation)
	if raw := c.Query("weekNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 52 {
			common.ValidationFailed(c, []string{"weekNumber must be an integer between 1 and 52"})
			return
		}
		weekNumber = n
	}

	menus, err := h.repo.ListActive(c.Request.Context(), weekNumber, "")
	if err != nil {
		h.Fail(c, "weekly", err)
		return
	}

	resp := common.CreateSuccessResponse(GroupByDay(menus, start))
	resp.WeekRange = WeekRangeDTO{Start: start, End: end}
	metrics.RecordOperation(resourceName, "weekly", metrics.OutcomeOK)
	common.JSON(c, http.StatusOK, resp)
}

// Daily returns breakfast, lunch and dinner for a date, defaulting to today
// GET /menu/daily?date=YYYY-MM-DD
func (h *Handler) Daily(c *gin.Context) {
	date := h.now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(DateLayout, raw, date.Location())
		if err != nil {
			common.ValidationFailed(c, []string{"date must be in YYYY-MM-DD format"})
			return
		}
		date = parsed
	}
	date, _ = DayRange(date)

	weekNumber := WeekNumberFor(date, h.rotation)
	menus, err := h.repo.ListActive(c.Request.Context(), weekNumber, DayOf(date))
	if err != nil {
		h.Fail(c, "daily", err)
		return
	}

	daily, ok := BuildDaily(menus, date, weekNumber)
	if !ok {
		metrics.RecordOperation(resourceName, "daily", metrics.OutcomeNotFound)
		common.NotFound(c, "No menu found for "+date.Format(DateLayout))
		return
	}
	metrics.RecordOperation(resourceName, "daily", metrics.OutcomeOK)
	common.OK(c, daily)
}

// Specials returns today's menus that feature special items
// GET /menu/specials
func (h *Handler) Specials(c *gin.Context) {
	today := h.now()
	menus, err := h.repo.ListActive(c.Request.Context(), WeekNumberFor(today, h.rotation), DayOf(today))
	if err != nil {
		h.Fail(c, "specials", err)
		return
	}
	metrics.RecordOperation(resourceName, "specials", metrics.OutcomeOK)
	common.OK(c, BuildSpecials(menus))
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
