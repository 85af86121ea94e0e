package menu

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"HostelAPI/internal/v0/crud"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const menuColumns = `id, day, meal_type, items, week_number, is_active, special_items,
	created_by, updated_by, created_at, updated_at`

// Repository persists menus. It implements crud.Store.
type Repository struct {
	db    *sqlx.DB
	users crud.UserResolver
}

var _ crud.Store[Menu, CreateMenuRequest, UpdateMenuRequest] = (*Repository)(nil)

// NewRepository creates a new menu repository
func NewRepository(db *sqlx.DB, users crud.UserResolver) *Repository {
	return &Repository{db: db, users: users}
}

// List returns every menu, newest first
func (r *Repository) List(ctx context.Context, opts crud.ListOptions) ([]Menu, error) {
	menus := []Menu{}
	query := `SELECT ` + menuColumns + ` FROM menus`
	var args []interface{}
	if opts.OwnerID != "" {
		query += ` WHERE created_by = ?`
		args = append(args, opts.OwnerID)
	}
	query += ` ORDER BY created_at DESC, id`

	if err := r.db.SelectContext(ctx, &menus, query, args...); err != nil {
		return nil, err
	}
	if err := r.resolveUsers(ctx, menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// ListActive returns the active menus of a rotation week, optionally for one day
func (r *Repository) ListActive(ctx context.Context, weekNumber int, day Day) ([]Menu, error) {
	menus := []Menu{}
	query := `SELECT ` + menuColumns + ` FROM menus WHERE is_active = 1 AND week_number = ?`
	args := []interface{}{weekNumber}
	if day != "" {
		query += ` AND day = ?`
		args = append(args, day)
	}

	if err := r.db.SelectContext(ctx, &menus, query, args...); err != nil {
		return nil, err
	}
	SortMenus(menus)
	return menus, nil
}

// Get returns a menu with createdBy and updatedBy resolved
func (r *Repository) Get(ctx context.Context, id string) (*Menu, error) {
	m, err := getMenu(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	menus := []Menu{*m}
	if err := r.resolveUsers(ctx, menus); err != nil {
		return nil, err
	}
	return &menus[0], nil
}

func getMenu(ctx context.Context, q sqlx.QueryerContext, id string) (*Menu, error) {
	var m Menu
	err := sqlx.GetContext(ctx, q, &m, `SELECT `+menuColumns+` FROM menus WHERE id = ?`, id)
	if err != nil {
		return nil, crud.NotFoundIfNoRows(err)
	}
	return &m, nil
}

// Create stores a menu authored by actorID
func (r *Repository) Create(ctx context.Context, actorID string, in CreateMenuRequest) (*Menu, error) {
	now := time.Now().UTC()
	m := Menu{
		ID:           uuid.New().String(),
		Day:          in.Day,
		MealType:     in.MealType,
		Items:        itemsOf(in.Items),
		WeekNumber:   1,
		IsActive:     true,
		SpecialItems: SpecialItems(in.SpecialItems),
		CreatedByID:  actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.WeekNumber != nil {
		m.WeekNumber = *in.WeekNumber
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if m.SpecialItems == nil {
		m.SpecialItems = SpecialItems{}
	}

	if err := crud.Validate(&m); err != nil {
		return nil, err
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO menus (id, day, meal_type, items, week_number, is_active, special_items,
			created_by, updated_by, created_at, updated_at)
		VALUES (:id, :day, :meal_type, :items, :week_number, :is_active, :special_items,
			:created_by, :updated_by, :created_at, :updated_at)
	`, &m)
	if err != nil {
		return nil, crud.MapUniqueViolation(err, duplicateMessage(&m))
	}

	return r.Get(ctx, m.ID)
}

// Update merges the present fields, validates the result and writes it atomically
func (r *Repository) Update(ctx context.Context, id, actorID string, in UpdateMenuRequest) (*Menu, error) {
	err := crud.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		m, err := getMenu(ctx, tx, id)
		if err != nil {
			return err
		}

		applyUpdate(m, in)
		m.UpdatedByID = sql.NullString{String: actorID, Valid: actorID != ""}
		m.UpdatedAt = time.Now().UTC()

		if err := crud.Validate(m); err != nil {
			return err
		}

		res, err := tx.NamedExecContext(ctx, `
			UPDATE menus
			SET day = :day, meal_type = :meal_type, items = :items, week_number = :week_number,
			    is_active = :is_active, special_items = :special_items,
			    updated_by = :updated_by, updated_at = :updated_at
			WHERE id = :id
		`, m)
		if err != nil {
			return crud.MapUniqueViolation(err, duplicateMessage(m))
		}
		return crud.RequireAffected(res, nil)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a menu
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	return crud.RequireAffected(res, err)
}

func applyUpdate(m *Menu, in UpdateMenuRequest) {
	if in.Day != nil {
		m.Day = *in.Day
	}
	if in.MealType != nil {
		m.MealType = *in.MealType
	}
	if in.Items != nil {
		m.Items = itemsOf(in.Items)
	}
	if in.WeekNumber != nil {
		m.WeekNumber = *in.WeekNumber
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
	if in.SpecialItems != nil {
		m.SpecialItems = SpecialItems(in.SpecialItems)
	}
}

func (r *Repository) resolveUsers(ctx context.Context, menus []Menu) error {
	ids := make([]string, 0, 2*len(menus))
	for _, m := range menus {
		ids = append(ids, m.CreatedByID, m.UpdatedByID.String)
	}

	refs, err := crud.ResolveUsers(ctx, r.users, ids)
	if err != nil {
		return err
	}
	for i := range menus {
		menus[i].CreatedBy = refs[menus[i].CreatedByID]
		if menus[i].UpdatedByID.Valid {
			menus[i].UpdatedBy = refs[menus[i].UpdatedByID.String]
		}
	}
	return nil
}

func itemsOf(items []string) Items {
	out := make(Items, len(items))
	copy(out, items)
	return out
}

func duplicateMessage(m *Menu) string {
	return fmt.Sprintf("a %s menu for %s in week %d already exists", m.MealType, m.Day, m.WeekNumber)
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
