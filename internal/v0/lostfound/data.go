package lostfound

import (
	"context"
	"time"

	"HostelAPI/internal/v0/crud"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var table = crud.Table{
	Name: "lost_found_items",
	Columns: `id, user_id, item_name, description, type, location, date, contact_info, image,
		status, created_at, updated_at`,
	OwnerColumn: "user_id",
}

// Repository persists lost and found reports. It implements crud.Store.
type Repository struct {
	db    *sqlx.DB
	users crud.UserResolver
}

var _ crud.Store[Item, CreateItemRequest, UpdateItemRequest] = (*Repository)(nil)

func NewRepository(db *sqlx.DB, users crud.UserResolver) *Repository {
	return &Repository{db: db, users: users}
}

func (r *Repository) List(ctx context.Context, opts crud.ListOptions) ([]Item, error) {
	items, err := crud.SelectList[Item](ctx, r.db, table, opts)
	if err != nil || len(items) == 0 {
		return items, err
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].UserID
	}
	refs, err := crud.ResolveUsers(ctx, r.users, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].User = refs[items[i].UserID]
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Item, error) {
	item, err := crud.SelectOne[Item](ctx, r.db, table, id)
	if err != nil {
		return nil, err
	}
	if item.User, err = crud.ResolveUser(ctx, r.users, item.UserID); err != nil {
		return nil, err
	}
	return item, nil
}

// Create opens a report owned by actorID
func (r *Repository) Create(ctx context.Context, actorID string, in CreateItemRequest) (*Item, error) {
	now := time.Now().UTC()
	item := Item{
		ID:          uuid.New().String(),
		UserID:      actorID,
		ItemName:    in.ItemName,
		Description: in.Description,
		Type:        in.Type,
		Location:    in.Location,
		Date:        in.Date.UTC(),
		ContactInfo: in.ContactInfo,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := crud.Validate(&item); err != nil {
		return nil, err
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO lost_found_items (id, user_id, item_name, description, type, location, date,
			contact_info, image, status, created_at, updated_at)
		VALUES (:id, :user_id, :item_name, :description, :type, :location, :date,
			:contact_info, :image, :status, :created_at, :updated_at)
	`, &item)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, item.ID)
}

func (r *Repository) Update(ctx context.Context, id, actorID string, in UpdateItemRequest) (*Item, error) {
	err := crud.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		item, err := crud.SelectOne[Item](ctx, tx, table, id)
		if err != nil {
			return err
		}

		if in.Status != nil {
			if err := Workflow.Check(item.Status, *in.Status); err != nil {
				return err
			}
			item.Status = *in.Status
		}
		if in.ItemName != nil {
			item.ItemName = *in.ItemName
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.Location != nil {
			item.Location = *in.Location
		}
		if in.ContactInfo != nil {
			item.ContactInfo = *in.ContactInfo
		}
		item.UpdatedAt = time.Now().UTC()

		if err := crud.Validate(item); err != nil {
			return err
		}

		res, err := tx.NamedExecContext(ctx, `
			UPDATE lost_found_items
			SET item_name = :item_name, description = :description, location = :location,
			    contact_info = :contact_info, status = :status, updated_at = :updated_at
			WHERE id = :id
		`, item)
		return crud.RequireAffected(res, err)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// SetImage stores the public path of an uploaded photo and returns the previous one
func (r *Repository) SetImage(ctx context.Context, id, image string) (string, error) {
	var previous string
	err := crud.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &previous, `SELECT image FROM lost_found_items WHERE id = ?`, id); err != nil {
			return crud.NotFoundIfNoRows(err)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE lost_found_items SET image = ?, updated_at = ? WHERE id = ?`,
			image, time.Now().UTC(), id)
		return crud.RequireAffected(res, err)
	})
	return previous, err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return crud.DeleteByID(ctx, r.db, table, id)
}
