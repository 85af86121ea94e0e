package complaints

import (
	"context"
	"database/sql"
	"time"

	"HostelAPI/internal/v0/crud"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var table = crud.Table{
	Name: "complaints",
	Columns: `id, user_id, title, description, category, priority, room_number, status,
		admin_response, resolved_at, created_at, updated_at`,
	OwnerColumn: "user_id",
}

// Repository persists complaints. It implements crud.Store.
type Repository struct {
	db    *sqlx.DB
	users crud.UserResolver
	now   func() time.Time
}

var _ crud.Store[Complaint, CreateComplaintRequest, UpdateComplaintRequest] = (*Repository)(nil)

func NewRepository(db *sqlx.DB, users crud.UserResolver) *Repository {
	return &Repository{db: db, users: users, now: time.Now}
}

func (r *Repository) List(ctx context.Context, opts crud.ListOptions) ([]Complaint, error) {
	complaints, err := crud.SelectList[Complaint](ctx, r.db, table, opts)
	if err != nil {
		return nil, err
	}
	if len(complaints) == 0 {
		return complaints, nil
	}

	ids := make([]string, len(complaints))
	for i := range complaints {
		complaints[i].fill()
		ids[i] = complaints[i].UserID
	}
	refs, err := crud.ResolveUsers(ctx, r.users, ids)
	if err != nil {
		return nil, err
	}
	for i := range complaints {
		complaints[i].User = refs[complaints[i].UserID]
	}
	return complaints, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Complaint, error) {
	c, err := crud.SelectOne[Complaint](ctx, r.db, table, id)
	if err != nil {
		return nil, err
	}
	c.fill()
	if c.User, err = crud.ResolveUser(ctx, r.users, c.UserID); err != nil {
		return nil, err
	}
	return c, nil
}

// Create files a pending complaint. Priority defaults to medium.
func (r *Repository) Create(ctx context.Context, actorID string, in CreateComplaintRequest) (*Complaint, error) {
	now := r.now().UTC()
	c := Complaint{
		ID:          uuid.New().String(),
		UserID:      actorID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		RoomNumber:  in.RoomNumber,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}
	if err := crud.Validate(&c); err != nil {
		return nil, err
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO complaints (id, user_id, title, description, category, priority, room_number,
			status, admin_response, resolved_at, created_at, updated_at)
		VALUES (:id, :user_id, :title, :description, :category, :priority, :room_number,
			:status, :admin_response, :resolved_at, :created_at, :updated_at)
	`, &c)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, c.ID)
}

// Update records staff progress. Reaching resolved stamps resolvedAt once.
func (r *Repository) Update(ctx context.Context, id, actorID string, in UpdateComplaintRequest) (*Complaint, error) {
	err := crud.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		c, err := crud.SelectOne[Complaint](ctx, tx, table, id)
		if err != nil {
			return err
		}

		now := r.now().UTC()
		if in.Status != nil {
			if err := Workflow.Check(c.Status, *in.Status); err != nil {
				return err
			}
			if *in.Status == StatusResolved && !c.ResolvedAtRaw.Valid {
				c.ResolvedAtRaw = sql.NullTime{Time: now, Valid: true}
			}
			c.Status = *in.Status
		}
		if in.Priority != nil {
			c.Priority = *in.Priority
		}
		if in.AdminResponse != nil {
			c.AdminResponse = *in.AdminResponse
		}
		c.UpdatedAt = now

		if err := crud.Validate(c); err != nil {
			return err
		}

		res, err := tx.NamedExecContext(ctx, `
			UPDATE complaints
			SET priority = :priority, status = :status, admin_response = :admin_response,
			    resolved_at = :resolved_at, updated_at = :updated_at
			WHERE id = :id
		`, c)
		return crud.RequireAffected(res, err)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return crud.DeleteByID(ctx, r.db, table, id)
}
