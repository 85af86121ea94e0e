package bookings

import (
	"context"
	"time"

	"HostelAPI/internal/v0/crud"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var table = crud.Table{
	Name: "bookings",
	Columns: `id, user_id, room_type, block, check_in_date, check_out_date, contact_number,
		notes, status, created_at, updated_at`,
	OwnerColumn: "user_id",
}

// Repository persists bookings. It implements crud.Store.
type Repository struct {
	db    *sqlx.DB
	users crud.UserResolver
}

var _ crud.Store[Booking, CreateBookingRequest, UpdateBookingRequest] = (*Repository)(nil)

func NewRepository(db *sqlx.DB, users crud.UserResolver) *Repository {
	return &Repository{db: db, users: users}
}

func (r *Repository) List(ctx context.Context, opts crud.ListOptions) ([]Booking, error) {
	bookings, err := crud.SelectList[Booking](ctx, r.db, table, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(bookings))
	for i := range bookings {
		ids[i] = bookings[i].UserID
	}
	refs, err := crud.ResolveUsers(ctx, r.users, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].User = refs[bookings[i].UserID]
	}
	return bookings, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Booking, error) {
	b, err := crud.SelectOne[Booking](ctx, r.db, table, id)
	if err != nil {
		return nil, err
	}
	if b.User, err = crud.ResolveUser(ctx, r.users, b.UserID); err != nil {
		return nil, err
	}
	return b, nil
}

// Create files a pending booking owned by actorID
func (r *Repository) Create(ctx context.Context, actorID string, in CreateBookingRequest) (*Booking, error) {
	now := time.Now().UTC()
	b := Booking{
		ID:            uuid.New().String(),
		UserID:        actorID,
		RoomType:      in.RoomType,
		Block:         in.Block,
		CheckInDate:   in.CheckInDate.UTC(),
		CheckOutDate:  in.CheckOutDate.UTC(),
		ContactNumber: in.ContactNumber,
		Notes:         in.Notes,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := crud.Validate(&b); err != nil {
		return nil, err
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO bookings (id, user_id, room_type, block, check_in_date, check_out_date,
			contact_number, notes, status, created_at, updated_at)
		VALUES (:id, :user_id, :room_type, :block, :check_in_date, :check_out_date,
			:contact_number, :notes, :status, :created_at, :updated_at)
	`, &b)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, b.ID)
}

// Update applies the present fields. Status changes must follow Workflow.
func (r *Repository) Update(ctx context.Context, id, actorID string, in UpdateBookingRequest) (*Booking, error) {
	err := crud.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		b, err := crud.SelectOne[Booking](ctx, tx, table, id)
		if err != nil {
			return err
		}

		if in.Status != nil {
			if err := Workflow.Check(b.Status, *in.Status); err != nil {
				return err
			}
			b.Status = *in.Status
		}
		if in.RoomType != nil {
			b.RoomType = *in.RoomType
		}
		if in.Block != nil {
			b.Block = *in.Block
		}
		if in.CheckInDate != nil {
			b.CheckInDate = in.CheckInDate.UTC()
		}
		if in.CheckOutDate != nil {
			b.CheckOutDate = in.CheckOutDate.UTC()
		}
		if in.ContactNumber != nil {
			b.ContactNumber = *in.ContactNumber
		}
		if in.Notes != nil {
			b.Notes = *in.Notes
		}
		b.UpdatedAt = time.Now().UTC()

		if err := crud.Validate(b); err != nil {
			return err
		}

		res, err := tx.NamedExecContext(ctx, `
			UPDATE bookings
			SET room_type = :room_type, block = :block, check_in_date = :check_in_date,
			    check_out_date = :check_out_date, contact_number = :contact_number,
			    notes = :notes, status = :status, updated_at = :updated_at
			WHERE id = :id
		`, b)
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
