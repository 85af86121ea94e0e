package counseling

import (
	"context"
	"time"

	"HostelAPI/internal/v0/crud"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var table = crud.Table{
	Name: "counseling_appointments",
	Columns: `id, user_id, preferred_date, preferred_time, session_type, reason, contact_number,
		is_urgent, status, counselor_notes, created_at, updated_at`,
	OwnerColumn: "user_id",
}

// Repository persists appointments. It implements crud.Store.
type Repository struct {
	db    *sqlx.DB
	users crud.UserResolver
}

var _ crud.Store[Appointment, CreateAppointmentRequest, UpdateAppointmentRequest] = (*Repository)(nil)

func NewRepository(db *sqlx.DB, users crud.UserResolver) *Repository {
	return &Repository{db: db, users: users}
}

func (r *Repository) List(ctx context.Context, opts crud.ListOptions) ([]Appointment, error) {
	appointments, err := crud.SelectList[Appointment](ctx, r.db, table, opts)
	if err != nil || len(appointments) == 0 {
		return appointments, err
	}

	ids := make([]string, len(appointments))
	for i := range appointments {
		ids[i] = appointments[i].UserID
	}
	refs, err := crud.ResolveUsers(ctx, r.users, ids)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		appointments[i].User = refs[appointments[i].UserID]
	}
	return appointments, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Appointment, error) {
	a, err := crud.SelectOne[Appointment](ctx, r.db, table, id)
	if err != nil {
		return nil, err
	}
	if a.User, err = crud.ResolveUser(ctx, r.users, a.UserID); err != nil {
		return nil, err
	}
	return a, nil
}

// Create books a pending appointment for actorID
func (r *Repository) Create(ctx context.Context, actorID string, in CreateAppointmentRequest) (*Appointment, error) {
	now := time.Now().UTC()
	a := Appointment{
		ID:            uuid.New().String(),
		UserID:        actorID,
		PreferredDate: in.PreferredDate.UTC(),
		PreferredTime: in.PreferredTime,
		SessionType:   in.SessionType,
		Reason:        in.Reason,
		ContactNumber: in.ContactNumber,
		IsUrgent:      in.IsUrgent,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := crud.Validate(&a); err != nil {
		return nil, err
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO counseling_appointments (id, user_id, preferred_date, preferred_time,
			session_type, reason, contact_number, is_urgent, status, counselor_notes,
			created_at, updated_at)
		VALUES (:id, :user_id, :preferred_date, :preferred_time,
			:session_type, :reason, :contact_number, :is_urgent, :status, :counselor_notes,
			:created_at, :updated_at)
	`, &a)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, a.ID)
}

func (r *Repository) Update(ctx context.Context, id, actorID string, in UpdateAppointmentRequest) (*Appointment, error) {
	err := crud.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		a, err := crud.SelectOne[Appointment](ctx, tx, table, id)
		if err != nil {
			return err
		}

		if in.Status != nil {
			if err := Workflow.Check(a.Status, *in.Status); err != nil {
				return err
			}
			a.Status = *in.Status
		}
		if in.PreferredDate != nil {
			a.PreferredDate = in.PreferredDate.UTC()
		}
		if in.PreferredTime != nil {
			a.PreferredTime = *in.PreferredTime
		}
		if in.SessionType != nil {
			a.SessionType = *in.SessionType
		}
		if in.CounselorNotes != nil {
			a.CounselorNotes = *in.CounselorNotes
		}
		a.UpdatedAt = time.Now().UTC()

		if err := crud.Validate(a); err != nil {
			return err
		}

		res, err := tx.NamedExecContext(ctx, `
			UPDATE counseling_appointments
			SET preferred_date = :preferred_date, preferred_time = :preferred_time,
			    session_type = :session_type, status = :status,
			    counselor_notes = :counselor_notes, updated_at = :updated_at
			WHERE id = :id
		`, a)
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
