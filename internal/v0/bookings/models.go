package bookings

import (
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/crud"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
)

func (r RoomType) Valid() bool {
	switch r {
	case RoomSingle, RoomDouble, RoomTriple:
		return true
	}
	return false
}

func (r RoomType) Values() []string {
	return []string{string(RoomSingle), string(RoomDouble), string(RoomTriple)}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Values() []string {
	return []string{string(StatusPending), string(StatusApproved), string(StatusRejected), string(StatusCancelled)}
}

// Workflow guards status changes made by wardens
var Workflow = crud.NewWorkflow("status", map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCancelled},
})

// Booking is a room request made by a resident
type Booking struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"userId" validate:"required"`
	RoomType      RoomType  `db:"room_type" json:"roomType" validate:"required,enum"`
	Block         string    `db:"block" json:"block" validate:"required,notblank,max=20"`
	CheckInDate   time.Time `db:"check_in_date" json:"checkInDate" validate:"required"`
	CheckOutDate  time.Time `db:"check_out_date" json:"checkOutDate" validate:"required,gtfield=CheckInDate"`
	ContactNumber string    `db:"contact_number" json:"contactNumber" validate:"required,phone"`
	Notes         string    `db:"notes" json:"notes" validate:"max=500"`
	Status        Status    `db:"status" json:"status" validate:"required,enum"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`

	User *auth.UserRef `db:"-" json:"user,omitempty"`
}

type CreateBookingRequest struct {
	RoomType      RoomType  `json:"roomType" validate:"required,enum"`
	Block         string    `json:"block" validate:"required,notblank,max=20"`
	CheckInDate   time.Time `json:"checkInDate" validate:"required,notpast"`
	CheckOutDate  time.Time `json:"checkOutDate" validate:"required,gtfield=CheckInDate"`
	ContactNumber string    `json:"contactNumber" validate:"required,phone"`
	Notes         string    `json:"notes" validate:"max=500"`
}

// UpdateBookingRequest changes only the fields present
type UpdateBookingRequest struct {
	RoomType      *RoomType  `json:"roomType" validate:"omitempty,enum"`
	Block         *string    `json:"block" validate:"omitempty,notblank,max=20"`
	CheckInDate   *time.Time `json:"checkInDate"`
	CheckOutDate  *time.Time `json:"checkOutDate"`
	ContactNumber *string    `json:"contactNumber" validate:"omitempty,phone"`
	Notes         *string    `json:"notes" validate:"omitempty,max=500"`
	Status        *Status    `json:"status" validate:"omitempty,enum"`
}
