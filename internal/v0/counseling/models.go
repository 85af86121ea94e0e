package counseling

import (
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/crud"
)

type SessionType string

const (
	SessionIndividual SessionType = "individual"
	SessionGroup      SessionType = "group"
	SessionOnline     SessionType = "online"
)

func (s SessionType) Valid() bool {
	return s == SessionIndividual || s == SessionGroup || s == SessionOnline
}

func (s SessionType) Values() []string {
	return []string{string(SessionIndividual), string(SessionGroup), string(SessionOnline)}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Values() []string {
	return []string{string(StatusPending), string(StatusConfirmed), string(StatusCompleted), string(StatusCancelled)}
}

var Workflow = crud.NewWorkflow("status", map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
})

// Appointment is a request for a session with the hostel counselor
type Appointment struct {
	ID             string      `db:"id" json:"id"`
	UserID         string      `db:"user_id" json:"userId" validate:"required"`
	PreferredDate  time.Time   `db:"preferred_date" json:"preferredDate" validate:"required"`
	PreferredTime  string      `db:"preferred_time" json:"preferredTime" validate:"required,hhmm"`
	SessionType    SessionType `db:"session_type" json:"sessionType" validate:"required,enum"`
	Reason         string      `db:"reason" json:"reason" validate:"required,notblank,min=10,max=500"`
	ContactNumber  string      `db:"contact_number" json:"contactNumber" validate:"required,phone"`
	IsUrgent       bool        `db:"is_urgent" json:"isUrgent"`
	Status         Status      `db:"status" json:"status" validate:"required,enum"`
	CounselorNotes string      `db:"counselor_notes" json:"counselorNotes" validate:"max=1000"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updatedAt"`

	User *auth.UserRef `db:"-" json:"user,omitempty"`
}

type CreateAppointmentRequest struct {
	PreferredDate time.Time   `json:"preferredDate" validate:"required,notpast"`
	PreferredTime string      `json:"preferredTime" validate:"required,hhmm"`
	SessionType   SessionType `json:"sessionType" validate:"required,enum"`
	Reason        string      `json:"reason" validate:"required,notblank,min=10,max=500"`
	ContactNumber string      `json:"contactNumber" validate:"required,phone"`
	IsUrgent      bool        `json:"isUrgent"`
}

// UpdateAppointmentRequest is sent by counselors to schedule and close sessions
type UpdateAppointmentRequest struct {
	PreferredDate  *time.Time   `json:"preferredDate"`
	PreferredTime  *string      `json:"preferredTime" validate:"omitempty,hhmm"`
	SessionType    *SessionType `json:"sessionType" validate:"omitempty,enum"`
	Status         *Status      `json:"status" validate:"omitempty,enum"`
	CounselorNotes *string      `json:"counselorNotes" validate:"omitempty,max=1000"`
}
