package complaints

import (
	"database/sql"
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/crud"
)

type Category string

const (
	CategoryMaintenance Category = "maintenance"
	CategoryElectrical  Category = "electrical"
	CategoryPlumbing    Category = "plumbing"
	CategoryCleanliness Category = "cleanliness"
	CategoryFood        Category = "food"
	CategorySecurity    Category = "security"
	CategoryOther       Category = "other"
)

var categories = []Category{
	CategoryMaintenance, CategoryElectrical, CategoryPlumbing, CategoryCleanliness,
	CategoryFood, CategorySecurity, CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

func (c Category) Values() []string {
	out := make([]string, len(categories))
	for i, v := range categories {
		out[i] = string(v)
	}
	return out
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func (p Priority) Values() []string {
	return []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh)}
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusResolved
}

func (s Status) Values() []string {
	return []string{string(StatusPending), string(StatusInProgress), string(StatusResolved)}
}

var Workflow = crud.NewWorkflow("status", map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved},
})

type Complaint struct {
	ID            string       `db:"id" json:"id"`
	UserID        string       `db:"user_id" json:"userId" validate:"required"`
	Title         string       `db:"title" json:"title" validate:"required,notblank,min=5,max=100"`
	Description   string       `db:"description" json:"description" validate:"required,notblank,min=10,max=1000"`
	Category      Category     `db:"category" json:"category" validate:"required,enum"`
	Priority      Priority     `db:"priority" json:"priority" validate:"required,enum"`
	RoomNumber    string       `db:"room_number" json:"roomNumber" validate:"required,notblank,max=10"`
	Status        Status       `db:"status" json:"status" validate:"required,enum"`
	AdminResponse string       `db:"admin_response" json:"adminResponse" validate:"max=1000"`
	ResolvedAtRaw sql.NullTime `db:"resolved_at" json:"-"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updatedAt"`

	ResolvedAt *time.Time    `db:"-" json:"resolvedAt"`
	User       *auth.UserRef `db:"-" json:"user,omitempty"`
}

func (c *Complaint) fill() {
	c.ResolvedAt = nil
	if c.ResolvedAtRaw.Valid {
		t := c.ResolvedAtRaw.Time
		c.ResolvedAt = &t
	}
}

type CreateComplaintRequest struct {
	Title       string   `json:"title" validate:"required,notblank,min=5,max=100"`
	Description string   `json:"description" validate:"required,notblank,min=10,max=1000"`
	Category    Category `json:"category" validate:"required,enum"`
	Priority    Priority `json:"priority" validate:"omitempty,enum"`
	RoomNumber  string   `json:"roomNumber" validate:"required,notblank,max=10"`
}

// UpdateComplaintRequest is what staff send while working a complaint
type UpdateComplaintRequest struct {
	Priority      *Priority `json:"priority" validate:"omitempty,enum"`
	Status        *Status   `json:"status" validate:"omitempty,enum"`
	AdminResponse *string   `json:"adminResponse" validate:"omitempty,max=1000"`
}
