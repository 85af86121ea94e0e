package lostfound

import (
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/crud"
)

type ItemType string

const (
	TypeLost  ItemType = "lost"
	TypeFound ItemType = "found"
)

func (t ItemType) Valid() bool {
	return t == TypeLost || t == TypeFound
}

func (t ItemType) Values() []string {
	return []string{string(TypeLost), string(TypeFound)}
}

type Status string

const (
	StatusOpen    Status = "open"
	StatusClaimed Status = "claimed"
	StatusClosed  Status = "closed"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusClaimed || s == StatusClosed
}

func (s Status) Values() []string {
	return []string{string(StatusOpen), string(StatusClaimed), string(StatusClosed)}
}

var Workflow = crud.NewWorkflow("status", map[Status][]Status{
	StatusOpen:    {StatusClaimed, StatusClosed},
	StatusClaimed: {StatusClosed},
})

// Item is a lost or found report
type Item struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId" validate:"required"`
	ItemName    string    `db:"item_name" json:"itemName" validate:"required,notblank,min=2,max=100"`
	Description string    `db:"description" json:"description" validate:"max=500"`
	Type        ItemType  `db:"type" json:"type" validate:"required,enum"`
	Location    string    `db:"location" json:"location" validate:"required,notblank,min=2,max=100"`
	Date        time.Time `db:"date" json:"date" validate:"required"`
	ContactInfo string    `db:"contact_info" json:"contactInfo" validate:"required,contact"`
	Image       string    `db:"image" json:"image"`
	Status      Status    `db:"status" json:"status" validate:"required,enum"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	User *auth.UserRef `db:"-" json:"user,omitempty"`
}

type CreateItemRequest struct {
	ItemName    string    `json:"itemName" validate:"required,notblank,min=2,max=100"`
	Description string    `json:"description" validate:"max=500"`
	Type        ItemType  `json:"type" validate:"required,enum"`
	Location    string    `json:"location" validate:"required,notblank,min=2,max=100"`
	Date        time.Time `json:"date" validate:"required,notfuture"`
	ContactInfo string    `json:"contactInfo" validate:"required,contact"`
}

type UpdateItemRequest struct {
	ItemName    *string `json:"itemName" validate:"omitempty,notblank,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Location    *string `json:"location" validate:"omitempty,notblank,min=2,max=100"`
	ContactInfo *string `json:"contactInfo" validate:"omitempty,contact"`
	Status      *Status `json:"status" validate:"omitempty,enum"`
}
