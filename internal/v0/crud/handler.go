package crud

import (
	"errors"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/common"
	"HostelAPI/internal/metrics"
	"HostelAPI/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Operation names, used as metric labels
const (
	OpList   = "list"
	OpMine   = "mine"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Handler exposes a Store over HTTP with the shared envelope
type Handler[T any, C any, P any] struct {
	// Resource is the metric label, e.g. "complaint"
	Resource string
	// Noun is used in client messages, e.g. "Complaint"
	Noun  string
	Store Store[T, C, P]
}

// NewHandler creates a handler for store
func NewHandler[T any, C any, P any](resource, noun string, store Store[T, C, P]) *Handler[T, C, P] {
	return &Handler[T, C, P]{Resource: resource, Noun: noun, Store: store}
}

// ValidID reports whether id has the shape of a record id. Anything else can never resolve.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// List returns every record, newest first. ?status= filters.
// GET /
func (h *Handler[T, C, P]) List(c *gin.Context) {
	records, err := h.Store.List(c.Request.Context(), ListOptions{Status: c.Query("status")})
	if err != nil {
		h.fail(c, OpList, err)
		return
	}
	metrics.RecordOperation(h.Resource, OpList, metrics.OutcomeOK)
	common.List(c, records, len(records))
}

// ListMine returns the caller's own records, newest first
// GET /mine
func (h *Handler[T, C, P]) ListMine(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		common.Unauthorized(c, "not authenticated")
		return
	}

	records, err := h.Store.List(c.Request.Context(), ListOptions{OwnerID: user.ID, Status: c.Query("status")})
	if err != nil {
		h.fail(c, OpMine, err)
		return
	}
	metrics.RecordOperation(h.Resource, OpMine, metrics.OutcomeOK)
	common.List(c, records, len(records))
}

// Get returns one record
// GET /:id
func (h *Handler[T, C, P]) Get(c *gin.Context) {
	id := c.Param("id")
	if !ValidID(id) {
		h.fail(c, OpGet, ErrNotFound)
		return
	}

	record, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, OpGet, err)
		return
	}
	metrics.RecordOperation(h.Resource, OpGet, metrics.OutcomeOK)
	common.OK(c, record)
}

// Create validates the payload and stores a record owned by the caller
// POST /
func (h *Handler[T, C, P]) Create(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		common.Unauthorized(c, "not authenticated")
		return
	}

	var in C
	if !common.BindAndValidate(c, &in) {
		metrics.RecordOperation(h.Resource, OpCreate, metrics.OutcomeInvalid)
		return
	}

	record, err := h.Store.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		h.fail(c, OpCreate, err)
		return
	}
	metrics.RecordOperation(h.Resource, OpCreate, metrics.OutcomeOK)
	common.Created(c, h.Noun+" created successfully", record)
}

// Update applies a partial payload
// PUT /:id
func (h *Handler[T, C, P]) Update(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		common.Unauthorized(c, "not authenticated")
		return
	}

	id := c.Param("id")
	if !ValidID(id) {
		h.fail(c, OpUpdate, ErrNotFound)
		return
	}

	var in P
	if !common.BindAndValidate(c, &in) {
		metrics.RecordOperation(h.Resource, OpUpdate, metrics.OutcomeInvalid)
		return
	}

	record, err := h.Store.Update(c.Request.Context(), id, user.ID, in)
	if err != nil {
		h.fail(c, OpUpdate, err)
		return
	}
	metrics.RecordOperation(h.Resource, OpUpdate, metrics.OutcomeOK)
	common.OKWithMessage(c, h.Noun+" updated successfully", record)
}

// Delete removes a record
// DELETE /:id
func (h *Handler[T, C, P]) Delete(c *gin.Context) {
	id := c.Param("id")
	if !ValidID(id) {
		h.fail(c, OpDelete, ErrNotFound)
		return
	}

	if err := h.Store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, OpDelete, err)
		return
	}
	metrics.RecordOperation(h.Resource, OpDelete, metrics.OutcomeOK)
	common.OKWithMessage(c, h.Noun+" deleted successfully", nil)
}

// fail maps store errors onto the error taxonomy
func (h *Handler[T, C, P]) fail(c *gin.Context, op string, err error) {
	if verr, ok := validation.AsValidationError(err); ok {
		metrics.RecordOperation(h.Resource, op, metrics.OutcomeInvalid)
		common.ValidationFailed(c, verr.Messages())
		return
	}
	if errors.Is(err, ErrConflict) {
		metrics.RecordOperation(h.Resource, op, metrics.OutcomeInvalid)
		common.ValidationFailed(c, []string{err.Error()})
		return
	}
	if errors.Is(err, ErrNotFound) {
		metrics.RecordOperation(h.Resource, op, metrics.OutcomeNotFound)
		common.NotFound(c, h.Noun+" not found")
		return
	}
	metrics.RecordOperation(h.Resource, op, metrics.OutcomeError)
	common.ServerError(c, err)
}

// Fail exposes the error mapping to resource-specific handlers
func (h *Handler[T, C, P]) Fail(c *gin.Context, op string, err error) {
	h.fail(c, op, err)
}
