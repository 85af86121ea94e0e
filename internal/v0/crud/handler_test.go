package crud

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Text    string `json:"text"`
}

type createNote struct {
	Text string `json:"text" validate:"required,min=3"`
}

type updateNote struct {
	Text *string `json:"text" validate:"omitempty,min=3"`
}

// memStore keeps notes in insertion order
type memStore struct {
	mu    sync.Mutex
	notes []note
	err   error
}

func (s *memStore) List(_ context.Context, opts ListOptions) ([]note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []note{}
	for i := len(s.notes) - 1; i >= 0; i-- {
		if opts.OwnerID == "" || s.notes[i].OwnerID == opts.OwnerID {
			out = append(out, s.notes[i])
		}
	}
	return out, nil
}

func (s *memStore) Get(_ context.Context, id string) (*note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			n := s.notes[i]
			return &n, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) Create(_ context.Context, actorID string, in createNote) (*note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.Text == in.Text {
			return nil, Conflict("note already exists")
		}
	}
	n := note{ID: uuid.New().String(), OwnerID: actorID, Text: in.Text}
	s.notes = append(s.notes, n)
	return &n, nil
}

func (s *memStore) Update(ctx context.Context, id, _ string, in updateNote) (*note, error) {
	s.mu.Lock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			if in.Text != nil {
				s.notes[i].Text = *in.Text
			}
			s.mu.Unlock()
			return s.Get(ctx, id)
		}
	}
	s.mu.Unlock()
	return nil, ErrNotFound
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func newNoteRouter(t *testing.T) (*gin.Engine, *memStore, string, string) {
	t.Helper()

	db := testutil.NewDB(t)
	a := testutil.NewAuth(t, db)
	store := &memStore{}
	h := NewHandler[note, createNote, updateNote]("note", "Note", store)

	signedIn := Gate(a.Middleware.RequireAuth())
	admin := Gate(a.Middleware.RequireAuth(), a.Middleware.RequireRole(auth.RoleAdmin))

	router := gin.New()
	h.Register(router.Group("/notes"), Gates{
		List:   admin,
		Mine:   signedIn,
		Get:    admin,
		Create: Gate(a.Middleware.RequireAuth(), nil),
		Update: admin,
		Delete: admin,
	})

	_, adminToken := a.CreateUser(t, auth.RoleAdmin)
	_, studentToken := a.CreateUser(t, auth.RoleStudent)
	return router, store, adminToken, studentToken
}

func TestHandlerLifecycle(t *testing.T) {
	router, _, admin, student := newNoteRouter(t)

	w, env := testutil.Do(t, router, http.MethodPost, "/notes", student, map[string]string{"text": "first"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Note created successfully", env.Message)
	var first note
	env.DecodeData(t, &first)

	testutil.Do(t, router, http.MethodPost, "/notes", admin, map[string]string{"text": "second"})

	w, env = testutil.Do(t, router, http.MethodGet, "/notes", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)
	var all []note
	env.DecodeData(t, &all)
	assert.Equal(t, "second", all[0].Text, "newest first")

	w, env = testutil.Do(t, router, http.MethodGet, "/notes/mine", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *env.Count)

	w, env = testutil.Do(t, router, http.MethodPut, "/notes/"+first.ID, admin, map[string]string{"text": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Note updated successfully", env.Message)

	w, _ = testutil.Do(t, router, http.MethodDelete, "/notes/"+first.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = testutil.Do(t, router, http.MethodGet, "/notes/"+first.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Note not found", env.Message)
}

func TestHandlerEmptyList(t *testing.T) {
	router, _, admin, _ := newNoteRouter(t)

	w, env := testutil.Do(t, router, http.MethodGet, "/notes", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", string(env.Data))
	assert.Equal(t, 0, *env.Count)
}

func TestHandlerErrors(t *testing.T) {
	router, store, admin, student := newNoteRouter(t)
	testutil.Do(t, router, http.MethodPost, "/notes", student, map[string]string{"text": "taken"})

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{"no token", http.MethodPost, "/notes", "", map[string]string{"text": "hello"}, http.StatusUnauthorized, ""},
		{"wrong role", http.MethodGet, "/notes", student, nil, http.StatusForbidden, ""},
		{"validation", http.MethodPost, "/notes", student, map[string]string{"text": "x"}, http.StatusBadRequest, "text must be at least 3 characters"},
		{"conflict", http.MethodPost, "/notes", student, map[string]string{"text": "taken"}, http.StatusBadRequest, "note already exists"},
		{"malformed id", http.MethodGet, "/notes/42", admin, nil, http.StatusNotFound, ""},
		{"unknown id", http.MethodPut, "/notes/" + uuid.New().String(), admin, map[string]string{"text": "hello"}, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := testutil.Do(t, router, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, env.Success)
			if tt.wantError != "" {
				assert.Equal(t, []string{tt.wantError}, env.Errors)
			}
		})
	}

	t.Run("store failure", func(t *testing.T) {
		store.err = errors.New("disk on fire")
		defer func() { store.err = nil }()

		w, env := testutil.Do(t, router, http.MethodGet, "/notes", admin, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, env.Message, "disk on fire")
	})
}
