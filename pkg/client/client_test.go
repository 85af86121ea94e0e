package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/testutil"
	"HostelAPI/internal/v0/complaints"
	"HostelAPI/internal/v0/lostfound"
	"HostelAPI/internal/v0/menu"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	url  string
	auth *testutil.Auth
	hits atomic.Int64
}

func newServer(t *testing.T) *server {
	t.Helper()

	db := testutil.NewDB(t)
	a := testutil.NewAuth(t, db)
	s := &server{auth: a}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		s.hits.Add(1)
		c.Next()
	})
	api := router.Group("/api")
	auth.RegisterRoutes(api,
		auth.NewHandler(a.Repo, &auth.OAuthConfig{}, auth.NewOAuthStateStore(a.Repo), a.Tokens, false),
		auth.NewAdminHandler(a.Repo), a.Middleware, nil)

	v0 := api.Group("/v0")
	menu.RegisterRoutes(v0, menu.NewHandler(menu.NewRepository(db, a.Repo), 1), a.Middleware, nil)
	complaints.RegisterRoutes(v0, complaints.NewHandler(complaints.NewRepository(db, a.Repo)), a.Middleware, nil)
	lostfound.RegisterRoutes(v0, lostfound.NewHandler(lostfound.NewRepository(db, a.Repo), t.TempDir(), 1<<20), a.Middleware, nil)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	s.url = ts.URL + "/api"
	return s
}

// signIn returns a client whose session carries a fresh user of role
func (s *server) signIn(t *testing.T, role auth.Role) *Client {
	t.Helper()
	user, token := s.auth.CreateUser(t, role)
	session := NewSession(16)
	require.NoError(t, session.Set(&auth.TokenPair{AccessToken: token, User: user}))
	return New(Config{BaseURL: s.url}, session)
}

func validComplaint() complaints.CreateComplaintRequest {
	return complaints.CreateComplaintRequest{
		Title:       "Broken window",
		Description: "The window latch in my room is broken.",
		Category:    complaints.CategoryMaintenance,
		RoomNumber:  "A-101",
	}
}

func TestAuthLifecycle(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	session, err := LoadSession(path)
	require.NoError(t, err)
	assert.False(t, session.SignedIn())

	c := New(Config{BaseURL: s.url}, session)
	user, err := c.Auth().Register(ctx, auth.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "asha@hostel.test",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleStudent, user.Role)
	assert.True(t, session.SignedIn())
	assert.NotEmpty(t, session.RefreshToken())

	restored, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, session.AccessToken(), restored.AccessToken())
	assert.Equal(t, "asha@hostel.test", restored.User().Email)

	me, err := New(Config{BaseURL: s.url}, restored).Auth().Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	require.NoError(t, c.Auth().Refresh(ctx))
	assert.True(t, session.SignedIn())

	require.NoError(t, c.Auth().Logout(ctx))
	assert.False(t, session.SignedIn())

	cleared, err := LoadSession(path)
	require.NoError(t, err)
	assert.False(t, cleared.SignedIn())

	_, err = c.Auth().Me(ctx)
	require.Error(t, err)
	assert.True(t, AsError(err).Unauthenticated())
}

func TestLoginWithWrongPassword(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	c := New(Config{BaseURL: s.url}, NewSession(0))
	_, err := c.Auth().Register(ctx, auth.RegisterRequest{Name: "Ravi", Email: "ravi@hostel.test", Password: "long-enough"})
	require.NoError(t, err)

	other := New(Config{BaseURL: s.url}, NewSession(0))
	_, err = other.Auth().Login(ctx, auth.LoginRequest{Email: "ravi@hostel.test", Password: "wrong-password"})
	require.Error(t, err)
	apiErr := AsError(err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
	assert.False(t, other.Session().SignedIn())
}

func TestResourceRoundTrip(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	student := s.signIn(t, auth.RoleStudent)
	admin := s.signIn(t, auth.RoleAdmin)

	created, err := student.Complaints().Create(ctx, validComplaint())
	require.NoError(t, err)
	assert.Equal(t, complaints.StatusPending, created.Status)

	mine, err := student.Complaints().Mine(ctx, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = student.Complaints().Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, AsError(err).Forbidden())

	status := complaints.StatusResolved
	updated, err := admin.Complaints().Update(ctx, created.ID, complaints.UpdateComplaintRequest{Status: &status})
	require.NoError(t, err)
	assert.NotNil(t, updated.ResolvedAt)

	resolved, err := admin.Complaints().List(ctx, string(complaints.StatusResolved))
	require.NoError(t, err)
	assert.Len(t, resolved, 1)

	require.NoError(t, admin.Complaints().Delete(ctx, created.ID))
	_, err = admin.Complaints().Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, AsError(err).NotFound())
}

func TestValidationErrorsAreNormalised(t *testing.T) {
	s := newServer(t)
	student := s.signIn(t, auth.RoleStudent)

	in := validComplaint()
	in.Category = "noise"
	_, err := student.Complaints().Create(context.Background(), in)

	require.Error(t, err)
	apiErr := AsError(err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Validation failed", apiErr.Message)
	require.Len(t, apiErr.Errors, 1)
	assert.Contains(t, apiErr.Errors[0], "category")
}

func TestMenuViews(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	admin := s.signIn(t, auth.RoleAdmin)
	public := New(Config{BaseURL: s.url}, nil)

	today := menu.DayOf(time.Now())
	_, err := admin.Menus().Create(ctx, menu.CreateMenuRequest{
		Day:      today,
		MealType: menu.Lunch,
		Items:    []string{"rice", "daal"},
	})
	require.NoError(t, err)

	days, week, err := public.Menus().Weekly(ctx, 0)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, today, days[0].Day)
	require.NotNil(t, week)
	assert.Equal(t, time.Sunday, week.Start.Weekday())

	daily, err := public.Menus().Daily(ctx, time.Time{})
	require.NoError(t, err)
	require.NotNil(t, daily.Lunch)
	assert.Nil(t, daily.Breakfast)

	_, err = public.Menus().Daily(ctx, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local))
	if today != menu.Wednesday {
		require.Error(t, err)
		assert.True(t, AsError(err).NotFound())
	}

	specials, err := public.Menus().Specials(ctx)
	require.NoError(t, err)
	assert.Empty(t, specials.Items)
	assert.NotNil(t, specials.SpecialOffers)
}

func TestGetCacheIsReadThroughAndSessionScoped(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	student := s.signIn(t, auth.RoleStudent)

	_, err := student.Complaints().Mine(ctx, "")
	require.NoError(t, err)
	before := s.hits.Load()

	_, err = student.Complaints().Mine(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, before, s.hits.Load(), "second read is served from the cache")

	_, err = student.Complaints().Create(ctx, validComplaint())
	require.NoError(t, err)

	mine, err := student.Complaints().Mine(ctx, "")
	require.NoError(t, err)
	assert.Len(t, mine, 1, "writes invalidate cached reads")
	assert.Equal(t, before+2, s.hits.Load())

	uncached := New(Config{BaseURL: s.url, NoCache: true}, student.Session())
	_, err = uncached.Complaints().Mine(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, before+3, s.hits.Load())

	require.NoError(t, student.Session().Clear())
	_, err = student.Complaints().Mine(ctx, "")
	require.Error(t, err)
	assert.True(t, AsError(err).Unauthenticated())
}

func TestUploadImage(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	student := s.signIn(t, auth.RoleStudent)

	item, err := student.LostFound().Create(ctx, lostfound.CreateItemRequest{
		ItemName:    "Water bottle",
		Type:        lostfound.TypeFound,
		Location:    "Library",
		Date:        time.Now(),
		ContactInfo: "9876543210",
	})
	require.NoError(t, err)

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	updated, err := student.LostFound().UploadImage(ctx, item.ID, "bottle.gif", bytes.NewReader(gif))
	require.NoError(t, err)
	assert.Contains(t, updated.Image, lostfound.ImagePrefix)
	assert.Contains(t, updated.Image, ".gif")
}
