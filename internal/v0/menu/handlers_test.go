package menu

import (
	"net/http"
	"testing"
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/testutil"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday
var fixedNow = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.Local)

type fixture struct {
	router *gin.Engine
	admin  string
	adminU *auth.User
	user   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	a := testutil.NewAuth(t, db)

	h := NewHandler(NewRepository(db, a.Repo), 1)
	h.now = func() time.Time { return fixedNow }

	router := gin.New()
	RegisterRoutes(router.Group("/api/v0"), h, a.Middleware, nil)

	adminUser, adminToken := a.CreateUser(t, auth.RoleAdmin)
	_, studentToken := a.CreateUser(t, auth.RoleStudent)
	return &fixture{router: router, admin: adminToken, adminU: adminUser, user: studentToken}
}

func (f *fixture) create(t *testing.T, body map[string]interface{}) Menu {
	t.Helper()
	w, env := testutil.Do(t, f.router, http.MethodPost, "/api/v0/menu", f.admin, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m Menu
	env.DecodeData(t, &m)
	return m
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	w, env := testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu", f.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Count)
	return *env.Count
}

func TestCreateMenu(t *testing.T) {
	f := newFixture(t)

	w, env := testutil.Do(t, f.router, http.MethodPost, "/api/v0/menu", f.admin, map[string]interface{}{
		"day":      "monday",
		"mealType": "lunch",
		"items":    []string{"rice", "daal"},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Menu created successfully", env.Message)

	var m Menu
	env.DecodeData(t, &m)
	assert.Equal(t, Monday, m.Day)
	assert.Equal(t, Lunch, m.MealType)
	assert.Equal(t, Items{"rice", "daal"}, m.Items)
	assert.Equal(t, 1, m.WeekNumber)
	assert.True(t, m.IsActive)
	require.NotNil(t, m.CreatedBy)
	assert.Equal(t, f.adminU.Email, m.CreatedBy.Email)
}

func TestMenuRoundTrip(t *testing.T) {
	f := newFixture(t)

	specials := []SpecialItem{
		{Name: " Gulab jamun", Description: "Two pieces, served warm ", IsVegetarian: true, Image: "https://cdn.hostel.test/gulab.jpg"},
		{Name: "Chicken 65", IsVegetarian: false},
	}
	w, env := testutil.Do(t, f.router, http.MethodPost, "/api/v0/menu", f.admin, map[string]interface{}{
		"day":          "sunday",
		"mealType":     "dinner",
		"items":        []string{" rice ", "daal", "jeera  aloo"},
		"specialItems": specials,
		"weekNumber":   7,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Menu
	env.DecodeData(t, &created)

	w, env = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/"+created.ID, f.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched Menu
	env.DecodeData(t, &fetched)

	assert.Equal(t, Items{" rice ", "daal", "jeera  aloo"}, fetched.Items)
	assert.Equal(t, SpecialItems(specials), fetched.SpecialItems)
	assert.Equal(t, 7, fetched.WeekNumber)
	assert.Equal(t, created.Items, fetched.Items)
	assert.Equal(t, created.SpecialItems, fetched.SpecialItems)
}

func TestCreateMenuRejectsUnknownMealType(t *testing.T) {
	f := newFixture(t)

	w, env := testutil.Do(t, f.router, http.MethodPost, "/api/v0/menu", f.admin, map[string]interface{}{
		"day":      "monday",
		"mealType": "brunch",
		"items":    []string{"toast"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	require.NotEmpty(t, env.Errors)
	assert.Contains(t, env.Errors[0], "mealType")
	assert.Equal(t, 0, f.count(t))
}

func TestCreateMenuValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		body      interface{}
		wantError string
	}{
		{"missing day", map[string]interface{}{"mealType": "lunch"}, "day is required"},
		{"week out of range", map[string]interface{}{"day": "monday", "mealType": "lunch", "weekNumber": 53}, "weekNumber"},
		{"blank item", map[string]interface{}{"day": "monday", "mealType": "lunch", "items": []string{""}}, "items[0]"},
		{"whitespace item", map[string]interface{}{"day": "monday", "mealType": "lunch", "items": []string{"rice", "   "}}, "items[1] cannot be blank"},
		{"special without name", map[string]interface{}{
			"day": "monday", "mealType": "lunch",
			"specialItems": []map[string]interface{}{{"description": "sweet"}},
		}, "specialItems[0].name"},
		{"empty body", "", "request body is required"},
		{"malformed body", "{", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := testutil.Do(t, f.router, http.MethodPost, "/api/v0/menu", f.admin, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			if tt.wantError != "" {
				require.NotEmpty(t, env.Errors)
				assert.Contains(t, env.Errors[0], tt.wantError)
			}
		})
	}

	assert.Equal(t, 0, f.count(t))
}

func TestCreateMenuDuplicateTriple(t *testing.T) {
	f := newFixture(t)
	body := map[string]interface{}{"day": "friday", "mealType": "dinner", "items": []string{"pasta"}}
	f.create(t, body)

	w, env := testutil.Do(t, f.router, http.MethodPost, "/api/v0/menu", f.admin, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "a dinner menu for friday in week 1 already exists", env.Errors[0])
	assert.Equal(t, 1, f.count(t))
}

func TestMenuAdminRoutesRequireAdmin(t *testing.T) {
	f := newFixture(t)
	body := map[string]interface{}{"day": "monday", "mealType": "lunch"}

	w, _ := testutil.Do(t, f.router, http.MethodPost, "/api/v0/menu", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = testutil.Do(t, f.router, http.MethodPost, "/api/v0/menu", f.user, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu", f.user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Equal(t, 0, f.count(t))
}

func TestGetMenu(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, map[string]interface{}{"day": "sunday", "mealType": "breakfast", "items": []string{"idli"}})

	w, env := testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/"+created.ID, f.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var m Menu
	env.DecodeData(t, &m)
	assert.Equal(t, created.ID, m.ID)
	require.NotNil(t, m.CreatedBy)
	assert.Equal(t, f.adminU.ID, m.CreatedBy.ID)
	assert.Equal(t, f.adminU.Name, m.CreatedBy.Name)
}

func TestUpdateMenu(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, map[string]interface{}{"day": "sunday", "mealType": "breakfast", "items": []string{"idli"}})
	path := "/api/v0/menu/" + created.ID

	w, env := testutil.Do(t, f.router, http.MethodPut, path, f.admin, map[string]interface{}{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var m Menu
	env.DecodeData(t, &m)
	assert.False(t, m.IsActive)
	assert.Equal(t, Items{"idli"}, m.Items)
	require.NotNil(t, m.UpdatedBy)
	assert.Equal(t, f.adminU.ID, m.UpdatedBy.ID)

	w, env = testutil.Do(t, f.router, http.MethodPut, path, f.admin, map[string]interface{}{"mealType": "brunch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors[0], "mealType")

	w, _ = testutil.Do(t, f.router, http.MethodPut, "/api/v0/menu/"+uuid.New().String(), f.admin, map[string]interface{}{"isActive": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateMenuIntoExistingSlot(t *testing.T) {
	f := newFixture(t)
	f.create(t, map[string]interface{}{"day": "monday", "mealType": "lunch"})
	other := f.create(t, map[string]interface{}{"day": "monday", "mealType": "dinner"})

	w, env := testutil.Do(t, f.router, http.MethodPut, "/api/v0/menu/"+other.ID, f.admin, map[string]interface{}{"mealType": "lunch"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"a lunch menu for monday in week 1 already exists"}, env.Errors)
}

func TestDeleteMenu(t *testing.T) {
	f := newFixture(t)

	t.Run("fabricated id", func(t *testing.T) {
		id := uuid.New().String()
		w, env := testutil.Do(t, f.router, http.MethodDelete, "/api/v0/menu/"+id, f.admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "Menu not found", env.Message)

		w, env = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/"+id, f.admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("malformed id", func(t *testing.T) {
		w, _ := testutil.Do(t, f.router, http.MethodDelete, "/api/v0/menu/not-an-id", f.admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("existing record", func(t *testing.T) {
		created := f.create(t, map[string]interface{}{"day": "monday", "mealType": "lunch"})
		w, env := testutil.Do(t, f.router, http.MethodDelete, "/api/v0/menu/"+created.ID, f.admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Menu deleted successfully", env.Message)

		w, _ = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/"+created.ID, f.admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWeekly(t *testing.T) {
	f := newFixture(t)
	f.create(t, map[string]interface{}{"day": "monday", "mealType": "lunch", "items": []string{"rice"}})
	f.create(t, map[string]interface{}{"day": "friday", "mealType": "dinner", "items": []string{"pasta"}})
	f.create(t, map[string]interface{}{"day": "saturday", "mealType": "lunch", "isActive": false})
	f.create(t, map[string]interface{}{"day": "monday", "mealType": "dinner", "weekNumber": 2})

	w, env := testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/weekly", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var week []DayMenus
	env.DecodeData(t, &week)
	require.Len(t, week, 2)

	var window struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}
	require.NoError(t, json.Unmarshal(env.WeekRange, &window))
	start, end := WeekRange(fixedNow)
	assert.True(t, window.Start.Equal(start))
	assert.True(t, window.End.Equal(end))

	for _, d := range week {
		date, err := time.ParseInLocation(DateLayout, d.Date, time.Local)
		require.NoError(t, err)
		assert.False(t, date.Before(start), d.Date)
		assert.False(t, date.After(end), d.Date)
		for _, m := range d.Meals {
			assert.True(t, m.IsActive)
			assert.Equal(t, 1, m.WeekNumber)
		}
	}
	assert.Equal(t, Monday, week[0].Day)
	assert.Equal(t, "2025-06-09", week[0].Date)
	assert.Equal(t, Friday, week[1].Day)

	w, env = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/weekly?weekNumber=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env.DecodeData(t, &week)
	require.Len(t, week, 1)
	assert.Equal(t, Dinner, week[0].Meals[0].MealType)

	w, _ = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/weekly?weekNumber=60", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDaily(t *testing.T) {
	f := newFixture(t)

	w, env := testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/daily?date=2025-01-01", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "No menu found for 2025-01-01", env.Message)

	f.create(t, map[string]interface{}{"day": "wednesday", "mealType": "breakfast", "items": []string{"poha"}})
	f.create(t, map[string]interface{}{"day": "wednesday", "mealType": "dinner", "items": []string{"roti"}})

	w, env = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/daily?date=2025-06-11", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var daily DailyMenu
	env.DecodeData(t, &daily)
	assert.Equal(t, Wednesday, daily.Day)
	require.NotNil(t, daily.Breakfast)
	assert.Equal(t, Items{"poha"}, daily.Breakfast.Items)
	assert.Nil(t, daily.Lunch)
	assert.NotNil(t, daily.Dinner)

	w, _ = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/daily?date=11-06-2025", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/daily", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "nothing is served on tuesday")
}

func TestSpecials(t *testing.T) {
	f := newFixture(t)

	w, env := testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/specials", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var specials Specials
	env.DecodeData(t, &specials)
	assert.NotNil(t, specials.Items)
	assert.Empty(t, specials.Items)
	assert.NotNil(t, specials.SpecialOffers)
	assert.Empty(t, specials.SpecialOffers)

	f.create(t, map[string]interface{}{"day": "tuesday", "mealType": "breakfast", "items": []string{"dosa"}})
	f.create(t, map[string]interface{}{
		"day": "tuesday", "mealType": "dinner", "items": []string{"rice"},
		"specialItems": []map[string]interface{}{{"name": "Paneer tikka", "isVegetarian": true}},
	})

	w, env = testutil.Do(t, f.router, http.MethodGet, "/api/v0/menu/specials", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env.DecodeData(t, &specials)
	require.Len(t, specials.Items, 1)
	require.Len(t, specials.SpecialOffers, 1)
	assert.Equal(t, "Paneer tikka", specials.SpecialOffers[0].Name)
	assert.True(t, specials.SpecialOffers[0].IsVegetarian)
	assert.Equal(t, Dinner, specials.SpecialOffers[0].MealType)
}
