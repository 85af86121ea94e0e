package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/v0/bookings"
	"HostelAPI/internal/v0/complaints"
	"HostelAPI/internal/v0/counseling"
	"HostelAPI/internal/v0/lostfound"
	"HostelAPI/internal/v0/menu"
)

const versionPrefix = "/v0"

// Resource wraps the six standard routes of one collection
type Resource[T any, C any, P any] struct {
	c    *Client
	path string
}

func newResource[T any, C any, P any](c *Client, path string) *Resource[T, C, P] {
	return &Resource[T, C, P]{c: c, path: versionPrefix + path}
}

// List returns every record. status may be empty.
func (r *Resource[T, C, P]) List(ctx context.Context, status string) ([]T, error) {
	return r.list(ctx, r.path, status)
}

// Mine returns the signed-in user's records
func (r *Resource[T, C, P]) Mine(ctx context.Context, status string) ([]T, error) {
	return r.list(ctx, r.path+"/mine", status)
}

func (r *Resource[T, C, P]) list(ctx context.Context, path, status string) ([]T, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	env, err := r.c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return decodeData[[]T](env)
}

func (r *Resource[T, C, P]) Get(ctx context.Context, id string) (*T, error) {
	env, err := r.c.get(ctx, r.path+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*T](env)
}

func (r *Resource[T, C, P]) Create(ctx context.Context, in C) (*T, error) {
	env, err := r.c.mutate(ctx, http.MethodPost, r.path, in)
	if err != nil {
		return nil, err
	}
	return decodeData[*T](env)
}

func (r *Resource[T, C, P]) Update(ctx context.Context, id string, in P) (*T, error) {
	env, err := r.c.mutate(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), in)
	if err != nil {
		return nil, err
	}
	return decodeData[*T](env)
}

func (r *Resource[T, C, P]) Delete(ctx context.Context, id string) error {
	_, err := r.c.mutate(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil)
	return err
}

// MenuClient adds the public menu views
type MenuClient struct {
	*Resource[menu.Menu, menu.CreateMenuRequest, menu.UpdateMenuRequest]
}

func (c *Client) Menus() *MenuClient {
	return &MenuClient{newResource[menu.Menu, menu.CreateMenuRequest, menu.UpdateMenuRequest](c, "/menu")}
}

// Weekly returns the week grouped by day. weekNumber 0 means the current rotation week.
func (m *MenuClient) Weekly(ctx context.Context, weekNumber int) ([]menu.DayMenus, *menu.WeekRangeDTO, error) {
	var query url.Values
	if weekNumber > 0 {
		query = url.Values{"weekNumber": {fmt.Sprint(weekNumber)}}
	}
	env, err := m.c.get(ctx, m.path+"/weekly", query)
	if err != nil {
		return nil, nil, err
	}
	days, err := decodeData[[]menu.DayMenus](env)
	if err != nil {
		return nil, nil, err
	}
	week, err := decodeData[*menu.WeekRangeDTO](&envelope{Data: env.WeekRange})
	if err != nil {
		return nil, nil, err
	}
	return days, week, nil
}

// Daily returns the meals of date. The zero time means today.
func (m *MenuClient) Daily(ctx context.Context, date time.Time) (*menu.DailyMenu, error) {
	var query url.Values
	if !date.IsZero() {
		query = url.Values{"date": {date.Format(menu.DateLayout)}}
	}
	env, err := m.c.get(ctx, m.path+"/daily", query)
	if err != nil {
		return nil, err
	}
	return decodeData[*menu.DailyMenu](env)
}

func (m *MenuClient) Specials(ctx context.Context) (*menu.Specials, error) {
	env, err := m.c.get(ctx, m.path+"/specials", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*menu.Specials](env)
}

func (c *Client) Bookings() *Resource[bookings.Booking, bookings.CreateBookingRequest, bookings.UpdateBookingRequest] {
	return newResource[bookings.Booking, bookings.CreateBookingRequest, bookings.UpdateBookingRequest](c, "/bookings")
}

func (c *Client) Complaints() *Resource[complaints.Complaint, complaints.CreateComplaintRequest, complaints.UpdateComplaintRequest] {
	return newResource[complaints.Complaint, complaints.CreateComplaintRequest, complaints.UpdateComplaintRequest](c, "/complaints")
}

func (c *Client) Counseling() *Resource[counseling.Appointment, counseling.CreateAppointmentRequest, counseling.UpdateAppointmentRequest] {
	return newResource[counseling.Appointment, counseling.CreateAppointmentRequest, counseling.UpdateAppointmentRequest](c, "/counseling")
}

// LostFoundClient adds photo uploads
type LostFoundClient struct {
	*Resource[lostfound.Item, lostfound.CreateItemRequest, lostfound.UpdateItemRequest]
}

func (c *Client) LostFound() *LostFoundClient {
	return &LostFoundClient{newResource[lostfound.Item, lostfound.CreateItemRequest, lostfound.UpdateItemRequest](c, "/lostfound")}
}

// UploadImage attaches the photo read from image to item id
func (l *LostFoundClient) UploadImage(ctx context.Context, id, filename string, image io.Reader) (*lostfound.Item, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	env, err := l.c.write(ctx, http.MethodPost, l.path+"/"+url.PathEscape(id)+"/image", &body, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return decodeData[*lostfound.Item](env)
}

// AuthClient signs users in and out, keeping the Session current
type AuthClient struct {
	c *Client
}

func (c *Client) Auth() *AuthClient {
	return &AuthClient{c: c}
}

func (a *AuthClient) Register(ctx context.Context, in auth.RegisterRequest) (*auth.User, error) {
	return a.signIn(ctx, "/auth/register", in)
}

func (a *AuthClient) Login(ctx context.Context, in auth.LoginRequest) (*auth.User, error) {
	return a.signIn(ctx, "/auth/login", in)
}

// Refresh trades the session's refresh token for a new access token
func (a *AuthClient) Refresh(ctx context.Context) error {
	_, err := a.signIn(ctx, "/auth/refresh", auth.RefreshRequest{RefreshToken: a.c.session.RefreshToken()})
	return err
}

func (a *AuthClient) signIn(ctx context.Context, path string, in interface{}) (*auth.User, error) {
	env, err := a.c.mutate(ctx, http.MethodPost, path, in)
	if err != nil {
		return nil, err
	}
	pair, err := decodeData[*auth.TokenPair](env)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, &Error{Message: "response carried no tokens"}
	}
	if err := a.c.session.Set(pair); err != nil {
		return nil, err
	}
	return pair.User, nil
}

// Logout revokes the refresh token and always clears the session
func (a *AuthClient) Logout(ctx context.Context) error {
	var err error
	if refresh := a.c.session.RefreshToken(); refresh != "" && a.c.session.SignedIn() {
		_, err = a.c.mutate(ctx, http.MethodPost, "/auth/logout", auth.RefreshRequest{RefreshToken: refresh})
	}
	if clearErr := a.c.session.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (a *AuthClient) Me(ctx context.Context) (*auth.User, error) {
	env, err := a.c.get(ctx, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*auth.User](env)
}
