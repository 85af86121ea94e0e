package common

import (
	"net/http"
	"sync/atomic"
	"time"

	"HostelAPI/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Structs for the API response format

type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	RequestID string    `json:"requestId"`
}

// APIResponse is the envelope every endpoint answers with.
// Data is omitted only when nil, so an empty list still serialises as [].
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Count     *int        `json:"count,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	WeekRange interface{} `json:"weekRange,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
	Metadata  Metadata    `json:"metadata"`
}

const (
	APIVersion = "v0"

	MessageValidationFailed = "Validation failed"
	MessageInternalError    = "internal server error"
)

var exposeErrors atomic.Bool

// SetExposeErrors controls whether 500 responses carry the underlying error text.
// Only development deployments turn it on.
func SetExposeErrors(expose bool) {
	exposeErrors.Store(expose)
}

// Response functions

func CreateAPIResponse(success bool, message string, data interface{}, errors []string, requestID string) APIResponse {
	// If the requestID is blank and not cascading from other functions generate a new one
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return APIResponse{
		Success: success,
		Message: message,
		Data:    data,
		Errors:  errors,
		Metadata: Metadata{
			Timestamp: time.Now().UTC(),
			Version:   APIVersion,
			RequestID: requestID,
		},
	}
}

func CreateSuccessResponse(data interface{}) APIResponse {
	return CreateAPIResponse(true, "", data, nil, "")
}

func CreateMessageResponse(message string, data interface{}) APIResponse {
	return CreateAPIResponse(true, message, data, nil, "")
}

func CreateListResponse(data interface{}, count int) APIResponse {
	resp := CreateAPIResponse(true, "", data, nil, "")
	resp.Count = &count
	return resp
}

func CreateErrorResponse(errors []string) APIResponse {
	return CreateAPIResponse(false, MessageValidationFailed, nil, errors, "")
}

func CreateFailureResponse(message string) APIResponse {
	return CreateAPIResponse(false, message, nil, nil, "")
}

// Gin helpers. They stamp the request id set by the request-id middleware.

func requestID(c *gin.Context) string {
	return c.GetString(logging.RequestIDKey)
}

func write(c *gin.Context, status int, resp APIResponse) {
	if id := requestID(c); id != "" {
		resp.Metadata.RequestID = id
	}
	c.JSON(status, resp)
}

func abort(c *gin.Context, status int, resp APIResponse) {
	if id := requestID(c); id != "" {
		resp.Metadata.RequestID = id
	}
	c.AbortWithStatusJSON(status, resp)
}

func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, CreateSuccessResponse(data))
}

func OKWithMessage(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, CreateMessageResponse(message, data))
}

func Created(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusCreated, CreateMessageResponse(message, data))
}

func List(c *gin.Context, data interface{}, count int) {
	write(c, http.StatusOK, CreateListResponse(data, count))
}

// JSON writes a prepared envelope, for endpoints with extra top-level fields
func JSON(c *gin.Context, status int, resp APIResponse) {
	write(c, status, resp)
}

func ValidationFailed(c *gin.Context, messages []string) {
	write(c, http.StatusBadRequest, CreateErrorResponse(messages))
}

func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, CreateFailureResponse(message))
}

func NotFound(c *gin.Context, message string) {
	write(c, http.StatusNotFound, CreateFailureResponse(message))
}

func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, CreateFailureResponse(message))
}

func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, CreateFailureResponse(message))
}

func TooManyRequests(c *gin.Context, message string) {
	abort(c, http.StatusTooManyRequests, CreateFailureResponse(message))
}

// ServerError logs err in full and answers with a generic message
func ServerError(c *gin.Context, err error) {
	logging.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("request_id", requestID(c)).
		Msg("request failed")

	resp := CreateFailureResponse(MessageInternalError)
	if exposeErrors.Load() && err != nil {
		resp.Errors = []string{err.Error()}
	}
	abort(c, http.StatusInternalServerError, resp)
}

/*
This project is the backend API for the hostel management system: mess menus, room bookings, complaints, lost and found and counseling appointments.
Hostel API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
