package common

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	InternalServerLatency string `json:"internal_server_latency"`
	Uptime                string `json:"uptime"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Pinger is anything that /health can ping, normally the database
type Pinger func(ctx context.Context) error

// Uptime Logic
var startTime time.Time

func uptime() time.Duration {
	return time.Since(startTime)
}

func init() {
	startTime = time.Now()
}

// Ping Logic
func ping() time.Duration {
	start := time.Now()
	duration := time.Since(start)
	return duration
}

// GET /api/status
func Status(c *gin.Context) {
	data := StatusResponse{
		InternalServerLatency: ping().String(),
		Uptime:                uptime().Truncate(time.Second).String(),
	}
	OK(c, data)
}

// Health reports 503 when the database cannot be reached
// GET /api/health
func Health(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger == nil {
			OK(c, HealthResponse{Status: "ok", Database: "unknown"})
			return
		}
		if err := pinger(c.Request.Context()); err != nil {
			resp := CreateFailureResponse("database unavailable")
			resp.Data = HealthResponse{Status: "degraded", Database: "down"}
			JSON(c, http.StatusServiceUnavailable, resp)
			return
		}
		OK(c, HealthResponse{Status: "ok", Database: "up"})
	}
}

// RegisterRoutes mounts the global endpoints
func RegisterRoutes(rg *gin.RouterGroup, pinger Pinger) {
	rg.GET("/status", Status)
	rg.GET("/health", Health(pinger))
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
