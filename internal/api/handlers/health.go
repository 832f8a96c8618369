package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger is what the health check needs from the store connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		checks["store"] = "unhealthy: " + err.Error()
	} else {
		checks["store"] = "healthy"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if checks["store"] != "healthy" {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, struct {
		Status    string            `json:"status"`
		Timestamp int64             `json:"timestamp"`
		Checks    map[string]string `json:"checks"`
	}{
		Status:    status,
		Timestamp: time.Now().Unix(),
		Checks:    checks,
	})
}

func Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Org Management API",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": map[string]string{
			"create": "POST /api/v1/orgs",
			"get":    "GET /api/v1/orgs",
			"update": "PUT /api/v1/orgs",
			"delete": "DELETE /api/v1/orgs",
			"login":  "POST /api/v1/auth/login",
		},
	})
}
