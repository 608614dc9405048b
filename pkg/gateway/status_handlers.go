package gateway

import (
	"net/http"
	"time"
)

// healthResponse is the JSON structure used by healthHandler
type healthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

func (g *Gateway) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		StartedAt: g.startedAt,
		Uptime:    time.Since(g.startedAt).String(),
	})
}

// statusHandler aggregates server uptime and dependency health
func (g *Gateway) statusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbStatus := "disabled"
	if g.db != nil {
		dbStatus = "ok"
		if err := g.db.PingContext(ctx); err != nil {
			dbStatus = "unreachable"
		}
	}

	cacheStatus := "disabled"
	if g.rdb != nil {
		cacheStatus = "ok"
		if err := g.rdb.Ping(ctx).Err(); err != nil {
			cacheStatus = "unreachable"
		}
	}

	resp := struct {
		Status    string    `json:"status"`
		StartedAt time.Time `json:"started_at"`
		Uptime    string    `json:"uptime"`
		Database  string    `json:"database"`
		Cache     string    `json:"cache"`
	}{
		Status:    "ok",
		StartedAt: g.startedAt,
		Uptime:    time.Since(g.startedAt).String(),
		Database:  dbStatus,
		Cache:     cacheStatus,
	}
	if dbStatus == "unreachable" {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}
