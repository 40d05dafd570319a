package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.List()
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if tables == nil {
		tables = []TableMeta{}
	}
	render.JSON(w, r, map[string]any{"reports": tables, "count": len(tables)})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	limit := queryInt(r, "limit", 0)

	t, err := s.store.Load(name, limit)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, t)
}

// handleSummary aggregates the run-level roll-ups into one payload.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]any, 3)
	for key, table := range map[string]string{
		"behavior":     "behavior_summary",
		"transactions": "transaction_stats",
		"quality":      "quality_report",
	} {
		t, err := s.store.Load(table, 0)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		out[key] = t.KeyValues()
	}
	render.JSON(w, r, out)
}

func (s *Server) handleTemporal(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]any, 5)
	for key, table := range map[string]string{
		"daily":       "daily_sales",
		"weekly":      "weekly_sales",
		"monthly":     "monthly_sales",
		"day_of_week": "day_of_week_sales",
		"hourly":      "hourly_sales",
	} {
		t, err := s.store.Load(table, 0)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		out[key] = t.Objects()
	}
	render.JSON(w, r, out)
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)

	segments, err := s.store.Load("customer_segments", limit)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	distribution, err := s.store.Load("segment_distribution", 0)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	bands, err := s.store.Load("purchase_bands", 0)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"segments":     segments.Objects(),
		"distribution": distribution.Objects(),
		"bands":        bands.Objects(),
	})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	top, err := s.store.Load("product_frequency", limit)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	rules, err := s.store.Load("association_rules", limit)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	pairs, err := s.store.Load("co_occurrence", limit)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"top_products":  top.Objects(),
		"rules":         rules.Objects(),
		"co_occurrence": pairs.Objects(),
	})
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "artifact not found"})
		return
	}
	s.log.Error("request failed", "path", r.URL.Path, "error", err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]string{"error": "internal error"})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
