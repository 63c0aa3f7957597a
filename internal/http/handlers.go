package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"bilancio/internal/analytics"
	"bilancio/internal/core"
	"bilancio/internal/report"
)

// parseYearMonth extracts year and month query parameters. Year
// defaults to the current year, month to 0, which selects the whole
// year.
func parseYearMonth(r *http.Request) (year, month int, err error) {
	year = time.Now().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
	}

	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", v)
		}
	}
	return year, month, nil
}

func ownerParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("owner"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.reports.Years(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": years})
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeBadRequest(w, "invalid year")
		return
	}

	months, err := s.reports.Months(r.Context(), year, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "months": months})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if month == 0 {
		month = int(time.Now().Month())
	}

	stats, err := s.reports.Monthly(r.Context(), year, month, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleYearly(w http.ResponseWriter, r *http.Request) {
	year, _, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	stats, err := s.reports.Yearly(r.Context(), year, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCategoryYearly(w http.ResponseWriter, r *http.Request) {
	year, _, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	stats, err := s.reports.CategoryYearly(r.Context(), year, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": stats})
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	progress, err := s.reports.BudgetProgress(r.Context(), year, month, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleFlowGraph(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	graph, err := s.reports.FlowGraph(r.Context(), year, month, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graph)
}

func (s *Server) handlePareto(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := s.reports.Pareto(r.Context(), year, month, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pareto": result,
		"colors": colorMap(result.Categories),
	})
}

func (s *Server) handleQuadrant(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	points, err := s.reports.Quadrant(r.Context(), year, month, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

func (s *Server) handleThemeRiver(w http.ResponseWriter, r *http.Request) {
	year, _, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	points, err := s.reports.ThemeRiver(r.Context(), year, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	categories := orderedCategories(points)
	writeJSON(w, http.StatusOK, map[string]any{
		"points": points,
		"colors": colorMap(categories),
	})
}

func (s *Server) handleFunnel(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	buckets, err := s.reports.Funnel(r.Context(), year, month, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buckets": buckets})
}

func (s *Server) handleWordCloud(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	weights, err := s.reports.WordWeights(r.Context(), year, month, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"words": weights})
}

func (s *Server) handleBoxPlots(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	stats, err := s.reports.BoxPlots(r.Context(), year, month, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"box_plots": stats})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if month == 0 {
		month = int(time.Now().Month())
	}

	alerts, err := s.reports.Alerts(r.Context(), year, month, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleFull(w http.ResponseWriter, r *http.Request) {
	year, _, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	owner := ownerParam(r)

	key := fmt.Sprintf("%d|%s", year, owner)
	if cached, ok := s.fullCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	full, err := s.reports.Full(r.Context(), year, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.fullCache.Set(key, full)
	writeJSON(w, http.StatusOK, full)
}

// saveBudgetRequest is the PUT /api/budgets/{year} body.
type saveBudgetRequest struct {
	TotalCents int64            `json:"total_cents"`
	Categories map[string]int64 `json:"categories"`
}

func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeBadRequest(w, "invalid year")
		return
	}

	var req saveBudgetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	budget := core.Budget{
		Year:       year,
		TotalCents: req.TotalCents,
		Categories: req.Categories,
	}
	if err := budget.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.reports.SaveBudget(r.Context(), budget); err != nil {
		writeError(w, r, err)
		return
	}

	// Budgets feed several cached artifacts.
	s.fullCache.Purge()

	writeJSON(w, http.StatusOK, map[string]any{"year": year, "saved": true})
}

func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "sheets export not configured"})
		return
	}

	year, _, err := parseYearMonth(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	stats, err := s.reports.Yearly(r.Context(), year, ownerParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.exporter.ExportYearly(r.Context(), stats); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "exported": true})
}

// colorMap assigns a stable chart color to each label.
func colorMap(labels []string) map[string]string {
	colors := make(map[string]string, len(labels))
	for _, label := range labels {
		colors[label] = report.ColorFor(label, labels)
	}
	return colors
}

// orderedCategories lists theme river categories in first-seen order.
func orderedCategories(points []analytics.ThemeRiverPoint) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range points {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}
