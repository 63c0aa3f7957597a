// Package http serves the report API.
package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"bilancio/internal/analytics"
	"bilancio/internal/cache"
	"bilancio/internal/middleware/ratelimit"
	"bilancio/internal/middleware/security"
	"bilancio/internal/middleware/trace"
	"bilancio/internal/report"
)

// Exporter pushes a yearly overview to an external spreadsheet.
type Exporter interface {
	ExportYearly(ctx context.Context, stats analytics.YearlyStats) error
}

type Server struct {
	http.Server

	reports  *report.Service
	exporter Exporter

	rateLimiter *ratelimit.Limiter
	fullCache   *cache.TTLCache[report.FullReport]

	stopJanitor  func()
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. exporter may be nil when Sheets export is not configured.
func NewServer(addr string, reports *report.Service, exporter Exporter) *Server {
	s := &Server{
		reports:     reports,
		exporter:    exporter,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		fullCache:   cache.New[report.FullReport](50, 5*time.Minute),
	}
	s.stopJanitor = s.fullCache.StartJanitor(10 * time.Minute)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(trace.NewMiddleware(extractClientIP).Handler)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.rateLimiter.Middleware(extractClientIP))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/years", s.handleYears)
	r.Get("/api/years/{year}/months", s.handleMonths)

	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/monthly", s.handleMonthly)
		r.Get("/yearly", s.handleYearly)
		r.Get("/category-yearly", s.handleCategoryYearly)
		r.Get("/budget", s.handleBudgetReport)
		r.Get("/flow", s.handleFlowGraph)
		r.Get("/pareto", s.handlePareto)
		r.Get("/quadrant", s.handleQuadrant)
		r.Get("/themeriver", s.handleThemeRiver)
		r.Get("/funnel", s.handleFunnel)
		r.Get("/wordcloud", s.handleWordCloud)
		r.Get("/boxplot", s.handleBoxPlots)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/full", s.handleFull)
	})

	r.Put("/api/budgets/{year}", s.handleSaveBudget)
	r.Post("/api/export/sheets", s.handleExportSheets)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.stopJanitor != nil {
			s.stopJanitor()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// trustedProxies defines networks that are trusted to set forwarding
// headers.
var trustedProxies = func() []*net.IPNet {
	cidrs := []string{"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	networks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("bad trusted proxy CIDR " + cidr)
		}
		networks = append(networks, network)
	}
	return networks
}()

func isTrustedProxy(ip net.IP) bool {
	for _, network := range trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// extractClientIP extracts the real client IP, honoring forwarding
// headers only from trusted proxies.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil {
		return directIP
	}

	if isTrustedProxy(parsedDirectIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			clientIP := strings.TrimSpace(strings.Split(xff, ",")[0])
			if net.ParseIP(clientIP) != nil {
				return clientIP
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if net.ParseIP(xri) != nil {
				return xri
			}
		}
	}

	return directIP
}
