// Package api exposes the agelens operations over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/infrajoy/agelens/bundle"
	"github.com/infrajoy/agelens/crawl"
	"github.com/infrajoy/agelens/lens"
	"github.com/infrajoy/agelens/remedy"
	"github.com/infrajoy/agelens/store"
)

// Server wires the lens operations and the audit store into a chi router.
type Server struct {
	lens   *lens.Lens
	store  *store.Store
	remedy remedy.Config
	// passwordHash, when non-empty, gates /api routes behind bcrypt password
	// auth. Plaintext password arrives in the X-Auth-Password header.
	passwordHash string
	logger       *slog.Logger
}

// Config configures the HTTP server.
type Config struct {
	Lens         *lens.Lens
	Store        *store.Store // optional; audit history disabled when nil
	Remedy       remedy.Config
	PasswordHash string // bcrypt hash; empty disables auth
	Logger       *slog.Logger
}

// New builds the Server.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		lens:         cfg.Lens,
		store:        cfg.Store,
		remedy:       cfg.Remedy,
		passwordHash: cfg.PasswordHash,
		logger:       cfg.Logger,
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if s.passwordHash != "" {
			r.Use(s.requirePassword)
		}

		r.Post("/api/audit", s.handleAudit)
		r.Post("/api/clone", s.handleClone)
		r.Post("/api/crawl/audit", s.handleCrawlAudit)
		r.Post("/api/crawl/clone", s.handleCrawlClone)

		r.Get("/api/audits", s.handleListAudits)
		r.Get("/api/audits/{id}", s.handleGetAudit)
	})

	return r
}

// requirePassword returns 401 unless the X-Auth-Password header matches the
// configured bcrypt hash.
func (s *Server) requirePassword(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pass := r.Header.Get("X-Auth-Password")
		if pass == "" || bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(pass)) != nil {
			writeJSON(w, 401, map[string]string{"error": "invalid password"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type auditRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if req.URL == "" {
		writeError(w, 400, fmt.Errorf("url required"))
		return
	}

	res, err := s.lens.AuditURL(r.Context(), req.URL)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	if s.store != nil {
		if _, err := s.store.SaveAudit(r.Context(), res); err != nil {
			s.logger.Warn("save audit", "url", req.URL, "error", err)
		}
	}
	writeJSON(w, 200, res)
}

type cloneRequest struct {
	URL       string   `json:"url"`
	TextScale *float64 `json:"text_scale"`
	Underline *bool    `json:"underline_links"`
	Download  bool     `json:"download"` // true returns a zip instead of JSON
}

func (s *Server) handleClone(w http.ResponseWriter, r *http.Request) {
	var req cloneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if req.URL == "" {
		writeError(w, 400, fmt.Errorf("url required"))
		return
	}

	cfg := s.remedy
	if req.TextScale != nil {
		cfg.TextScale = *req.TextScale
	}
	if req.Underline != nil {
		cfg.UnderlineLinks = *req.Underline
	}

	clone, err := s.lens.CloneURL(r.Context(), req.URL, cfg)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	if req.Download {
		files := bundle.Single(bundle.Page{
			URL: clone.URL, Title: clone.Title, HTML: clone.HTML, Changes: clone.Changes,
		})
		writeZip(w, "agelens_clone.zip", files)
		return
	}
	writeJSON(w, 200, clone)
}

type crawlRequest struct {
	URL      string `json:"url"`
	MaxPages int    `json:"max_pages"`
}

func (s *Server) handleCrawlAudit(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if req.URL == "" {
		writeError(w, 400, fmt.Errorf("url required"))
		return
	}

	results := s.lens.CrawlAudit(r.Context(), req.URL, req.MaxPages)
	if s.store != nil {
		for _, res := range results {
			if _, err := s.store.SaveAudit(r.Context(), res); err != nil {
				s.logger.Warn("save audit", "url", res.URL, "error", err)
			}
		}
	}
	writeJSON(w, 200, results)
}

func (s *Server) handleCrawlClone(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}
	if req.URL == "" {
		writeError(w, 400, fmt.Errorf("url required"))
		return
	}

	clones := s.lens.CrawlClone(r.Context(), req.URL, req.MaxPages, s.remedy)
	if len(clones) == 0 {
		writeError(w, 502, fmt.Errorf("no pages fetched"))
		return
	}

	pages := make([]bundle.Page, 0, len(clones))
	for _, c := range clones {
		pages = append(pages, bundle.Page{URL: c.URL, Title: c.Title, HTML: c.HTML, Changes: c.Changes})
	}
	writeZip(w, "agelens_batch_clone.zip", bundle.Build(pages))
}

func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, 404, fmt.Errorf("audit history disabled"))
		return
	}
	limit := queryInt(r, "limit", 50)
	records, err := s.store.ListAudits(r.Context(), limit)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	writeJSON(w, 200, records)
}

func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, 404, fmt.Errorf("audit history disabled"))
		return
	}
	rec, err := s.store.GetAudit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, 404, fmt.Errorf("audit not found"))
		return
	}
	writeJSON(w, 200, rec)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// writeFetchError maps fetch failures to 502; everything else is a 500.
func writeFetchError(w http.ResponseWriter, err error) {
	if errors.Is(err, crawl.ErrFetch) {
		writeError(w, 502, err)
		return
	}
	writeError(w, 500, err)
}

func writeZip(w http.ResponseWriter, filename string, files map[string][]byte) {
	data, err := bundle.Zip(files)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(200)
	w.Write(data)
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
