// Package web serves the beam demo page and the JSON API: batch
// generation, monitor statistics, and site theme/language state.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/logging"
	"github.com/ornina-dev/beamfield/internal/monitor"
	"github.com/ornina-dev/beamfield/internal/store"
)

//go:embed index.html
var indexHTML []byte

// Server handles the HTTP interface for the beam service.
type Server struct {
	addr   string
	gen    *beam.Generator
	mon    *monitor.Monitor
	site   *store.Store
	log    logging.Logger
	server *http.Server
}

// ServerConfig contains construction options for the web server.
type ServerConfig struct {
	Addr      string
	Generator *beam.Generator
	Monitor   *monitor.Monitor // nil disables the monitor endpoints
	Site      *store.Store
	Logger    logging.Logger
}

// NewServer creates a web server with the provided configuration.
func NewServer(config ServerConfig) *Server {
	if config.Generator == nil {
		config.Generator = beam.NewGenerator()
	}
	if config.Site == nil {
		config.Site = store.NewStore()
	}
	if config.Logger == nil {
		config.Logger = logging.NewNoop()
	}

	s := &Server{
		addr: config.Addr,
		gen:  config.Generator,
		mon:  config.Monitor,
		site: config.Site,
		log:  config.Logger,
	}
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.routes(),
	}
	return s
}

// Start runs the HTTP server until ctx is canceled, then shuts it down
// gracefully. A listen failure is returned immediately.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", logging.String("addr", s.addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("graceful shutdown failed, forcing close", logging.Err(err))
		return s.server.Close()
	}
	return nil
}

// Close shuts down the server without waiting for active requests.
func (s *Server) Close() error {
	return s.server.Close()
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/beams", s.handleBeams)
	mux.HandleFunc("/api/monitor", s.handleMonitorStats)
	mux.HandleFunc("/api/monitor/reset", s.handleMonitorReset)
	mux.HandleFunc("/api/site", s.handleSite)
	mux.HandleFunc("/api/site/theme", s.handleSiteTheme)
	mux.HandleFunc("/api/site/language", s.handleSiteLanguage)

	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "beamfield", "timestamp": "%s"}`,
		time.Now().UTC().Format(time.RFC3339))
}

// beamsResponse is the payload for /api/beams.
type beamsResponse struct {
	Batch     string        `json:"batch"`
	CreatedAt time.Time     `json:"createdAt"`
	Generated int           `json:"generated"`
	Requested beam.Request  `json:"requested"`
	Beams     []beam.Config `json:"beams"`
}

// handleBeams resolves query overrides and generates a fresh batch.
// Query params (all optional):
//
//	width, height - viewport in CSS pixels
//	count, cycle, stagger, outer, inner - beam overrides
//
// Values outside the documented ranges are clamped or replaced by the
// resolver rather than rejected; only unparseable values are a 400.
func (s *Server) handleBeams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	p := queryParser{q: r.URL.Query()}
	width := p.float("width")
	height := p.float("height")
	o := beam.Overrides{
		Count:         p.optInt("count"),
		OuterRadius:   p.optFloat("outer"),
		InnerRadius:   p.optFloat("inner"),
		CycleDuration: p.optFloat("cycle"),
		Stagger:       p.optFloat("stagger"),
	}
	if p.err != nil {
		s.writeJSONError(w, http.StatusBadRequest, p.err.Error())
		return
	}

	batch := s.gen.GenerateBatch(o, width, height)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(beamsResponse{
		Batch:     batch.ID,
		CreatedAt: batch.CreatedAt,
		Generated: len(batch.Beams),
		Requested: batch.Request,
		Beams:     batch.Beams,
	})
}

func (s *Server) handleMonitorStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.mon == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "monitor disabled")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.mon.Stats())
}

func (s *Server) handleMonitorReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.mon == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "monitor disabled")
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeJSONError(w, http.StatusBadRequest, "missing 'id' parameter")
		return
	}
	if !s.mon.Reset(id) {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no beam %q under watch", id))
		return
	}
	s.log.Info("beam tracking reset via api", logging.String("beam", id))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "id": id})
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeSiteState(w, s.site.State())
}

// handleSiteTheme applies one theme transition: ?value=dark|light sets,
// no value toggles.
func (s *Server) handleSiteTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var st store.State
	if v := r.URL.Query().Get("value"); v != "" {
		st = s.site.SetTheme(store.Theme(v))
	} else {
		st = s.site.ToggleTheme()
	}
	s.writeSiteState(w, st)
}

// handleSiteLanguage mirrors handleSiteTheme for the language.
func (s *Server) handleSiteLanguage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var st store.State
	if v := r.URL.Query().Get("value"); v != "" {
		st = s.site.SetLanguage(store.Language(v))
	} else {
		st = s.site.ToggleLanguage()
	}
	s.writeSiteState(w, st)
}

func (s *Server) writeSiteState(w http.ResponseWriter, st store.State) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"theme":    string(st.Theme),
		"language": string(st.Language),
		"dir":      st.Language.Dir(),
	})
}

// queryParser reads optional query parameters, keeping the first parse
// error. Absent parameters stay nil/zero.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) float(key string) float64 {
	v := p.q.Get(key)
	if v == "" || p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = fmt.Errorf("bad %q parameter", key)
		return 0
	}
	return f
}

func (p *queryParser) optFloat(key string) *float64 {
	v := p.q.Get(key)
	if v == "" || p.err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = fmt.Errorf("bad %q parameter", key)
		return nil
	}
	return &f
}

func (p *queryParser) optInt(key string) *int {
	v := p.q.Get(key)
	if v == "" || p.err != nil {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = fmt.Errorf("bad %q parameter", key)
		return nil
	}
	return &n
}
