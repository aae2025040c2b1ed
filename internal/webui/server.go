// Package webui exposes a minimal HTTP server with an upload form that turns
// a metadata spreadsheet into a DDL script.
//
// Routes:
//
//	GET  /              → form
//	POST /generate      → multipart upload; responds with ddl_output.sql as an attachment
//	POST /api/generate  → same upload, returns the script as text/plain
//
// Uploads are processed in memory and never written to disk.
package webui

import (
	_ "embed"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/config"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/ddlgen"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/dialect"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/metadata"
	"github.com/SultanAl-Jrboa/schema-to-ddl/internal/schema"
)

// DefaultMaxUploadBytes caps a request body when Config.MaxUploadBytes is
// zero.
const DefaultMaxUploadBytes = 16 << 20

// OutputFilename names the attachment returned by /generate.
const OutputFilename = "ddl_output.sql"

// Config controls server startup.
type Config struct {
	Addr string

	// MaxUploadBytes limits the request body; larger uploads get 413.
	MaxUploadBytes int64

	// Base supplies generation defaults (job, schema, render options).
	// The form's dialect and schema fields override it per request.
	Base config.Config
}

// Server wraps http.Server for convenience.
type Server struct {
	cfg  Config
	mux  *http.ServeMux
	tmpl *template.Template
}

// NewServer constructs a Server with routes and embedded template.
func NewServer(cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Base.Job == "" {
		cfg.Base = config.Default()
	}
	s := &Server{
		cfg:  cfg,
		mux:  http.NewServeMux(),
		tmpl: template.Must(template.New("index").Parse(indexHTML)),
	}
	s.routes()
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("POST /generate", s.handleGenerate)
	s.mux.HandleFunc("POST /api/generate", s.handleAPIGenerate)
}

type page struct {
	Dialects []string
	Dialect  string
	Schema   string
	Error    string
}

func (s *Server) render(w http.ResponseWriter, status int, p page) {
	p.Dialects = dialect.Names()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.Execute(w, p); err != nil {
		log.Println("webui: template error:", err)
	}
}

// handleIndex renders the input form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, page{Schema: s.cfg.Base.Schema})
}

// handleGenerate returns the script as a download, or re-renders the form
// with the error.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	res, form, err := s.generate(w, r)
	if err != nil {
		status := statusFor(err)
		log.Printf("webui: generate failed (%d): %v", status, err)
		form.Error = err.Error()
		s.render(w, status, form)
		return
	}
	w.Header().Set("Content-Type", "application/sql; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+OutputFilename+`"`)
	_, _ = io.WriteString(w, res.SQL)
}

// handleAPIGenerate returns text/plain so scripts can curl it easily.
func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.generate(w, r)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, res.SQL)
}

// generate reads the multipart upload ("file", optional "dialect" and
// "schema") and runs one generation.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (*ddlgen.Result, page, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	form := page{Schema: s.cfg.Base.Schema}

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			return nil, form, err
		}
		return nil, form, schema.Errorf(schema.KindInvalidInput, "webui.upload", "bad form: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	form.Dialect = strings.TrimSpace(r.FormValue("dialect"))
	if _, ok := r.MultipartForm.Value["schema"]; ok {
		form.Schema = strings.TrimSpace(r.FormValue("schema"))
	}

	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, form, schema.Errorf(schema.KindInputNotFound, "webui.upload", "no file uploaded")
	}
	defer f.Close()

	format, err := metadata.FormatFor(filepath.Base(hdr.Filename))
	if err != nil {
		return nil, form, err
	}

	cfg := s.cfg.Base
	cfg.Dialect = form.Dialect
	cfg.Schema = form.Schema
	res, err := ddlgen.GenerateReader(r.Context(), cfg, f, format)
	if err != nil {
		return nil, form, err
	}
	log.Printf("webui: %s -> %s (%d tables, %d foreign keys)", hdr.Filename, res.Dialect, res.Stats.Tables, res.Stats.Edges)
	return res, form, nil
}

// statusFor maps input problems to 4xx and everything else to 500.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return http.StatusRequestEntityTooLarge
	}
	switch schema.KindOf(err) {
	case schema.KindInputNotFound, schema.KindInvalidInput, schema.KindSchemaShape, schema.KindUnsupportedDialect:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// indexHTML is an embedded, minimal page with vanilla styling.
//
//go:embed index.tmpl.html
var indexHTML string
