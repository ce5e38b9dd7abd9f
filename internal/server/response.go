package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
)

// Response represents a standard JSON response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Error writes a JSON error response.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", code, "error", message)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

// Success writes a JSON success response.
func (s *Server) Success(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

type pageData struct {
	Title string
	Body  template.HTML
}

// page renders body inside the site layout. A fragment=1 query parameter
// returns the body alone.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.URL.Query().Get("fragment") == "1" {
		_, _ = w.Write(body)
		return
	}
	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "page.html.tmpl", pageData{Title: title, Body: template.HTML(body)}); err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	_, _ = w.Write(buf.Bytes())
}
