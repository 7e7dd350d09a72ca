package jiratest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
)

var countJQL = regexp.MustCompile(`^project = "((?:[^"\\]|\\.)*)" AND status = "((?:[^"\\]|\\.)*)"$`)

var jqlUnescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`)

// Server serves a Fake over the Jira REST v2 endpoints used by the exporter.
type Server struct {
	*httptest.Server
	Fake     *Fake
	Username string
	Password string
}

// NewServer starts an HTTP fake backed by f that accepts username/password via basic
// auth. Callers must Close it.
func NewServer(f *Fake, username, password string) *Server {
	s := &Server{Fake: f, Username: username, Password: password}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/api/2/serverInfo", s.serverInfo)
	mux.HandleFunc("GET /rest/api/2/project", s.projectList)
	mux.HandleFunc("GET /rest/api/2/status", s.statusList)
	mux.HandleFunc("GET /rest/api/2/search", s.search)
	s.Server = httptest.NewServer(s.authenticate(mux))
	return s
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != s.Username || p != s.Password {
			http.Error(w, `{"errorMessages":["unauthorized"]}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) serverInfo(w http.ResponseWriter, _ *http.Request) {
	s.Fake.mu.Lock()
	openErr := s.Fake.OpenErr
	s.Fake.mu.Unlock()
	if openErr != nil {
		http.Error(w, openErr.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"baseUrl": s.URL, "version": "9.12.0", "deploymentType": "Server", "serverTitle": "Fake Jira"})
}

func (s *Server) projectList(w http.ResponseWriter, r *http.Request) {
	projects, err := session{s.Fake}.Projects(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, projects)
}

func (s *Server) statusList(w http.ResponseWriter, r *http.Request) {
	statuses, err := session{s.Fake}.Statuses(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, statuses)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("maxResults") != "0" {
		http.Error(w, `{"errorMessages":["only counting is supported"]}`, http.StatusBadRequest)
		return
	}
	m := countJQL.FindStringSubmatch(q.Get("jql"))
	if m == nil {
		http.Error(w, `{"errorMessages":["unsupported jql"]}`, http.StatusBadRequest)
		return
	}
	n, err := session{s.Fake}.CountIssues(r.Context(), jqlUnescaper.Replace(m[1]), jqlUnescaper.Replace(m[2]))
	if err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	writeJSON(w, map[string]any{"startAt": 0, "maxResults": 0, "total": n, "issues": []any{}})
}
