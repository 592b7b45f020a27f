// Package jiratest provides an in-process stand-in for the Jira REST API
// endpoints gate2jira uses.
package jiratest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/indiesemi/gate2jira/internal/jira"
)

// Default custom field ids served by a new Server.
const (
	EpicLinkID = "customfield_10100"
	EpicNameID = "customfield_10101"
	RiskID     = "customfield_10200"
)

// Server is a fake Jira. Configure the exported fields before issuing
// requests; inspect Calls and Issues afterwards.
type Server struct {
	*httptest.Server

	Username string
	Password string
	Token    string

	MyselfStatus int // 0 means authenticate normally
	Fields       []jira.Field
	Projects     []jira.Project
	EpicStatus   int            // non-zero forces the epic create status
	FailTasks    map[string]int // task summary -> forced status

	mu     sync.Mutex
	calls  []string
	issues []map[string]any
	seq    int
}

// NewServer starts a fake Jira accepting alice/secret or token "pat".
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Username: "alice",
		Password: "secret",
		Token:    "pat",
		Fields: []jira.Field{
			{ID: "summary", Name: "Summary"},
			{ID: EpicLinkID, Name: "Epic Link", Custom: true},
			{ID: EpicNameID, Name: "Epic Name", Custom: true},
			{ID: RiskID, Name: "Risk level", Custom: true},
		},
		Projects: []jira.Project{
			{ID: "1", Key: "GATE", Name: "Gate Reviews"},
			{ID: "2", Key: "OPS", Name: "Operations"},
		},
		FailTasks: map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Calls returns "METHOD path" for every request received, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Issues returns the fields objects of every successfully created issue.
func (s *Server) Issues() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.issues...)
}

func (s *Server) authorized(r *http.Request) bool {
	if r.Header.Get("Authorization") == "Bearer "+s.Token {
		return true
	}
	user, pass, ok := r.BasicAuth()
	return ok && user == s.Username && pass == s.Password
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.calls = append(s.calls, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	if !s.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/rest/api/2/myself":
		if s.MyselfStatus != 0 {
			http.Error(w, http.StatusText(s.MyselfStatus), s.MyselfStatus)
			return
		}
		writeJSON(w, http.StatusOK, jira.User{Name: "alice", DisplayName: "Alice Example"})
	case r.Method == http.MethodGet && r.URL.Path == "/rest/api/2/field":
		writeJSON(w, http.StatusOK, s.Fields)
	case r.Method == http.MethodGet && r.URL.Path == "/rest/api/2/project":
		writeJSON(w, http.StatusOK, s.Projects)
	case r.Method == http.MethodPost && r.URL.Path == "/rest/api/2/issue":
		s.createIssue(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) createIssue(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fields map[string]any `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errorMessages": []string{err.Error()}})
		return
	}

	issueType, _ := body.Fields["issuetype"].(map[string]any)
	summary, _ := body.Fields["summary"].(string)
	if issueType["name"] == "Epic" && s.EpicStatus != 0 {
		writeJSON(w, s.EpicStatus, map[string]any{"errorMessages": []string{"epic rejected"}})
		return
	}
	if status, ok := s.FailTasks[summary]; ok {
		writeJSON(w, status, map[string]any{"errors": map[string]string{"summary": "rejected " + summary}})
		return
	}

	project, _ := body.Fields["project"].(map[string]any)
	s.mu.Lock()
	s.seq++
	created := jira.CreatedIssue{
		ID:  fmt.Sprint(10000 + s.seq),
		Key: fmt.Sprintf("%v-%d", project["key"], s.seq),
	}
	s.issues = append(s.issues, body.Fields)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, created)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
