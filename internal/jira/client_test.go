package jira

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, creds Credentials, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", creds, 5*time.Second)
}

var basicCreds = Credentials{Username: "alice", Password: "secret"}

func TestMyselfBasicAuth(t *testing.T) {
	c := newTestClient(t, basicCreds, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/myself" {
			t.Errorf("path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			t.Errorf("basic auth = %q %q %v", user, pass, ok)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"name": "alice", "displayName": "Alice"})
	})

	u, err := c.Myself(context.Background())
	if err != nil {
		t.Fatalf("Myself: %v", err)
	}
	if u.DisplayName != "Alice" {
		t.Errorf("DisplayName = %q", u.DisplayName)
	}
}

func TestMyselfBearerToken(t *testing.T) {
	creds := Credentials{Username: "alice", Token: "pat-123"}
	c := newTestClient(t, creds, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer pat-123" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"name":"alice"}`))
	})

	if _, err := c.Myself(context.Background()); err != nil {
		t.Fatalf("Myself: %v", err)
	}
}

func TestMyselfUnauthorized(t *testing.T) {
	c := newTestClient(t, basicCreds, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	})

	_, err := c.Myself(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %#v, want *StatusError 401", err)
	}
}

func TestMyselfRejectsNon200Success(t *testing.T) {
	c := newTestClient(t, basicCreds, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var se *StatusError
	if _, err := c.Myself(context.Background()); !errors.As(err, &se) || se.StatusCode != http.StatusNoContent {
		t.Fatalf("err = %v, want StatusError 204", err)
	}
}

func TestMissingCredentialsSkipNetwork(t *testing.T) {
	called := false
	c := newTestClient(t, Credentials{Username: "alice"}, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if _, err := c.Myself(context.Background()); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
	if called {
		t.Error("request sent with missing credentials")
	}
}

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		ok    bool
	}{
		{"basic", Credentials{Username: "a", Password: "p"}, true},
		{"token", Credentials{Username: "a", Token: "t"}, true},
		{"no user", Credentials{Password: "p"}, false},
		{"blank user", Credentials{Username: "  ", Token: "t"}, false},
		{"no secret", Credentials{Username: "a"}, false},
	}
	for _, tt := range tests {
		err := tt.creds.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestFieldsAndProjects(t *testing.T) {
	c := newTestClient(t, basicCreds, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/api/2/field":
			w.Write([]byte(`[{"id":"summary","name":"Summary","custom":false},{"id":"customfield_1","name":"Epic Link","custom":true}]`))
		case "/rest/api/2/project":
			w.Write([]byte(`[{"id":"1","key":"GATE","name":"Gate Reviews"}]`))
		default:
			http.NotFound(w, r)
		}
	})

	fields, err := c.Fields(context.Background())
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if len(fields) != 2 || !fields[1].Custom || fields[1].ID != "customfield_1" {
		t.Errorf("fields = %+v", fields)
	}

	projects, err := c.Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Key != "GATE" {
		t.Errorf("projects = %+v", projects)
	}
}

func TestCreateIssue(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated} {
		c := newTestClient(t, basicCreds, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/rest/api/2/issue" {
				t.Errorf("%s %s", r.Method, r.URL.Path)
			}
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}
			var body struct {
				Fields map[string]any `json:"fields"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			if body.Fields["summary"] != "G1 - Design Review" {
				t.Errorf("summary = %v", body.Fields["summary"])
			}
			w.WriteHeader(status)
			w.Write([]byte(`{"id":"10001","key":"GATE-1","self":"x"}`))
		})

		issue, err := c.CreateIssue(context.Background(), map[string]any{"summary": "G1 - Design Review"})
		if err != nil {
			t.Fatalf("status %d: CreateIssue: %v", status, err)
		}
		if issue.Key != "GATE-1" {
			t.Errorf("status %d: key = %q", status, issue.Key)
		}
	}
}

func TestCreateIssueErrorCarriesBody(t *testing.T) {
	c := newTestClient(t, basicCreds, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":{"customfield_1":"Epic Name is required."}}`))
	})

	_, err := c.CreateIssue(context.Background(), map[string]any{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusBadRequest || !strings.Contains(err.Error(), "Epic Name is required.") {
		t.Errorf("err = %v", err)
	}
}

func TestCreateIssueWithoutKey(t *testing.T) {
	c := newTestClient(t, basicCreds, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})

	if _, err := c.CreateIssue(context.Background(), map[string]any{}); err == nil {
		t.Fatal("expected error for response without key")
	}
}
