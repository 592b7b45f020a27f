package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/indiesemi/gate2jira/internal/gate"
	"github.com/indiesemi/gate2jira/internal/importer"
	"github.com/indiesemi/gate2jira/internal/jira"
	"github.com/indiesemi/gate2jira/internal/output"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// indexPageData holds template data for the connect form.
type indexPageData struct {
	Error    string
	BaseURL  string
	UseToken bool
	Username string
}

// selectPageData holds template data for the project and gate form.
type selectPageData struct {
	Error     string
	SessionID string
	User      string
	FileName  string
	Projects  []jira.Project
	Gates     []string
	Project   string
	Gate      string
}

// resultLine is one row of the result list.
type resultLine struct {
	Key     string
	URL     string
	Summary string
	Detail  string
}

// resultPageData holds template data for the import result.
type resultPageData struct {
	Error       string
	SessionID   string
	EpicKey     string
	EpicURL     string
	EpicSummary string
	Created     []resultLine
	Failed      []resultLine
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logFor(r.Context()).Error("render page", "page", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) browseURL(key string) string {
	return strings.TrimRight(s.config.BaseURL, "/") + "/browse/" + key
}

// statusFor maps an import error onto the HTTP status of the page that
// reports it.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, importer.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, importer.ErrUnknownProject),
		errors.Is(err, gate.ErrSheetNotFound),
		errors.Is(err, gate.ErrNoGateSheets):
		return http.StatusUnprocessableEntity
	case errors.Is(err, importer.ErrMissingFields):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// handleIndex serves the connect form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", indexPageData{BaseURL: s.config.BaseURL, UseToken: true})
}

// handleConnect verifies the credentials, reads the uploaded workbook and
// offers the project and gate choice.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	page := indexPageData{BaseURL: s.config.BaseURL, UseToken: true}
	fail := func(status int, msg string) {
		page.Error = msg
		s.render(w, r, status, "index.html", page)
	}

	if err := r.ParseMultipartForm(s.config.MaxUpload); err != nil {
		fail(statusFor(err), "Upload rejected: "+err.Error())
		return
	}
	page.UseToken = r.FormValue("auth") != "password"
	page.Username = strings.TrimSpace(r.FormValue("username"))

	creds := jira.Credentials{Username: page.Username}
	if secret := strings.TrimSpace(r.FormValue("secret")); page.UseToken {
		creds.Token = secret
	} else {
		creds.Password = secret
	}

	file, header, err := r.FormFile("workbook")
	if err != nil {
		fail(http.StatusBadRequest, "Please choose a gate checklist workbook (.xlsx).")
		return
	}
	defer file.Close()
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		fail(http.StatusBadRequest, header.Filename+" is not an .xlsx workbook.")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		fail(statusFor(err), "Upload failed: "+err.Error())
		return
	}

	dueDate, err := s.config.ResolvedDueDate()
	if err != nil {
		fail(http.StatusInternalServerError, err.Error())
		return
	}
	coord := importer.New(s.tracker(creds), s.config, dueDate)
	user, err := coord.Authenticate(r.Context())
	if err != nil {
		logFor(r.Context()).Warn("connect rejected", "user", creds.Username, "err", err)
		if errors.Is(err, importer.ErrInvalidCredentials) {
			fail(http.StatusUnauthorized, "Invalid credentials. Please check your username and password or token.")
			return
		}
		fail(statusFor(err), "Could not reach Jira: "+err.Error())
		return
	}

	wb, err := gate.OpenReader(bytes.NewReader(data))
	if err != nil {
		fail(http.StatusBadRequest, "Could not read workbook: "+err.Error())
		return
	}
	defer wb.Close()
	gates, err := coord.GateSheets(wb)
	if err != nil {
		fail(statusFor(err), err.Error())
		return
	}

	projects, err := coord.Projects(r.Context())
	if err != nil {
		fail(statusFor(err), err.Error())
		return
	}

	sess := &Session{
		Creds:    creds,
		User:     user,
		FileName: header.Filename,
		Workbook: data,
		Gates:    gates,
		Projects: projects,
	}
	s.sessions.Put(sess)
	logFor(r.Context()).Info("session connected", "user", user.Name, "file", header.Filename, "gates", len(gates))

	s.render(w, r, http.StatusOK, "select.html", s.selectPage(sess))
}

func (s *Server) selectPage(sess *Session) selectPageData {
	return selectPageData{
		SessionID: sess.ID,
		User:      displayName(sess.User),
		FileName:  sess.FileName,
		Projects:  sess.Projects,
		Gates:     sess.Gates,
	}
}

func displayName(u *jira.User) string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Name
}

// handleRun creates the epic and tasks for the chosen project and gate.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "index.html", indexPageData{BaseURL: s.config.BaseURL, UseToken: true, Error: err.Error()})
		return
	}
	sess, ok := s.sessions.Get(r.FormValue("session"))
	if !ok {
		s.render(w, r, http.StatusGone, "index.html", indexPageData{
			BaseURL:  s.config.BaseURL,
			UseToken: true,
			Error:    "Your session has expired. Please connect again.",
		})
		return
	}

	page := s.selectPage(sess)
	page.Project = strings.TrimSpace(r.FormValue("project"))
	page.Gate = r.FormValue("gate")
	if page.Project == "" || page.Gate == "" {
		page.Error = "Please choose a project and a gate."
		s.render(w, r, http.StatusBadRequest, "select.html", page)
		return
	}

	dueDate, err := s.config.ResolvedDueDate()
	if err != nil {
		page.Error = err.Error()
		s.render(w, r, http.StatusInternalServerError, "select.html", page)
		return
	}
	wb, err := gate.OpenReader(bytes.NewReader(sess.Workbook))
	if err != nil {
		page.Error = "Could not read workbook: " + err.Error()
		s.render(w, r, http.StatusBadRequest, "select.html", page)
		return
	}
	defer wb.Close()

	coord := importer.New(s.tracker(sess.Creds), s.config, dueDate)
	res, err := coord.Run(r.Context(), importer.Request{ProjectKey: page.Project, Gate: page.Gate, Workbook: wb}, nil)

	var epicErr *importer.EpicError
	switch {
	case errors.As(err, &epicErr):
		s.render(w, r, http.StatusBadGateway, "result.html", resultPageData{
			SessionID:   sess.ID,
			EpicSummary: epicErr.Summary,
			Error:       "Epic creation failed: " + output.FailureDetail(epicErr.Err),
		})
		return
	case err != nil && res == nil:
		page.Error = err.Error()
		s.render(w, r, statusFor(err), "select.html", page)
		return
	}

	s.metrics.RecordImport(len(res.Created()), len(res.Failed()))
	data := resultPageData{
		SessionID:   sess.ID,
		EpicKey:     res.EpicKey,
		EpicURL:     s.browseURL(res.EpicKey),
		EpicSummary: res.EpicSummary,
	}
	if err != nil {
		data.Error = err.Error()
	}
	for _, o := range res.Outcomes {
		line := resultLine{Key: o.Key, Summary: o.Task.Summary}
		if o.OK() {
			line.URL = s.browseURL(o.Key)
			data.Created = append(data.Created, line)
			continue
		}
		line.Detail = output.FailureDetail(o.Err)
		data.Failed = append(data.Failed, line)
	}
	s.render(w, r, http.StatusOK, "result.html", data)
}

// handleSignOut drops the session with its credentials and upload.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err == nil {
		s.sessions.Delete(r.FormValue("session"))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
