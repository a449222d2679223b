package handlers

import (
	"context"
	"net/http"
	"sync"

	"autoprint/internal/models"
	"autoprint/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseOperator string
	parseErr      error

	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseOperator, m.parseErr
}

type mockMonitoring struct {
	mu         sync.Mutex
	snap       models.Snapshot
	refreshErr error
	polling    bool
	starts     int
	stops      int
}

func (m *mockMonitoring) Snapshot() models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}
func (m *mockMonitoring) StartPolling() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	m.polling = true
}
func (m *mockMonitoring) StopPolling() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	m.polling = false
}
func (m *mockMonitoring) Polling() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polling
}
func (m *mockMonitoring) RefreshState(ctx context.Context) error { return m.refreshErr }

type mockDevice struct {
	err   error
	calls []string
}

func (m *mockDevice) record(name string) error {
	m.calls = append(m.calls, name)
	return m.err
}
func (m *mockDevice) StartUp(ctx context.Context) error        { return m.record("startup") }
func (m *mockDevice) ShutDown(ctx context.Context) error       { return m.record("shutdown") }
func (m *mockDevice) CancelShutDown(ctx context.Context) error { return m.record("cancel-shutdown") }
func (m *mockDevice) ToggleLight(ctx context.Context) error    { return m.record("light") }

type mockFolders struct {
	folders    []string
	refreshErr error
	refreshes  int
}

func (m *mockFolders) FolderPaths() []string { return m.folders }
func (m *mockFolders) RefreshFolders(ctx context.Context) error {
	m.refreshes++
	return m.refreshErr
}

type mockFiles struct {
	list models.FileList
}

func (m *mockFiles) FileList() models.FileList { return m.list }

type mockDraft struct {
	draft     models.JobDraft
	err       error
	lastPatch models.DraftPatch
	lastPath  string
	cleared   bool
}

func (m *mockDraft) CurrentDraft() models.JobDraft { return m.draft }
func (m *mockDraft) UpdateDraft(ctx context.Context, patch models.DraftPatch) (models.JobDraft, error) {
	m.lastPatch = patch
	if m.err != nil {
		return m.draft, m.err
	}
	if patch.File != nil {
		m.draft.File = *patch.File
	}
	if patch.Folder != nil {
		m.draft.Folder = *patch.Folder
	}
	return m.draft, nil
}
func (m *mockDraft) BrowseSelect(ctx context.Context, storagePath string) (models.JobDraft, error) {
	m.lastPath = storagePath
	return m.draft, m.err
}
func (m *mockDraft) ClearFolder() models.JobDraft {
	m.cleared = true
	m.draft.Folder, m.draft.File = "", ""
	return m.draft
}

type mockJobs struct {
	job       models.ScheduledJob
	submitErr error
	cancelErr error
	errs      models.FieldErrors
	submits   int
	cancels   int
}

func (m *mockJobs) SubmitJob(ctx context.Context) (models.ScheduledJob, error) {
	m.submits++
	return m.job, m.submitErr
}
func (m *mockJobs) CancelJob(ctx context.Context) error {
	m.cancels++
	return m.cancelErr
}
func (m *mockJobs) FieldErrors() models.FieldErrors { return m.errs }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Options{AuthEnabled: true})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
