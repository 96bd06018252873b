package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connekt/config"
	"connekt/internal/dbtest"
	"connekt/internal/messaging"
	"connekt/internal/middle"
	"connekt/internal/taskgen"
	"connekt/internal/telemetry"
	"connekt/models"
	"connekt/repository"
	"connekt/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// started at init by the Google auth stack behind the Gemini client
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

type testAPI struct {
	db      *gorm.DB
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := dbtest.Open(t)
	logger := zap.NewNop()
	cfg := &config.AppConfig{IdentityHeader: "X-User-ID"}
	publisher := messaging.NewPublisher(messaging.PublisherParams{Logger: logger})

	users := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	marketRepo := repository.NewMarketRepository(db)

	identity := service.NewIdentityService(service.IdentityServiceParams{Users: users, Logger: logger})

	handler := NewRouter(RouterParams{
		DB:       db,
		Identity: identity,
		Projects: service.NewProjectService(service.ProjectServiceParams{Projects: projectRepo, Tasks: taskRepo, Logger: logger}),
		Workflow: service.NewWorkflowService(service.WorkflowServiceParams{
			Tasks: taskRepo, Projects: projectRepo, Market: marketRepo, Identity: identity, Publisher: publisher, Logger: logger,
		}),
		Mail: service.NewMailService(service.MailServiceParams{
			Mails: repository.NewMailRepository(db), Identity: identity, Publisher: publisher, Logger: logger,
		}),
		Invites: service.NewInviteService(service.InviteServiceParams{
			Invites: repository.NewInviteRepository(db), Identity: identity, Publisher: publisher, Logger: logger,
		}),
		Workspaces: service.NewWorkspaceService(service.WorkspaceServiceParams{
			Workspaces: repository.NewWorkspaceRepository(db), Generator: taskgen.Heuristic{}, Logger: logger,
		}),
		Market:   service.NewMarketService(service.MarketServiceParams{Market: marketRepo, Identity: identity, Logger: logger}),
		Presence: service.NewPresenceService(service.PresenceServiceParams{Config: cfg, Logger: logger}),

		IdentityMiddleware: middle.NewIdentityMiddleware(middle.IdentityMiddlewareParams{Config: cfg}),
		RequestLogMiddleware: middle.NewRequestLogMiddleware(middle.RequestLogMiddlewareParams{
			RequestLogs:   repository.NewRequestLogRepository(db),
			TracerFactory: telemetry.NewTracerFactory(telemetry.TracerFactoryParams{}),
			Logger:        logger,
		}),
		Logger: logger,
	})

	return &testAPI{db: db, handler: handler}
}

func (a *testAPI) do(t *testing.T, method, path, body, caller string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req.Header.Set("X-User-ID", caller)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequiredFieldMessages(t *testing.T) {
	a := newTestAPI(t)

	for _, tc := range []struct {
		path    string
		body    string
		message string
	}{
		{"/api/admin/consume-code", `{"code":"X"}`, "code and uid are required"},
		{"/api/projects/p1/assign-manager", `{"managerId":"m"}`, "managerId, managerType and transferredBy are required"},
		{"/api/tasks/t1/proofs", `{"submitterId":"s","type":"link"}`, "submitterId, type and url are required"},
		{"/api/tasks/t1/proofs/p1/review", `{"reviewerId":"r"}`, "reviewerId and approved(boolean) are required"},
		{"/api/tasks/t1/reassign", `{"newAssigneeId":"a"}`, "newAssigneeId and performedBy are required"},
		{"/api/ai/generate-project-tasks", `{"workspaceId":"w"}`, "projectDescription is required"},
	} {
		t.Run(tc.path, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, tc.path, tc.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestAdminInviteScenario(t *testing.T) {
	a := newTestAPI(t)
	require.NoError(t, a.db.Create(&models.AdminInvite{Code: "MASTER-AB12CD", Role: "super_admin"}).Error)

	rec := a.do(t, http.MethodPost, "/api/admin/verify-code", `{"code":"MASTER-AB12CD"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"subRole":"super_admin"}`, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/api/admin/consume-code", `{"code":"MASTER-AB12CD","uid":"u1"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/users/u1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[models.UserProfile](t, rec)
	assert.Equal(t, models.RoleAdmin, profile.Role)
	assert.Equal(t, "super_admin", profile.SubRole)
	assert.True(t, profile.OnboardingCompleted)
	assert.True(t, profile.IntroSeen)

	rec = a.do(t, http.MethodPost, "/api/admin/consume-code", `{"code":"MASTER-AB12CD","uid":"u2"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Code already used", decode[ErrorResponse](t, rec).Error)

	rec = a.do(t, http.MethodPost, "/api/admin/verify-code", `{"code":"MASTER-AB12CD"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":false}`, rec.Body.String())
}

func TestSeedEndpoint(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/admin/seed", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[service.SeedResult](t, rec)
	assert.True(t, first.Success)
	assert.Regexp(t, `^MASTER-[0-9A-Z]{6}$`, first.Code)

	rec = a.do(t, http.MethodGet, "/api/admin/seed", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[service.SeedResult](t, rec)
	assert.False(t, second.Success)
	assert.Equal(t, "Active Master Code already exists", second.Message)
	assert.Equal(t, first.Code, second.Code)
}

func TestGenerateTasksPlanGate(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/workspaces", `{"name":"Free WS"}`, "owner")
	require.Equal(t, http.StatusCreated, rec.Code)
	free := decode[models.Workspace](t, rec)

	rec = a.do(t, http.MethodPost, "/api/ai/generate-project-tasks",
		`{"projectDescription":"Design the logo","workspaceId":"`+free.ID+`"}`, "owner")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AI automation is available for Pro plan only", decode[ErrorResponse](t, rec).Error)

	rec = a.do(t, http.MethodPost, "/api/ai/generate-project-tasks",
		`{"projectDescription":"Design the logo","workspaceId":"missing"}`, "owner")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/workspaces", `{"name":"Pro WS","plan":"pro"}`, "owner")
	require.Equal(t, http.StatusCreated, rec.Code)
	pro := decode[models.Workspace](t, rec)

	rec = a.do(t, http.MethodPost, "/api/ai/generate-project-tasks",
		`{"projectDescription":"Design the logo and build the website","opts":{"budget":200},"workspaceId":"`+pro.ID+`"}`, "owner")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[GenerateTasksResponse](t, rec)
	assert.True(t, resp.Success)
	require.Len(t, resp.Tasks, 2)
	assert.Equal(t, "Design the logo", resp.Tasks[0].Title)
}

func TestProofWorkflowOverHTTP(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/projects", `{"title":"Site","budget":100}`, "owner")
	require.Equal(t, http.StatusCreated, rec.Code)
	project := decode[models.Project](t, rec)

	rec = a.do(t, http.MethodPost, "/api/projects/"+project.ID+"/tasks", `{"title":"Logo","status":"in-progress","assigneeId":"va1"}`, "owner")
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode[models.Task](t, rec)

	rec = a.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/proofs", `{"submitterId":"va1","type":"link","url":"https://x"}`, "va1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/tasks/"+task.ID+"/proofs", "", "owner")
	require.Equal(t, http.StatusOK, rec.Code)
	proofs := decode[ListProofsResponse](t, rec)
	require.Len(t, proofs.Proofs, 1)

	rec = a.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/proofs/"+proofs.Proofs[0].ID+"/review", `{"reviewerId":"owner","approved":true}`, "owner")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/projects/"+project.ID+"/tasks", "", "owner")
	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode[ListTasksResponse](t, rec)
	require.Len(t, tasks.Tasks, 1)
	assert.Equal(t, models.TaskStatusDone, tasks.Tasks[0].Status)

	rec = a.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/proofs/missing/review", `{"reviewerId":"owner","approved":false}`, "owner")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Proof not found", decode[ErrorResponse](t, rec).Error)

	rec = a.do(t, http.MethodGet, "/api/projects/stats", "", "owner")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ProjectStats{Total: 1, Running: 1}, decode[models.ProjectStats](t, rec))
}

func TestMailOverHTTP(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/users/u2/onboarding", `{"username":"bob","role":"va"}`, "u2")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/mail", `{"recipientUsername":"bob","subject":"Hi","body":"there"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/mail", `{"recipientUsername":"ghost","subject":"Hi","body":"there"}`, "u1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User @ghost not found.", decode[ErrorResponse](t, rec).Error)

	rec = a.do(t, http.MethodPost, "/api/mail", `{"recipientUsername":"bob","subject":"Hi","body":"there"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/mail/inbox", "", "u2")
	require.Equal(t, http.StatusOK, rec.Code)
	inbox := decode[ListMailResponse](t, rec)
	require.Len(t, inbox.Mails, 1)
	assert.Equal(t, "Hi", inbox.Mails[0].Subject)

	rec = a.do(t, http.MethodGet, "/api/mail/sent", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[ListMailResponse](t, rec).Mails, 1)

	mailID := inbox.Mails[0].ID
	rec = a.do(t, http.MethodPost, "/api/mail/"+mailID+"/read", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/mail/inbox", "", "u2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[ListMailResponse](t, rec).Mails[0].IsRead)

	rec = a.do(t, http.MethodPost, "/api/mail/"+mailID+"/read", "", "u2")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/mail/inbox", "", "u2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ListMailResponse](t, rec).Mails[0].IsRead)
}

func TestUsernameAvailability(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/usernames/alice", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","available":true}`, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/api/users/u1/onboarding", `{"username":"Alice","role":"employer"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/usernames/ALICE", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"ALICE","available":false,"uid":"u1"}`, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/api/users/u2/onboarding", `{"username":"ab","role":"va"}`, "u2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username must be at least 3 characters", decode[ErrorResponse](t, rec).Error)
}

func TestNotFoundResources(t *testing.T) {
	a := newTestAPI(t)

	for _, path := range []string{
		"/api/users/nobody",
		"/api/projects/nope",
		"/api/workspaces/nope",
		"/api/jobs/nope",
		"/api/agencies/nope",
	} {
		rec := a.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestPresenceWithoutRedis(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPut, "/api/presence/u1", `{"online":true}`, "u1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "presence is not configured", decode[ErrorResponse](t, rec).Error)
}

func TestRequestsAreAudited(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/jobs?limit=5", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middle.RequestIDHeader))

	var logs []models.RequestLog
	require.NoError(t, a.db.WithContext(context.Background()).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "/api/jobs", logs[0].RawEndpoint)
	assert.Equal(t, "u1", logs[0].CallerID)
}
