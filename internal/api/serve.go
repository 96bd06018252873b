package api

import (
	"context"
	"net/http"

	"connekt/config"
	"connekt/internal/middle"
	"connekt/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RouterParams struct {
	fx.In

	DB         *gorm.DB
	Identity   service.IdentityService
	Projects   service.ProjectService
	Workflow   service.WorkflowService
	Mail       service.MailService
	Invites    service.InviteService
	Workspaces service.WorkspaceService
	Market     service.MarketService
	Presence   service.PresenceService

	IdentityMiddleware   *middle.IdentityMiddleware
	RequestLogMiddleware *middle.RequestLogMiddleware
	Logger               *zap.Logger
}

// NewRouter mounts every endpoint behind the identity and request log middlewares.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(p.IdentityMiddleware.Middleware)
	r.Use(p.RequestLogMiddleware.Middleware)

	r.Get("/health", handleHealth(p.DB, p.Logger))

	r.Route("/api", func(r chi.Router) {
		// admin invites
		r.Post("/admin/verify-code", handleVerifyCode(p.Invites, p.Logger))
		r.Post("/admin/consume-code", handleConsumeCode(p.Invites, p.Logger))
		r.Get("/admin/seed", handleSeed(p.Invites, p.Logger))

		// ai
		r.Post("/ai/generate-project-tasks", handleGenerateProjectTasks(p.Workspaces, p.Logger))

		// users
		r.Get("/users/{uid}", handleGetProfile(p.Identity, p.Logger))
		r.Patch("/users/{uid}", handleMergeProfile(p.Identity, p.Logger))
		r.Post("/users/{uid}/ensure", handleEnsureProfile(p.Identity, p.Logger))
		r.Post("/users/{uid}/onboarding", handleOnboarding(p.Identity, p.Logger))
		r.Post("/users/{uid}/intro-seen", handleIntroSeen(p.Identity, p.Logger))
		r.Get("/usernames/{username}", handleUsername(p.Identity, p.Logger))

		// projects
		r.Post("/projects", handleCreateProject(p.Projects, p.Logger))
		r.Get("/projects", handleListProjects(p.Projects, p.Logger))
		r.Get("/projects/stats", handleProjectStats(p.Projects, p.Logger))
		r.Get("/projects/{projectId}", handleGetProject(p.Projects, p.Logger))
		r.Post("/projects/{projectId}/assign-manager", handleAssignManager(p.Workflow, p.Logger))
		r.Post("/projects/{projectId}/tasks", handleCreateTask(p.Projects, p.Logger))
		r.Get("/projects/{projectId}/tasks", handleListTasks(p.Projects, p.Logger))

		// tasks
		r.Patch("/tasks/{taskId}/status", handleUpdateTaskStatus(p.Projects, p.Logger))
		r.Delete("/tasks/{taskId}", handleDeleteTask(p.Projects, p.Logger))
		r.Post("/tasks/{taskId}/proofs", handleSubmitProof(p.Workflow, p.Logger))
		r.Get("/tasks/{taskId}/proofs", handleListProofs(p.Workflow, p.Logger))
		r.Post("/tasks/{taskId}/proofs/{proofId}/review", handleReviewProof(p.Workflow, p.Logger))
		r.Post("/tasks/{taskId}/reassign", handleReassignTask(p.Workflow, p.Logger))
		r.Post("/tasks/{taskId}/release-payment", handleReleasePayment(p.Workflow, p.Logger))

		// mail
		r.Post("/mail", handleSendMail(p.Mail, p.Identity, p.Logger))
		r.Get("/mail/inbox", handleInbox(p.Mail, p.Logger))
		r.Get("/mail/sent", handleSent(p.Mail, p.Logger))
		r.Post("/mail/{mailId}/read", handleMarkRead(p.Mail, p.Logger))

		// marketplace
		r.Post("/workspaces", handleCreateWorkspace(p.Workspaces, p.Logger))
		r.Get("/workspaces/{workspaceId}", handleGetWorkspace(p.Workspaces, p.Logger))
		r.Post("/jobs", handleCreateJob(p.Market, p.Logger))
		r.Get("/jobs", handleListJobs(p.Market, p.Logger))
		r.Get("/jobs/{jobId}", handleGetJob(p.Market, p.Logger))
		r.Post("/agencies", handleCreateAgency(p.Market, p.Logger))
		r.Get("/agencies/{agencyId}", handleGetAgency(p.Market, p.Logger))

		// presence
		r.Put("/presence/{uid}", handleSetPresence(p.Presence, p.Logger))
		r.Get("/presence/{uid}", handleGetPresence(p.Presence, p.Logger))
	})

	return r
}

type ServerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Handler   http.Handler
	Logger    *zap.Logger
	Config    *config.AppConfig
}

// NewAPIServer creates the HTTP server and ties it to the fx lifecycle.
func NewAPIServer(params ServerParams) *http.Server {
	server := &http.Server{
		Addr:    params.Config.Addr(),
		Handler: params.Handler,
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				params.Logger.Info("starting API server", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					params.Logger.Fatal("failed to start API server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})

	return server
}

var Module = fx.Module("api",
	fx.Provide(
		NewRouter,
	),
	fx.Invoke(
		NewAPIServer,
	),
)
