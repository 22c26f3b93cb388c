package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wmhi/site-portal/internal/constants"
	"github.com/wmhi/site-portal/internal/middleware"
	"github.com/wmhi/site-portal/internal/services"
	"go.uber.org/zap"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Workspace *services.Workspace
	Auth      *services.AuthService
	Team      *services.TeamService
	Jobs      *services.JobService
	Tasks     *services.TaskService
	AI        *services.AIService
}

// NewServices builds the service layer over one workspace.
func NewServices(ws *services.Workspace, ai *services.AIService) Services {
	return Services{
		Workspace: ws,
		Auth:      services.NewAuthService(ws),
		Team:      services.NewTeamService(ws),
		Jobs:      services.NewJobService(ws),
		Tasks:     services.NewTaskService(ws),
		AI:        ai,
	}
}

// NewRouter wires every route onto a fresh engine.
func NewRouter(svc Services, store sessions.Store, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Team, svc.Auth)
	jobHandler := NewJobHandler(svc.Jobs, svc.Team, svc.AI)
	overviewHandler := NewOverviewHandler(svc.Jobs, svc.Team)
	taskHandler := NewTaskHandler(svc.Tasks)

	requireAuth := middleware.RequireAuth(svc.Workspace)
	requireAdmin := middleware.RequireAdmin()
	jobAccess := middleware.RequireJobAccess(svc.Jobs)
	taskAccess := middleware.RequireTaskAccess(svc.Tasks)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Site portal is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", requireAdmin, userHandler.AddUser)
			users.PATCH("/:id", requireAdmin, userHandler.UpdateUser)
			users.DELETE("/:id", requireAdmin, userHandler.RemoveUser)
			users.POST("/:id/password", requireAdmin, userHandler.ResetPassword)
		}

		jobs := api.Group("/jobs")
		jobs.Use(requireAuth)
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("/selected", jobHandler.GetSelectedJob)

			job := jobs.Group("/:id", jobAccess)
			job.GET("", jobHandler.GetJob)
			job.PATCH("", jobHandler.UpdateJob)
			job.DELETE("", requireAdmin, jobHandler.DeleteJob)
			job.POST("/select", jobHandler.SelectJob)
			job.GET("/messages", jobHandler.SearchMessages)
			job.POST("/messages", jobHandler.SendMessage)
			job.POST("/photos", jobHandler.UploadPhoto)
			job.GET("/notes", jobHandler.SearchNotes)
			job.POST("/notes", jobHandler.AddNote)
			job.POST("/documents", jobHandler.AddDocument)
			job.DELETE("/documents/:field/:index", jobHandler.RemoveDocument)
			job.PUT("/forms/:field", jobHandler.SetForm)
			job.POST("/summary", jobHandler.SummarizeChat)
			job.POST("/client-update", jobHandler.DraftClientUpdate)
		}

		api.GET("/inbox", requireAuth, overviewHandler.Inbox)
		api.GET("/dashboard", requireAuth, overviewHandler.Dashboard)
		api.GET("/reports/completed", requireAuth, overviewHandler.CompletedReport)

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("/board", taskHandler.Board)
			tasks.GET("/assignable", taskHandler.AssignableUsers)
			tasks.POST("", taskHandler.CreateTask)

			task := tasks.Group("/:id", taskAccess)
			task.GET("", taskHandler.GetTask)
			task.PATCH("", taskHandler.UpdateTask)
			task.DELETE("", taskHandler.DeleteTask)
			task.POST("/toggle", taskHandler.ToggleStatus)
			task.POST("/status", taskHandler.SetStatus)
			task.POST("/attachments", taskHandler.UploadAttachment)
			task.POST("/comments", taskHandler.AddComment)
		}
	}

	return r
}
