package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"blogpress/cmd/fx/accessibility_fx"
	"blogpress/cmd/fx/account_fx"
	"blogpress/cmd/fx/config_fx"
	"blogpress/cmd/fx/contact_fx"
	"blogpress/cmd/fx/controllers_fx"
	"blogpress/cmd/fx/dashboard"
	"blogpress/cmd/fx/db_fx"
	"blogpress/cmd/fx/embedding_fx"
	"blogpress/cmd/fx/feedback_fx"
	"blogpress/cmd/fx/mail_fx"
	"blogpress/cmd/fx/memcache_fx"
	"blogpress/cmd/fx/notification_fx"
	"blogpress/cmd/fx/posts_fx"
	"blogpress/cmd/fx/storage_fx"
	"blogpress/cmd/fx/tagsfx"
	"blogpress/internal/api/controllers"
	"blogpress/internal/config"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
	"blogpress/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		notification_fx.Module,
		account_fx.Module,
		embedding_fx.Module,
		posts_fx.Module,
		tagsfx.Module,
		feedback_fx.Module,
		contact_fx.Module,
		dashboard.Module,
		storage_fx.Module,
		accessibility_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, logger logging.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.WithField("addr", srv.Addr).Info("starting HTTP server")
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.WithError(err).Error("HTTP server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

// Handlers groups every controller the router needs.
type Handlers struct {
	fx.In

	Accounts      *controllers.AccountController
	Posts         *controllers.PostController
	Tags          *controllers.TagController
	Feedback      *controllers.FeedbackController
	Contact       *controllers.ContactController
	Admin         *controllers.AdminController
	Uploads       *controllers.UploadController
	Accessibility *controllers.AccessibilityController
}

func ProvideRouter(
	cfg config.Config,
	logger logging.Logger,
	m *metrics.Metrics,
	sessions services.AccountServiceInterface,
	h Handlers,
) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger, m))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, sessions, m, h)

	return r
}

func RegisterRoutes(r *gin.Engine, sessions middleware.SessionResolver, m *metrics.Metrics, h Handlers) {
	requireUser := middleware.JWTAuthMiddleware(sessions)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.Accounts.Register)
	authGroup.POST("/login", h.Accounts.Login)
	authGroup.POST("/logout", requireUser, h.Accounts.Logout)
	authGroup.GET("/session", requireUser, h.Accounts.Session)
	authGroup.PATCH("/profile", requireUser, h.Accounts.UpdateProfile)

	postsGroup := r.Group("/posts")
	postsGroup.GET("", h.Posts.ListPosts)
	postsGroup.GET("/:id", h.Posts.GetPost)
	postsGroup.GET("/:id/related", h.Posts.RelatedPosts)
	postsGroup.GET("/:id/feedback", requireUser, h.Feedback.ListFeedbackForPost)
	postsGroup.POST("", requireUser, h.Posts.CreatePost)
	postsGroup.PUT("/:id", requireUser, h.Posts.UpdatePost)
	postsGroup.DELETE("/:id", requireUser, h.Posts.DeletePost)

	r.GET("/authors/:id/posts", h.Posts.ListPostsByAuthor)
	r.GET("/tags", h.Tags.ListTags)
	r.POST("/uploads/cover", requireUser, h.Uploads.UploadCover)

	r.POST("/feedback", h.Feedback.SubmitFeedback)
	r.POST("/contact", h.Contact.SubmitContact)
	r.POST("/functions/send-contact-email", h.Contact.SendContactEmail)
	r.POST("/accessibility/logs", middleware.OptionalAuthMiddleware(sessions), h.Accessibility.LogAction)

	adminGroup := r.Group("/admin", requireUser, middleware.AdminMiddleware())
	adminGroup.GET("/dashboard", h.Admin.GetDashboard)
	adminGroup.GET("/feedback", h.Feedback.ListFeedback)
	adminGroup.PATCH("/feedback/:id/status", h.Feedback.UpdateFeedbackStatus)
	adminGroup.GET("/contact-messages", h.Contact.ListContactMessages)
	adminGroup.GET("/notifications", h.Admin.ListNotifications)
	adminGroup.POST("/notifications/:id/retry", h.Admin.RetryNotification)
}
