package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskmanager/config"
	authcontroller "taskmanager/controller/auth"
	notificationcontroller "taskmanager/controller/notification"
	taskcontroller "taskmanager/controller/task"
	usercontroller "taskmanager/controller/user"
	workcontroller "taskmanager/controller/work"
	"taskmanager/httpx"
	"taskmanager/middleware"
	"taskmanager/repository"
	"taskmanager/repository/memory"
	"taskmanager/services"
)

// Backend is the set of stores and the image host the services run on.
type Backend struct {
	Users         services.UserStore
	RefreshTokens services.RefreshTokenStore
	Tasks         services.TaskStore
	Works         services.WorkStore
	Notifications services.NotificationStore
	Images        services.ImageHost
}

// MemoryBackend keeps everything in process memory.
func MemoryBackend() Backend {
	store := memory.NewStore()
	return Backend{
		Users:         store,
		RefreshTokens: store,
		Tasks:         store,
		Works:         store,
		Notifications: store,
		Images:        memory.NewImageHost(),
	}
}

func FirestoreBackend(fb *Firebase) Backend {
	store := repository.NewStore(fb.Firestore)
	return Backend{
		Users:         store,
		RefreshTokens: store,
		Tasks:         store,
		Works:         store,
		Notifications: store,
		Images:        repository.NewImageHost(fb.Bucket, fb.BucketName),
	}
}

// Verifiers are the optional third-party checks. A nil field turns the
// matching feature off.
type Verifiers struct {
	Captcha services.CaptchaVerifier
	Google  services.IdentityVerifier
}

// NewRouter wires services over b and registers every route under /api.
func NewRouter(cfg config.Config, b Backend, v Verifiers) *gin.Engine {
	httpx.UseJSONFieldNames()

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, b.RefreshTokens)
	notifications := services.NewNotificationService(b.Notifications)
	users := services.NewUserService(b.Users, b.Images, tokens)
	tasks := services.NewTaskService(b.Tasks, b.Works, b.Users, b.Images, notifications)
	works := services.NewWorkService(b.Works, b.Tasks, b.Images, notifications)
	reminders := services.NewReminderService(b.Tasks, notifications)
	authService := services.NewAuthService(users, tokens, v.Captcha, v.Google)

	access := middleware.AccessTokenMiddleware(tokens)
	refresh := middleware.RefreshTokenMiddleware(tokens)
	cron := middleware.CronSecretMiddleware(cfg.CronSecret)

	api := router.Group("/api", middleware.BodyLimit(cfg.MaxUploadBytes), middleware.SanitizeJSONMiddleware())

	authcontroller.SignUpController(api, authService)
	authcontroller.SignInController(api, authService)
	authcontroller.SessionController(api, access, refresh, authService, users)
	authcontroller.GoogleSignInController(api, authService)
	authcontroller.CaptchaController(api, authService)
	usercontroller.UserController(api, access, users)
	taskcontroller.TaskController(api, access, tasks, users)
	workcontroller.WorkController(api, access, works, users)
	notificationcontroller.NotificationController(api, access, cron, notifications, reminders)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Cron-Secret"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// StartServer opens the configured backend and serves until SIGINT or
// SIGTERM, then drains in-flight requests for up to 30 seconds.
func StartServer(cfg config.Config) error {
	gin.SetMode(cfg.GinMode)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var backend Backend
	switch cfg.StoreDriver {
	case config.DriverMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		backend = MemoryBackend()
	default:
		fb, err := FBConnection(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect firebase: %w", err)
		}
		defer fb.Close()
		backend = FirestoreBackend(fb)
	}

	var verifiers Verifiers
	if cfg.CaptchaEnabled() {
		rv, err := services.NewRecaptchaVerifier(ctx, cfg.GoogleCloudProjectID, cfg.RecaptchaSiteKey, cfg.RecaptchaCredentials)
		if err != nil {
			return err
		}
		defer rv.Close()
		verifiers.Captcha = rv
	}
	if cfg.GoogleClientID != "" {
		gv, err := services.NewGoogleVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			return err
		}
		verifiers.Google = gv
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, backend, verifiers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
