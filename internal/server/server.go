package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"classfit/internal/auth"
	"classfit/internal/booking"
	"classfit/internal/classes"
	"classfit/internal/config"
	"classfit/internal/email"
	"classfit/internal/member"
	"classfit/internal/profile"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, emailService *email.Service) *Server {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	var cache classes.ScheduleCache
	if rdb != nil {
		cache = classes.NewCache(rdb, 5*time.Minute)
	} else {
		cache = classes.NewNoopCache()
	}

	profileRepo := profile.NewRepository(db)
	reconciler := profile.NewReconciler(profileRepo)
	memberRepo := member.NewRepository(db)
	memberService := member.NewService(memberRepo, reconciler, welcomer(emailService), cfg.JWTSecret)
	classService := classes.NewService(classes.NewRepository(db), cache)
	bookingService := booking.NewService(booking.NewRepository(db), classService, memberRepo, notifier(emailService))

	memberHandler := member.NewHandler(memberService)
	profileHandler := profile.NewHandler(profileRepo)
	classHandler := classes.NewHandler(classService)
	bookingHandler := booking.NewHandler(bookingService, booking.NewAnalyticsRepository(db))

	public := router.Group("/auth")
	{
		public.POST("/register", memberHandler.Register)
		public.POST("/login", memberHandler.Login)
		public.POST("/refresh", memberHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", profileHandler.GetDashboard)
		protected.GET("/classes", classHandler.ListClassTypes)
		protected.GET("/classes/schedules", classHandler.ListSchedules)
		protected.GET("/classes/my-bookings", bookingHandler.MyBookings)
		protected.POST("/classes/book", bookingHandler.Book)
		protected.POST("/classes/cancel", bookingHandler.Cancel)
		protected.POST("/classes/toggle", bookingHandler.Toggle)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.GET("/schedules/:scheduleID/bookings", bookingHandler.BookingsBySchedule)
		admin.GET("/analytics/bookings", bookingHandler.BookingAnalytics)
		admin.GET("/analytics/memberships", bookingHandler.MembershipAnalytics)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	if emailService != nil {
		router.GET("/test-email", TestEmail(emailService))
	}
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

// notifier keeps the booking service's Notifier nil when email is not
// configured; a typed nil inside the interface would defeat the check.
func notifier(svc *email.Service) booking.Notifier {
	if svc == nil {
		return nil
	}
	return svc
}

func welcomer(svc *email.Service) member.Notifier {
	if svc == nil {
		return nil
	}
	return svc
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
