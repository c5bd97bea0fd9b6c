package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storerater-backend/api/controllers"
	"github.com/angelmondragon/storerater-backend/api/middleware"
	"github.com/angelmondragon/storerater-backend/internal/admin"
	"github.com/angelmondragon/storerater-backend/internal/auth"
	"github.com/angelmondragon/storerater-backend/internal/ratings"
	"github.com/angelmondragon/storerater-backend/internal/stores"
	"github.com/angelmondragon/storerater-backend/pkg/config"
	"github.com/angelmondragon/storerater-backend/pkg/db"
	"github.com/angelmondragon/storerater-backend/pkg/enums"
	"github.com/angelmondragon/storerater-backend/pkg/logger"
	"github.com/angelmondragon/storerater-backend/pkg/metrics"
	"github.com/angelmondragon/storerater-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	storeService stores.Service,
	ratingService ratings.Service,
	adminService admin.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive(cfg))
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Put("/update-password", controllers.AuthUpdatePassword(authService, logg))
	})

	r.Route("/api/stores", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.StoreList(storeService, logg))
		r.Get("/{storeId}", controllers.StoreDetail(storeService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleSystemAdmin))
			r.Post("/", controllers.AdminStoreCreate(adminService, logg))
			r.Put("/{storeId}", controllers.AdminStoreUpdate(adminService, logg))
			r.Delete("/{storeId}", controllers.AdminStoreDelete(adminService, logg))
		})
	})

	r.Route("/api/ratings", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleNormal)).Post("/", controllers.RatingSubmit(ratingService, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleNormal)).Get("/user", controllers.MyRatings(ratingService, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleStoreOwner, enums.UserRoleSystemAdmin)).
			Get("/store/{storeId}", controllers.StoreRatings(ratingService, storeService, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleNormal, enums.UserRoleSystemAdmin)).
			Delete("/{ratingId}", controllers.RatingDelete(ratingService, logg))
	})

	r.Route("/api/store-owner", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.UserRoleStoreOwner))
		r.Get("/store", controllers.OwnerStore(storeService, logg))
		r.Get("/store/ratings", controllers.OwnerStoreRatings(ratingService, storeService, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.UserRoleSystemAdmin))
		r.Get("/dashboard", controllers.AdminDashboard(adminService, logg))
		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(adminService, logg))
			r.Post("/", controllers.AdminUserCreate(adminService, logg))
			r.Get("/{userId}", controllers.AdminUserGet(adminService, logg))
			r.Put("/{userId}", controllers.AdminUserUpdate(adminService, logg))
			r.Delete("/{userId}", controllers.AdminUserDelete(adminService, logg))
		})
		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.AdminStoreList(adminService, logg))
			r.Post("/", controllers.AdminStoreCreate(adminService, logg))
			r.Put("/{storeId}", controllers.AdminStoreUpdate(adminService, logg))
			r.Delete("/{storeId}", controllers.AdminStoreDelete(adminService, logg))
		})
	})

	return r
}
