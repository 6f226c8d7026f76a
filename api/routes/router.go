package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/autoshop-backend/api/controllers"
	"github.com/angelmondragon/autoshop-backend/api/middleware"
	"github.com/angelmondragon/autoshop-backend/pkg/config"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/autoshop-backend/pkg/redis"
)

// redisStore is satisfied by *redis.Client.
type redisStore interface {
	pkgredis.IdempotencyStore
	middleware.FixedWindowStore
	controllers.Pinger
}

// RouterParams carries everything the HTTP surface needs. Redis is optional;
// without it create calls are not deduplicated and /track is not throttled.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        redisStore
	Gatherer     prometheus.Gatherer
	Procurements controllers.ProcurementService
	Deployments  controllers.DeploymentService
	Parts        controllers.PartService
	Users        controllers.UserService
	Reconciler   controllers.Reconciler
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.ExposeErrorCauses(!cfg.App.IsProd()),
	)

	var idempotencyStore pkgredis.IdempotencyStore
	readyDeps := []controllers.Dependency{{Name: "database", Pinger: p.DB}}
	trackLimit := func(next http.Handler) http.Handler { return next }
	if p.Redis != nil {
		idempotencyStore = p.Redis
		readyDeps = append(readyDeps, controllers.Dependency{Name: "redis", Pinger: p.Redis})
		trackPolicy := middleware.NewRateLimitPolicy("track", cfg.RateLimit.TrackWindow, cfg.RateLimit.TrackIPLimit)
		trackLimit = middleware.RateLimit(trackPolicy, p.Redis, logg)
	}
	idempotent := middleware.Idempotency(idempotencyStore, logg, middleware.IdempotencyOptions{
		RequireKey: cfg.FeatureFlags.RequireIdemKey,
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps...))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/procurements", func(r chi.Router) {
			r.Get("/", controllers.ProcurementList(p.Procurements, logg))
			r.With(idempotent).Post("/", controllers.ProcurementCreate(p.Procurements, logg))
			r.Get("/{id}", controllers.ProcurementGet(p.Procurements, logg))
			r.Patch("/{id}", controllers.ProcurementUpdate(p.Procurements, logg))
			r.Delete("/{id}", controllers.ProcurementDelete(p.Procurements, logg))
			r.Patch("/{id}/restore", controllers.ProcurementRestore(p.Procurements, logg))
		})

		r.Route("/deployments", func(r chi.Router) {
			r.Get("/", controllers.DeploymentList(p.Deployments, logg))
			r.With(idempotent).Post("/", controllers.DeploymentCreate(p.Deployments, logg))
			r.Get("/{id}", controllers.DeploymentGet(p.Deployments, logg))
			r.Patch("/{id}", controllers.DeploymentUpdate(p.Deployments, logg))
			r.Delete("/{id}", controllers.DeploymentDelete(p.Deployments, logg))
			r.Patch("/{id}/restore", controllers.DeploymentRestore(p.Deployments, logg))
		})

		r.Route("/parts", func(r chi.Router) {
			r.Get("/", controllers.PartList(p.Parts, logg))
			r.Get("/{id}", controllers.PartGet(p.Parts, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(p.Users, logg))
			r.With(idempotent).Post("/", controllers.UserCreate(p.Users, logg))
			r.Get("/{id}", controllers.UserGet(p.Users, logg))
		})

		r.With(trackLimit).Get("/track", controllers.TrackVehicle(p.Deployments, logg))
		r.Post("/reconcile", controllers.ReconcileRun(p.Reconciler, logg))
	})

	return r
}
