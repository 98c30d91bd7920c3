package web

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"toy-admin/internal/config"
	"toy-admin/internal/usecase"
)

// Deps are the collaborators the admin API needs. Limiter and Ping are optional.
type Deps struct {
	Devices usecase.DeviceCredentialUseCase
	Toys    usecase.ToyUseCase
	Parents usecase.ParentProfileUseCase
	Logins  usecase.LoginHistoryUseCase
	Bugs    usecase.BugReportUseCase
	Stats   usecase.StatsUseCase

	Auth      *AuthManager
	Account   AdminAccount
	Passwords PasswordChecker
	Limiter   LoginLimiter
	Ping      func(ctx context.Context) error

	// TrustedProxies may rewrite the client address via forwarding headers.
	TrustedProxies []netip.Prefix
}

type Server struct {
	devices usecase.DeviceCredentialUseCase
	toys    usecase.ToyUseCase
	parents usecase.ParentProfileUseCase
	logins  usecase.LoginHistoryUseCase
	bugs    usecase.BugReportUseCase
	stats   usecase.StatsUseCase

	auth      *AuthManager
	account   AdminAccount
	passwords PasswordChecker
	limiter   LoginLimiter
	ping      func(ctx context.Context) error
	proxies   []netip.Prefix

	validator      *Validator
	requestTimeout time.Duration
	log            *zerolog.Logger
}

func NewServer(d Deps, requestTimeout time.Duration, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		devices:        d.Devices,
		toys:           d.Toys,
		parents:        d.Parents,
		logins:         d.Logins,
		bugs:           d.Bugs,
		stats:          d.Stats,
		auth:           d.Auth,
		account:        d.Account,
		passwords:      d.Passwords,
		limiter:        d.Limiter,
		ping:           d.Ping,
		proxies:        d.TrustedProxies,
		validator:      NewValidator(),
		requestTimeout: requestTimeout,
		log:            &l,
	}
}

// Routes builds the chi router for the admin API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RealIP(s.proxies))
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(Timeout(s.requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/me", s.handleMe)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Route("/devices", func(r chi.Router) {
				r.Get("/", s.listDevices)
				r.Post("/", s.createDevice)
				r.Get("/{macID}", s.getDevice)
				r.Patch("/{macID}", s.updateDevice)
				r.Delete("/{macID}", s.deleteDevice)
			})
			r.Route("/toys", func(r chi.Router) {
				r.Get("/", s.listToys)
				r.Post("/", s.createToy)
				r.Get("/{id}", s.getToy)
				r.Patch("/{id}", s.updateToy)
				r.Delete("/{id}", s.deleteToy)
			})
			r.Route("/parents", func(r chi.Router) {
				r.Get("/", s.listParents)
				r.Post("/", s.createParent)
				r.Get("/{id}", s.getParent)
				r.Patch("/{id}", s.updateParent)
				r.Delete("/{id}", s.deleteParent)
			})
			r.Route("/logins", func(r chi.Router) {
				r.Get("/", s.listLogins)
				r.Get("/{id}", s.getLogin)
				r.Patch("/{id}", s.updateLogin)
				r.Delete("/{id}", s.deleteLogin)
			})
			r.Route("/bugs", func(r chi.Router) {
				r.Get("/", s.listBugs)
				r.Post("/", s.createBug)
				r.Get("/{id}", s.getBug)
				r.Patch("/{id}", s.updateBug)
				r.Delete("/{id}", s.deleteBug)
			})
			r.Get("/stats", s.handleStats)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

// NewHTTPServer wraps handler with the configured listen address and timeouts.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("health check failed")
			writeFail(w, http.StatusServiceUnavailable, "store_unavailable", "database unreachable")
			return
		}
	}
	writeOK(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pageParams reads offset/limit; bad values fall back to the use case defaults.
func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return offset, limit
}
