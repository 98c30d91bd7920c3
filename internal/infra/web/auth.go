package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"toy-admin/internal/domain"
	"toy-admin/internal/infra/logging"
	"toy-admin/internal/infra/metrics"
	red "toy-admin/internal/infra/redis"
)

// ===== Session/JWT primitives =====

type AuthConfig struct {
	HMACSecret   []byte
	CookieName   string
	CookieDomain string
	SecureCookie bool
	TTL          time.Duration
}

type AuthManager struct{ cfg AuthConfig }

func NewAuthManager(secret string, secure bool, domain string, ttl time.Duration) *AuthManager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthManager{cfg: AuthConfig{
		HMACSecret:   []byte(secret),
		CookieName:   "admin_session",
		CookieDomain: domain, // "" keeps the cookie host-only
		SecureCookie: secure, // true behind TLS
		TTL:          ttl,
	}}
}

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Mint signs a session for username and sets it as an HttpOnly cookie.
func (a *AuthManager) Mint(w http.ResponseWriter, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(a.cfg.TTL)
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			Subject:   username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.cfg.HMACSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	c := &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    signed,
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   int(a.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, c)
	return signed, exp, nil
}

func (a *AuthManager) Clear(w http.ResponseWriter) {
	c := &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   a.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, c)
}

func (a *AuthManager) ParseFromRequest(r *http.Request) (*AdminClaims, error) {
	// Authorization: Bearer <jwt>
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return a.parse(strings.TrimSpace(hdr[7:]))
		}
	}
	// Cookie
	if c, err := r.Cookie(a.cfg.CookieName); err == nil {
		return a.parse(c.Value)
	}
	return nil, errors.New("missing token")
}

func (a *AuthManager) parse(tok string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.Role != "admin" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ===== Login =====

// PasswordChecker compares a stored bcrypt hash with a candidate password.
type PasswordChecker interface {
	Compare(hash, plain string) bool
}

// LoginLimiter bounds login attempts per client key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// AdminAccount is the single operator identity allowed into the dashboard.
type AdminAccount struct {
	Username     string
	PasswordHash string
	LoginLimit   int
	LoginWindow  time.Duration
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

type sessionResponse struct {
	Username  string    `json:"username"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	log := logging.With(r.Context(), s.log)

	if s.limiter != nil && s.account.LoginLimit > 0 {
		ok, err := s.limiter.Allow(r.Context(), red.LoginAttemptKey(clientIP(r)), s.account.LoginLimit, s.account.LoginWindow)
		switch {
		case err != nil:
			// fail open; the password check still applies
			log.Warn().Err(err).Msg("login rate limiter unavailable")
		case !ok:
			metrics.IncAdminLogin("throttled")
			w.Header().Set("Retry-After", retryAfterSeconds(s.account.LoginWindow))
			writeFail(w, http.StatusTooManyRequests, "too_many_attempts", "too many login attempts")
			return
		}
	}

	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.account.Username)) == 1
	passOK := s.passwords.Compare(s.account.PasswordHash, req.Password)
	if !userOK || !passOK {
		metrics.IncAdminLogin("denied")
		log.Warn().Str("username", req.Username).Msg("admin login denied")
		writeError(w, r, s.log, domain.ErrUnauthorized)
		return
	}

	token, exp, err := s.auth.Mint(w, req.Username)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	metrics.IncAdminLogin("ok")
	log.Info().Str("username", req.Username).Msg("admin logged in")
	writeOK(w, http.StatusOK, sessionResponse{Username: req.Username, Token: token, ExpiresAt: exp})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	writeOK(w, http.StatusOK, nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, err := s.auth.ParseFromRequest(r)
	if err != nil {
		writeError(w, r, s.log, domain.ErrUnauthorized)
		return
	}
	resp := sessionResponse{Username: claims.Subject}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	writeOK(w, http.StatusOK, resp)
}

// requireAdmin rejects requests without a valid session and tags the context
// with the admin name for logging.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, r, s.log, domain.ErrUnauthorized)
			return
		}
		ctx := logging.WithAdmin(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return host
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
