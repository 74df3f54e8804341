package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/cookiejar/pkg/cookie"
	"github.com/dmitrymomot/cookiejar/pkg/environment"
	"github.com/dmitrymomot/cookiejar/pkg/logger"
	"github.com/dmitrymomot/cookiejar/pkg/requestid"
)

const (
	visitsCookie      = "visits"
	userCookie        = "user_id"
	preferencesCookie = "preferences"

	maxBodySize = 16 << 10
)

type app struct {
	log     *slog.Logger
	env     environment.Environment
	cookies *cookie.Manager
	domain  cookie.DomainPolicy
}

func newApp(log *slog.Logger, env environment.Environment, cookies *cookie.Manager, domain cookie.DomainPolicy) *app {
	return &app{log: log, env: env, cookies: cookies, domain: domain}
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		environment.Middleware(a.env),
		cookie.Middleware(a.cookies),
	)

	r.Get("/visits", a.visits)
	r.Post("/login", a.login)
	r.Get("/whoami", a.whoami)
	r.Get("/preferences", a.preferences)
	r.Post("/preferences", a.savePreferences)
	r.Post("/logout", a.logout)
	return r
}

// visits counts requests in a permanent signed cookie.
func (a *app) visits(w http.ResponseWriter, r *http.Request) {
	jar := mustJar(r)
	view := jar.Permanent().Signed()

	n, _, err := cookie.Read[int](view, visitsCookie)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	n++
	if err := view.SetValue(visitsCookie, n, cookie.WithHTTPOnly(true)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, r, http.StatusOK, map[string]int{"visits": n})
}

func (a *app) login(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		a.json(w, r, http.StatusBadRequest, map[string]string{"error": "user is required"})
		return
	}

	err := mustJar(r).Signed().Set(userCookie, user,
		cookie.WithHTTPOnly(true),
		cookie.WithDomainPolicy(a.domain),
	)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) whoami(w http.ResponseWriter, r *http.Request) {
	user, ok, err := cookie.Read[string](mustJar(r).Signed(), userCookie)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !ok {
		a.json(w, r, http.StatusUnauthorized, map[string]string{"error": "not signed in"})
		return
	}
	a.json(w, r, http.StatusOK, map[string]string{"user": user})
}

func (a *app) preferences(w http.ResponseWriter, r *http.Request) {
	prefs, _, err := cookie.Read[map[string]string](mustJar(r).Encrypted(), preferencesCookie)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if prefs == nil {
		prefs = map[string]string{}
	}
	a.json(w, r, http.StatusOK, prefs)
}

func (a *app) savePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs map[string]string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&prefs); err != nil {
		a.json(w, r, http.StatusBadRequest, map[string]string{"error": "invalid preferences"})
		return
	}

	if err := mustJar(r).Encrypted().SetValue(preferencesCookie, prefs, cookie.WithHTTPOnly(true)); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) logout(w http.ResponseWriter, r *http.Request) {
	if err := mustJar(r).Delete(userCookie, cookie.WithDomainPolicy(a.domain)); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps cookie errors to responses.
func (a *app) fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, cookie.ErrClosedStream):
		a.log.WarnContext(ctx, "cookie written after response started", logger.Error(err))
	case errors.Is(err, cookie.ErrOverflow):
		a.log.InfoContext(ctx, "cookie rejected", logger.Error(err), logger.Status(http.StatusRequestEntityTooLarge))
		a.json(w, r, http.StatusRequestEntityTooLarge, map[string]string{"error": "cookie too large"})
	case errors.Is(err, cookie.ErrInvalidSecret):
		a.log.ErrorContext(ctx, "cookie secret unusable", logger.Error(err), logger.Status(http.StatusInternalServerError))
		a.json(w, r, http.StatusInternalServerError, map[string]string{"error": "cookies unavailable"})
	default:
		a.log.ErrorContext(ctx, "cookie write failed", logger.Error(err))
		a.json(w, r, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (a *app) json(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.ErrorContext(r.Context(), "write response", logger.Error(err))
	}
}

// mustJar panics when cookie.Middleware is missing from the chain.
func mustJar(r *http.Request) *cookie.CookieJar {
	jar, ok := cookie.FromContext(r.Context())
	if !ok {
		panic("cookie jar missing from request context")
	}
	return jar
}
