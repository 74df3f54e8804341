// Command cookiejar runs a small HTTP server that exercises every cookie jar
// layer: plain, permanent, signed and encrypted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrymomot/cookiejar/pkg/config"
	"github.com/dmitrymomot/cookiejar/pkg/cookie"
	"github.com/dmitrymomot/cookiejar/pkg/environment"
	"github.com/dmitrymomot/cookiejar/pkg/httpserver"
	"github.com/dmitrymomot/cookiejar/pkg/logger"
	"github.com/dmitrymomot/cookiejar/pkg/requestid"
)

type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Name      string `env:"APP_NAME" envDefault:"cookiejar"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
	// CookieDomain is empty for host-only cookies, "all" for the registrable
	// domain of the request host, or a comma separated candidate list.
	CookieDomain string `env:"COOKIE_DOMAIN"`

	Cookie cookie.Config
	HTTP   httpserver.Config
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	env := environment.Parse(cfg.Env)
	log := newLogger(cfg, env)
	slog.SetDefault(log)

	if err := cookie.ValidateSecret(cfg.Cookie.Secret); err != nil {
		log.Warn("signed and encrypted cookies are unavailable", logger.Error(err))
	}

	cookies := cookie.NewFromConfig(cfg.Cookie,
		cookie.WithEnvironment(env),
		cookie.WithLogger(log),
	)

	a := newApp(log, env, cookies, parseDomainPolicy(cfg.CookieDomain))
	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, a.routes())
}

func newLogger(cfg appConfig, env environment.Environment) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	if cfg.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(strings.ToLower(cfg.LogFormat))))
	}
	return logger.New(opts...)
}

func parseDomainPolicy(s string) cookie.DomainPolicy {
	switch s = strings.TrimSpace(s); strings.ToLower(s) {
	case "":
		return cookie.DomainPolicy{}
	case "all":
		return cookie.AllDomains()
	default:
		return cookie.Domains(strings.Split(s, ",")...)
	}
}
