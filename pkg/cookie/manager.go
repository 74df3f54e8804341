package cookie

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/cookiejar/pkg/environment"
	"github.com/dmitrymomot/cookiejar/pkg/logger"
)

// Manager holds the process-wide cookie settings and builds one jar per
// request. It is safe for concurrent use.
//
// The secret is not checked when the manager is created. It is validated the
// first time a jar signs or encrypts a value, so applications that only use
// plain cookies run without one.
type Manager struct {
	secret     string
	maxSize    int
	tldLength  int
	env        environment.Environment
	trustProxy bool
	now        func() time.Time
	logger     *slog.Logger

	signerOnce    sync.Once
	signer        *Signer
	signerErr     error
	encryptorOnce sync.Once
	encryptor     *Encryptor
	encryptorErr  error
}

// ManagerOption configures the Manager itself, not individual cookies.
type ManagerOption func(*Manager)

func WithSecret(secret string) ManagerOption {
	return func(m *Manager) {
		m.secret = secret
	}
}

// WithMaxSize sets the byte budget of one Set-Cookie line.
func WithMaxSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.maxSize = size
		}
	}
}

// WithDefaultTLDLength sets the label count used by the all-domains policy
// when a write does not override it.
func WithDefaultTLDLength(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.tldLength = n
		}
	}
}

// WithEnvironment sets the environment assumed for requests whose context
// carries none.
func WithEnvironment(env environment.Environment) ManagerOption {
	return func(m *Manager) {
		m.env = env
	}
}

// WithTrustedProxy treats "X-Forwarded-Proto: https" as a secure request.
// Enable only behind a proxy that overwrites the header.
func WithTrustedProxy(trust bool) ManagerOption {
	return func(m *Manager) {
		m.trustProxy = trust
	}
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func New(opts ...ManagerOption) *Manager {
	m := &Manager{
		maxSize:   MaxCookieSize,
		tldLength: 1,
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewJar builds a jar from a raw Cookie header and the request facts.
func (m *Manager) NewJar(header string, req Request) *CookieJar {
	return newJar(m, header, req)
}

// FromRequest builds a jar for r. The environment is taken from the request
// context, falling back to the manager's environment.
func (m *Manager) FromRequest(r *http.Request) *CookieJar {
	env := environment.FromContext(r.Context())
	if env == "" {
		env = m.env
	}

	secure := r.TLS != nil
	if !secure && m.trustProxy {
		secure = strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	}

	return newJar(m, strings.Join(r.Header.Values("Cookie"), "; "), Request{
		Host:        r.Host,
		Secure:      secure,
		Development: env.IsDevelopment(),
	})
}

// Signer returns the signer derived from the configured secret, validating
// the secret on first use. The result is cached for the manager's lifetime.
func (m *Manager) Signer() (*Signer, error) {
	m.signerOnce.Do(func() {
		m.signer, m.signerErr = NewSigner(m.secret)
		if m.signerErr != nil {
			m.logger.Warn("cookie signing disabled",
				logger.Component("cookie"),
				logger.Error(m.signerErr),
			)
		}
	})
	return m.signer, m.signerErr
}

// Encryptor returns the encryptor derived from the configured secret,
// validating the secret on first use.
func (m *Manager) Encryptor() (*Encryptor, error) {
	m.encryptorOnce.Do(func() {
		m.encryptor, m.encryptorErr = NewEncryptor(m.secret)
		if m.encryptorErr != nil {
			m.logger.Warn("cookie encryption disabled",
				logger.Component("cookie"),
				logger.Error(m.encryptorErr),
			)
		}
	})
	return m.encryptor, m.encryptorErr
}
