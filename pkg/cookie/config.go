package cookie

// Config is the environment-driven configuration of a Manager.
type Config struct {
	Secret     string `env:"COOKIE_SECRET"`
	MaxSize    int    `env:"COOKIE_MAX_SIZE" envDefault:"4096"`
	TLDLength  int    `env:"COOKIE_TLD_LENGTH" envDefault:"1"`
	TrustProxy bool   `env:"COOKIE_TRUST_PROXY" envDefault:"false"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		MaxSize:   MaxCookieSize,
		TLDLength: 1,
	}
}

// NewFromConfig creates a Manager from cfg. Options are applied after the
// config, so they win.
func NewFromConfig(cfg Config, opts ...ManagerOption) *Manager {
	configOpts := make([]ManagerOption, 0, 4+len(opts))
	configOpts = append(configOpts,
		WithSecret(cfg.Secret),
		WithMaxSize(cfg.MaxSize),
		WithDefaultTLDLength(cfg.TLDLength),
		WithTrustedProxy(cfg.TrustProxy),
	)
	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}
