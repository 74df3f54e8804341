package cookie

import "time"

// Options configures the attributes of a single cookie write.
type Options struct {
	Path      string
	Domain    DomainPolicy
	TLDLength int
	Expires   time.Time
	// MaxAge is converted to an absolute expiry at write time and takes
	// precedence over Expires when positive.
	MaxAge   time.Duration
	HTTPOnly bool
	Secure   bool
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

// WithDomain sets the domain attribute verbatim.
func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = ExactDomain(domain)
	}
}

// WithDomains scopes the cookie to whichever candidate matches the request host.
func WithDomains(domains ...string) Option {
	return func(o *Options) {
		o.Domain = Domains(domains...)
	}
}

// WithAllDomains scopes the cookie to the registrable domain of the request
// host so that every subdomain receives it.
func WithAllDomains() Option {
	return func(o *Options) {
		o.Domain = AllDomains()
	}
}

// WithDomainPolicy sets an already constructed policy.
func WithDomainPolicy(p DomainPolicy) Option {
	return func(o *Options) {
		o.Domain = p
	}
}

// WithTLDLength overrides the number of labels kept by the all-domains policy.
func WithTLDLength(n int) Option {
	return func(o *Options) {
		o.TLDLength = n
	}
}

func WithExpires(t time.Time) Option {
	return func(o *Options) {
		o.Expires = t
	}
}

func WithMaxAge(d time.Duration) Option {
	return func(o *Options) {
		o.MaxAge = d
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HTTPOnly = httpOnly
	}
}

func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

// applyOptions copies base before applying opts so shared defaults are never mutated.
func applyOptions(base Options, opts []Option) Options {
	result := base
	for _, opt := range opts {
		if opt != nil {
			opt(&result)
		}
	}
	return result
}
