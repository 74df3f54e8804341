// Package cookie implements a per-request cookie jar with plain, permanent,
// signed and encrypted layers.
//
// A Manager carries the process-wide settings (secret, size budget, default
// TLD length, logger) and builds one CookieJar per request from the inbound
// Cookie header. Writes are collected in the jar and rendered into Set-Cookie
// lines once, when the response starts. From that moment the jar is closed and
// every write fails with ErrClosedStream, while reads keep working.
//
// # Layers
//
// Views wrap the jar and implement the same Jar interface:
//
//	jar := manager.FromRequest(r)
//
//	jar.Set("theme", "dark")                                 // plain
//	jar.Permanent().Set("locale", "en")                      // expires in 20 years
//	jar.Signed().SetValue("user_id", 45)                     // value--hmac
//	jar.Permanent().Signed().SetValue("remember_me", 100)    // both
//	jar.Encrypted().SetValue("prefs", map[string]string{...}) // AES-GCM
//
//	id, ok, err := cookie.Read[int](jar.Signed(), "user_id")
//
// Signed values are stored as base64(JSON) followed by "--" and a hex
// HMAC-SHA256 tag. Reading a signed or encrypted cookie that was tampered with
// reports it as absent; it never returns an error. Only an unusable secret is
// reported as an error, and only the first time signing or encryption is
// attempted, so jars that never sign work without a secret.
//
// Signing covers the value only. Attributes such as expires, path and domain
// are plain text in the Set-Cookie line, so a client that rewrites the expiry
// of a permanent signed cookie changes its lifetime without invalidating it.
//
// # Domains
//
// ResolveDomain maps a DomainPolicy and the request host to the domain
// attribute. AllDomains shares the cookie with every subdomain of the host's
// registrable domain, Domains picks the candidate matching the host, and
// ExactDomain uses a fixed value. Hosts that cannot carry a domain scope
// (localhost, IP literals) get host-only cookies.
//
// # Size
//
// A write whose rendered Set-Cookie line exceeds the budget (4096 bytes by
// default) fails with ErrCookieOverflow and records nothing.
//
// # HTTP
//
// Middleware builds the jar, stores it in the request context and commits it
// when the handler first writes to the response:
//
//	r := chi.NewRouter()
//	r.Use(cookie.Middleware(manager))
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//		jar, _ := cookie.FromContext(r.Context())
//		_ = jar.Signed().SetValue("visits", 1)
//	})
//
// Cookies marked secure are only emitted when the request arrived over TLS or
// the environment is development.
package cookie
