package cookie

import (
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/cookiejar/pkg/logger"
)

// Jar is the read/write capability shared by the plain jar and every view
// layered over it.
type Jar interface {
	Get(name string) (string, bool)
	Set(name, value string, opts ...Option) error
	Delete(name string, opts ...Option) error
}

// Request carries the facts about the current request that affect cookie output.
type Request struct {
	Host   string
	Secure bool
	// Development allows secure-only cookies over a plain connection.
	Development bool
}

// CookieJar holds the cookies of a single request/response cycle.
// It is not safe for concurrent writes; each request owns its jar.
type CookieJar struct {
	m     *Manager
	req   Request
	guard streamGuard

	values  map[string]string
	pending map[string]Cookie
	order   []string
}

var _ Jar = (*CookieJar)(nil)

func newJar(m *Manager, header string, req Request) *CookieJar {
	return &CookieJar{
		m:       m,
		req:     req,
		values:  ParseHeader(header),
		pending: make(map[string]Cookie),
	}
}

// Get returns the value written during this request, falling back to the
// value sent by the client.
func (j *CookieJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

// Has reports whether a cookie with the given name is present.
func (j *CookieJar) Has(name string) bool {
	_, ok := j.values[name]
	return ok
}

// Names returns the sorted names of all present cookies.
func (j *CookieJar) Names() []string {
	return slices.Sorted(maps.Keys(j.values))
}

func (j *CookieJar) Len() int {
	return len(j.values)
}

// Set records a cookie to be sent with the response. An empty name fails
// with ErrInvalidName.
func (j *CookieJar) Set(name, value string, opts ...Option) error {
	if err := j.guard.check(); err != nil {
		return err
	}
	if name == "" {
		return ErrInvalidName
	}

	c := j.build(name, value, applyOptions(j.defaults(), opts))
	if err := j.checkSize(c); err != nil {
		return err
	}

	j.record(c)
	j.values[name] = value
	return nil
}

// Delete records an expired cookie so the client drops it. Path and domain
// options must match the ones the cookie was set with, otherwise the client
// keeps the original.
func (j *CookieJar) Delete(name string, opts ...Option) error {
	if err := j.guard.check(); err != nil {
		return err
	}
	if name == "" {
		return ErrInvalidName
	}

	o := applyOptions(j.defaults(), opts)
	o.Expires = Epoch
	o.MaxAge = 0

	j.record(j.build(name, "", o))
	delete(j.values, name)
	return nil
}

// DeleteAll deletes every present cookie using the same options.
func (j *CookieJar) DeleteAll(opts ...Option) error {
	for _, name := range j.Names() {
		if err := j.Delete(name, opts...); err != nil {
			return err
		}
	}
	return nil
}

// Clear forgets every present cookie without emitting deletions.
func (j *CookieJar) Clear() {
	clear(j.values)
}

// Outgoing returns the cookie that will be emitted for name, if any.
func (j *CookieJar) Outgoing(name string) (Cookie, bool) {
	c, ok := j.pending[name]
	return c, ok
}

// Lines renders the Set-Cookie values in first-write order. Secure-only
// cookies are left out unless the request is secure or in development.
func (j *CookieJar) Lines() []string {
	lines := make([]string, 0, len(j.order))
	for _, name := range j.order {
		c := j.pending[name]
		if !j.writable(c) {
			continue
		}
		lines = append(lines, c.String())
	}
	return lines
}

// Commit appends the Set-Cookie lines to h and closes the jar. Only the
// first call writes anything.
func (j *CookieJar) Commit(h http.Header) {
	if !j.guard.close() {
		return
	}
	for _, line := range j.Lines() {
		h.Add("Set-Cookie", line)
	}
}

// Close marks the response as started without writing headers.
func (j *CookieJar) Close() {
	j.guard.close()
}

// Closed reports whether the jar no longer accepts writes.
func (j *CookieJar) Closed() bool {
	return j.guard.isClosed()
}

// Permanent returns a view whose cookies expire 20 years after the write.
func (j *CookieJar) Permanent() *PermanentJar {
	return &PermanentJar{root: j, parent: j}
}

// Signed returns a view that signs values on write and verifies them on read.
func (j *CookieJar) Signed() *SignedJar {
	return newSignedJar(j, j)
}

// Encrypted returns a view that encrypts values on write and decrypts them on read.
func (j *CookieJar) Encrypted() *EncryptedJar {
	return newEncryptedJar(j, j)
}

func (j *CookieJar) defaults() Options {
	return Options{Path: defaultPath, TLDLength: j.m.tldLength}
}

func (j *CookieJar) build(name, value string, o Options) Cookie {
	path := o.Path
	if path == "" {
		path = defaultPath
	}

	expires := o.Expires
	if o.MaxAge > 0 {
		expires = j.m.now().Add(o.MaxAge)
	}

	return Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   ResolveDomain(j.req.Host, o.Domain, o.TLDLength),
		Expires:  expires,
		HTTPOnly: o.HTTPOnly,
		Secure:   o.Secure,
	}
}

func (j *CookieJar) checkSize(c Cookie) error {
	size := len(c.String())
	if size <= j.m.maxSize {
		return nil
	}
	j.m.logger.Debug("cookie exceeds size limit",
		logger.Component("cookie"),
		logger.Cookie(c.Name),
		logger.Host(j.req.Host),
		slog.Int("size", size),
		slog.Int("max", j.m.maxSize),
	)
	return ErrCookieOverflow{Name: c.Name, Size: size, Max: j.m.maxSize}
}

func (j *CookieJar) record(c Cookie) {
	if _, seen := j.pending[c.Name]; !seen {
		j.order = append(j.order, c.Name)
	}
	j.pending[c.Name] = c
}

func (j *CookieJar) writable(c Cookie) bool {
	return !c.Secure || j.req.Secure || j.req.Development
}
