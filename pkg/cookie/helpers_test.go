package cookie_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrymomot/cookiejar/pkg/cookie"
)

const (
	testSecret    = "b3c631c314c0bbca50c1b2843150fe33"
	expiresLayout = "Mon, 02-Jan-2006 15:04:05 GMT"
)

var testNow = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

func newManager(t *testing.T, opts ...cookie.ManagerOption) *cookie.Manager {
	t.Helper()
	base := []cookie.ManagerOption{
		cookie.WithSecret(testSecret),
		cookie.WithClock(func() time.Time { return testNow }),
	}
	return cookie.New(append(base, opts...)...)
}

func newJar(t *testing.T, m *cookie.Manager, header string) *cookie.CookieJar {
	t.Helper()
	return m.NewJar(header, cookie.Request{Host: "www.nextangle.com", Secure: true})
}

// replay builds the jar of a follow-up request carrying the cookies set by jar.
func replay(m *cookie.Manager, jar *cookie.CookieJar, req cookie.Request) *cookie.CookieJar {
	pairs := make([]string, 0, len(jar.Lines()))
	for _, line := range jar.Lines() {
		pair, _, _ := strings.Cut(line, ";")
		pairs = append(pairs, pair)
	}
	return m.NewJar(strings.Join(pairs, "; "), req)
}
