package cookie_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookiejar/pkg/cookie"
)

func TestCookieJar_SetGet(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "")

	_, ok := jar.Get("user_name")
	assert.False(t, ok)

	require.NoError(t, jar.Set("user_name", "david"))

	v, ok := jar.Get("user_name")
	assert.True(t, ok)
	assert.Equal(t, "david", v)
	assert.True(t, jar.Has("user_name"))
	assert.Equal(t, []string{"user_name=david; path=/"}, jar.Lines())
}

func TestCookieJar_ReadsRequestCookies(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "user_name=david; foo=1%3B2")

	v, ok := jar.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, "1;2", v)
	assert.Equal(t, []string{"foo", "user_name"}, jar.Names())
	assert.Equal(t, 2, jar.Len())
	assert.Empty(t, jar.Lines(), "reading must not emit cookies")
}

func TestCookieJar_SetEscapes(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "")
	require.NoError(t, jar.Set("that & guy", "foo & bar => baz"))

	assert.Equal(t, []string{"that+%26+guy=foo+%26+bar+%3D%3E+baz; path=/"}, jar.Lines())

	v, ok := jar.Get("that & guy")
	assert.True(t, ok)
	assert.Equal(t, "foo & bar => baz", v)
}

func TestCookieJar_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []cookie.Option
		want string
	}{
		{
			name: "path",
			opts: []cookie.Option{cookie.WithPath("/beaten")},
			want: "user_name=david; path=/beaten",
		},
		{
			name: "expires",
			opts: []cookie.Option{cookie.WithExpires(time.Date(2005, time.October, 10, 5, 0, 0, 0, time.UTC))},
			want: "user_name=david; path=/; expires=Mon, 10-Oct-2005 05:00:00 GMT",
		},
		{
			name: "max age",
			opts: []cookie.Option{cookie.WithMaxAge(time.Hour)},
			want: "user_name=david; path=/; expires=" + testNow.Add(time.Hour).Format(expiresLayout),
		},
		{
			name: "max age wins over expires",
			opts: []cookie.Option{cookie.WithMaxAge(time.Hour), cookie.WithExpires(time.Date(2005, time.October, 10, 5, 0, 0, 0, time.UTC))},
			want: "user_name=david; path=/; expires=" + testNow.Add(time.Hour).Format(expiresLayout),
		},
		{
			name: "http only",
			opts: []cookie.Option{cookie.WithHTTPOnly(true)},
			want: "user_name=david; path=/; HttpOnly",
		},
		{
			name: "secure",
			opts: []cookie.Option{cookie.WithSecure(true)},
			want: "user_name=david; path=/; secure",
		},
		{
			name: "exact domain",
			opts: []cookie.Option{cookie.WithDomain("example.org")},
			want: "user_name=david; path=/; domain=example.org",
		},
		{
			name: "all domains",
			opts: []cookie.Option{cookie.WithAllDomains()},
			want: "user_name=david; path=/; domain=.nextangle.com",
		},
		{
			name: "nil option ignored",
			opts: []cookie.Option{nil},
			want: "user_name=david; path=/",
		},
		{
			name: "everything",
			opts: []cookie.Option{
				cookie.WithPath("/beaten"),
				cookie.WithAllDomains(),
				cookie.WithExpires(time.Date(2005, time.October, 10, 5, 0, 0, 0, time.UTC)),
				cookie.WithHTTPOnly(true),
				cookie.WithSecure(true),
			},
			want: "user_name=david; path=/beaten; domain=.nextangle.com; expires=Mon, 10-Oct-2005 05:00:00 GMT; HttpOnly; secure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jar := newJar(t, newManager(t), "")
			require.NoError(t, jar.Set("user_name", "david", tt.opts...))
			assert.Equal(t, []string{tt.want}, jar.Lines())
		})
	}
}

func TestCookieJar_EmptyName(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "")

	assert.ErrorIs(t, jar.Set("", "x"), cookie.ErrInvalidName)
	assert.ErrorIs(t, jar.Delete(""), cookie.ErrInvalidName)
	assert.ErrorIs(t, jar.Permanent().Set("", "x"), cookie.ErrInvalidName)
	assert.ErrorIs(t, jar.Signed().SetValue("", 1), cookie.ErrInvalidName)
	assert.Empty(t, jar.Lines())
	assert.False(t, jar.Has(""))
}

func TestCookieJar_MultipleWritesKeepLastValue(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "")
	require.NoError(t, jar.Set("a", "1"))
	require.NoError(t, jar.Set("b", "2"))
	require.NoError(t, jar.Set("a", "3", cookie.WithPath("/x")))

	assert.Equal(t, []string{"a=3; path=/x", "b=2; path=/"}, jar.Lines())
}

func TestCookieJar_Delete(t *testing.T) {
	t.Parallel()

	t.Run("emits expired cookie", func(t *testing.T) {
		t.Parallel()

		jar := newJar(t, newManager(t), "user_name=david")
		require.NoError(t, jar.Delete("user_name"))

		assert.False(t, jar.Has("user_name"))
		assert.Equal(t, []string{"user_name=; path=/; expires=Thu, 01-Jan-1970 00:00:00 GMT"}, jar.Lines())

		c, ok := jar.Outgoing("user_name")
		require.True(t, ok)
		assert.True(t, c.IsDeletion())
	})

	t.Run("keeps scope", func(t *testing.T) {
		t.Parallel()

		jar := newJar(t, newManager(t), "user_name=david")
		require.NoError(t, jar.Delete("user_name", cookie.WithPath("/beaten"), cookie.WithAllDomains()))

		assert.Equal(t, []string{"user_name=; path=/beaten; domain=.nextangle.com; expires=Thu, 01-Jan-1970 00:00:00 GMT"}, jar.Lines())
	})

	t.Run("ignores expiry options", func(t *testing.T) {
		t.Parallel()

		jar := newJar(t, newManager(t), "")
		require.NoError(t, jar.Delete("user_name", cookie.WithMaxAge(time.Hour), cookie.WithExpires(testNow)))

		c, ok := jar.Outgoing("user_name")
		require.True(t, ok)
		assert.Equal(t, cookie.Epoch, c.Expires)
	})

	t.Run("after set", func(t *testing.T) {
		t.Parallel()

		jar := newJar(t, newManager(t), "")
		require.NoError(t, jar.Set("user_name", "david"))
		require.NoError(t, jar.Delete("user_name"))

		assert.Equal(t, []string{"user_name=; path=/; expires=Thu, 01-Jan-1970 00:00:00 GMT"}, jar.Lines())
	})
}

func TestCookieJar_DeleteAll(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "b=2; a=1")
	require.NoError(t, jar.DeleteAll(cookie.WithPath("/app")))

	assert.Zero(t, jar.Len())
	assert.Equal(t, []string{
		"a=; path=/app; expires=Thu, 01-Jan-1970 00:00:00 GMT",
		"b=; path=/app; expires=Thu, 01-Jan-1970 00:00:00 GMT",
	}, jar.Lines())
}

func TestCookieJar_Clear(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "a=1; b=2")
	jar.Clear()

	assert.Zero(t, jar.Len())
	assert.False(t, jar.Has("a"))
	assert.Empty(t, jar.Lines())
}

func TestCookieJar_SecureCookies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		req   cookie.Request
		lines []string
	}{
		{
			name:  "secure request",
			req:   cookie.Request{Host: "nextangle.com", Secure: true},
			lines: []string{"plain=1; path=/", "only=2; path=/; secure"},
		},
		{
			name:  "plain request drops secure cookies",
			req:   cookie.Request{Host: "nextangle.com"},
			lines: []string{"plain=1; path=/"},
		},
		{
			name:  "development allows secure cookies",
			req:   cookie.Request{Host: "localhost", Development: true},
			lines: []string{"plain=1; path=/", "only=2; path=/; secure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jar := newManager(t).NewJar("", tt.req)
			require.NoError(t, jar.Set("plain", "1"))
			require.NoError(t, jar.Set("only", "2", cookie.WithSecure(true)))

			assert.Equal(t, tt.lines, jar.Lines())

			v, ok := jar.Get("only")
			assert.True(t, ok, "value is readable during the request either way")
			assert.Equal(t, "2", v)
		})
	}
}

func TestCookieJar_Overflow(t *testing.T) {
	t.Parallel()

	t.Run("rejects oversized line", func(t *testing.T) {
		t.Parallel()

		jar := newJar(t, newManager(t), "")
		err := jar.Set("foo", strings.Repeat("bye!", 1024))

		require.ErrorIs(t, err, cookie.ErrOverflow)
		var overflow cookie.ErrCookieOverflow
		require.ErrorAs(t, err, &overflow)
		assert.Equal(t, "foo", overflow.Name)
		assert.Equal(t, cookie.MaxCookieSize, overflow.Max)
		assert.Greater(t, overflow.Size, overflow.Max)

		assert.False(t, jar.Has("foo"))
		assert.Empty(t, jar.Lines())
	})

	t.Run("accepts line at the limit", func(t *testing.T) {
		t.Parallel()

		// "foo=" + value + "; path=/"
		value := strings.Repeat("a", cookie.MaxCookieSize-len("foo=; path=/"))

		jar := newJar(t, newManager(t), "")
		require.NoError(t, jar.Set("foo", value))
		assert.Len(t, jar.Lines()[0], cookie.MaxCookieSize)

		assert.ErrorIs(t, jar.Set("foo", value+"a"), cookie.ErrOverflow)
		v, _ := jar.Get("foo")
		assert.Equal(t, value, v, "failed write keeps the previous value")
	})

	t.Run("counts escaped bytes", func(t *testing.T) {
		t.Parallel()

		jar := newJar(t, newManager(t), "")
		assert.ErrorIs(t, jar.Set("foo", strings.Repeat(";", 1400)), cookie.ErrOverflow)
	})

	t.Run("custom limit", func(t *testing.T) {
		t.Parallel()

		jar := newJar(t, newManager(t, cookie.WithMaxSize(32)), "")
		assert.NoError(t, jar.Set("foo", "bar"))
		assert.ErrorIs(t, jar.Set("foo", strings.Repeat("x", 32)), cookie.ErrOverflow)
	})
}

func TestCookieJar_Commit(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "")
	require.NoError(t, jar.Set("a", "1"))
	require.NoError(t, jar.Set("b", "2"))

	h := http.Header{}
	jar.Commit(h)
	jar.Commit(h)

	assert.Equal(t, []string{"a=1; path=/", "b=2; path=/"}, h.Values("Set-Cookie"))
	assert.True(t, jar.Closed())
}

func TestCookieJar_ClosedStream(t *testing.T) {
	t.Parallel()

	writes := map[string]func(*cookie.CookieJar) error{
		"plain":            func(j *cookie.CookieJar) error { return j.Set("user_name", "david") },
		"plain delete":     func(j *cookie.CookieJar) error { return j.Delete("user_name") },
		"permanent":        func(j *cookie.CookieJar) error { return j.Permanent().Set("user_name", "david") },
		"signed":           func(j *cookie.CookieJar) error { return j.Signed().Set("user_name", "david") },
		"signed value":     func(j *cookie.CookieJar) error { return j.Signed().SetValue("user_id", 45) },
		"encrypted":        func(j *cookie.CookieJar) error { return j.Encrypted().Set("user_name", "david") },
		"permanent signed": func(j *cookie.CookieJar) error { return j.Permanent().Signed().Set("user_name", "david") },
	}

	for name, write := range writes {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			jar := newJar(t, newManager(t), "user_name=david")
			jar.Close()

			assert.ErrorIs(t, write(jar), cookie.ErrClosedStream)
			assert.Empty(t, jar.Lines())

			v, ok := jar.Get("user_name")
			assert.True(t, ok, "reads still work")
			assert.Equal(t, "david", v)
		})
	}

	t.Run("checked before the secret", func(t *testing.T) {
		t.Parallel()

		jar := cookie.New().NewJar("", cookie.Request{Host: "nextangle.com"})
		jar.Close()
		assert.ErrorIs(t, jar.Signed().Set("user_name", "david"), cookie.ErrClosedStream)
	})
}

func TestPermanentJar(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "")
	require.NoError(t, jar.Permanent().Set("user_name", "Jamie"))

	c, ok := jar.Outgoing("user_name")
	require.True(t, ok)
	assert.Equal(t, testNow.AddDate(20, 0, 0), c.Expires)
	assert.Equal(t, []string{"user_name=Jamie; path=/; expires=" + testNow.AddDate(20, 0, 0).Format(expiresLayout)}, jar.Lines())

	v, ok := jar.Permanent().Get("user_name")
	assert.True(t, ok)
	assert.Equal(t, "Jamie", v)
}

func TestPermanentJar_ExplicitExpiryWins(t *testing.T) {
	t.Parallel()

	expires := testNow.Add(24 * time.Hour)
	jar := newJar(t, newManager(t), "")
	require.NoError(t, jar.Permanent().Set("user_name", "Jamie", cookie.WithExpires(expires)))

	c, ok := jar.Outgoing("user_name")
	require.True(t, ok)
	assert.Equal(t, expires, c.Expires)
}

func TestPermanentJar_Delete(t *testing.T) {
	t.Parallel()

	jar := newJar(t, newManager(t), "user_name=Jamie")
	require.NoError(t, jar.Permanent().Delete("user_name"))

	c, ok := jar.Outgoing("user_name")
	require.True(t, ok)
	assert.True(t, c.IsDeletion())
}
