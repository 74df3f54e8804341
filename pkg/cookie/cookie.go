package cookie

import (
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"
)

const (
	// MaxCookieSize is the default byte budget for one Set-Cookie line.
	MaxCookieSize = 4096

	defaultPath   = "/"
	expiresLayout = "Mon, 02-Jan-2006 15:04:05 GMT"
)

// Epoch is the expiry written on deletion entries.
var Epoch = time.Unix(0, 0).UTC()

// Cookie holds the resolved attributes of one outbound cookie.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Expires  time.Time // zero means a session cookie
	HTTPOnly bool
	Secure   bool
}

// IsDeletion reports whether the cookie instructs the client to drop it.
func (c Cookie) IsDeletion() bool {
	return c.Value == "" && c.Expires.Equal(Epoch)
}

// String renders the Set-Cookie header value.
func (c Cookie) String() string {
	var b strings.Builder
	b.Grow(len(c.Name) + len(c.Value) + 64)

	b.WriteString(escape(c.Name))
	b.WriteByte('=')
	b.WriteString(escape(c.Value))

	path := c.Path
	if path == "" {
		path = defaultPath
	}
	b.WriteString("; path=")
	b.WriteString(attrValue(path))

	if domain := attrValue(c.Domain); domain != "" {
		b.WriteString("; domain=")
		b.WriteString(domain)
	}
	if !c.Expires.IsZero() {
		b.WriteString("; expires=")
		b.WriteString(c.Expires.UTC().Format(expiresLayout))
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	if c.Secure {
		b.WriteString("; secure")
	}
	return b.String()
}

// attrValue drops the bytes that would end an attribute or the header line.
func attrValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == ';' {
			return -1
		}
		return r
	}, s)
}

func escape(s string) string {
	return url.QueryEscape(s)
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

// ParseHeader decodes a Cookie request header into a name to value map.
// Each component is decoded independently; the first occurrence of a name wins.
func ParseHeader(header string) map[string]string {
	values := make(map[string]string)
	for part := range strings.SplitSeq(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(part, "=")
		name := unescape(strings.TrimSpace(rawName))
		if name == "" {
			continue
		}
		if _, exists := values[name]; exists {
			continue
		}
		values[name] = unescape(strings.TrimSpace(rawValue))
	}
	return values
}

// FormatHeader renders a Cookie request header, the inverse of ParseHeader.
// Names are sorted so the output is deterministic.
func FormatHeader(values map[string]string) string {
	names := slices.Sorted(maps.Keys(values))
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, escape(name)+"="+escape(values[name]))
	}
	return strings.Join(parts, "; ")
}
