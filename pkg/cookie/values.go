package cookie

import (
	"encoding/json"

	"github.com/dmitrymomot/cookiejar/pkg/logger"
)

type codec interface {
	Encode(v any) (string, error)
	Decode(s string, dst any) bool
}

// ValueReader reads structured values from a transforming jar view.
type ValueReader interface {
	Value(name string, dst any) (bool, error)
}

// valueJar is the body shared by the signed and encrypted views: it encodes
// values on the way into the parent jar and decodes them on the way out.
type valueJar struct {
	root   *CookieJar
	parent Jar
	kind   string
	codec  func() (codec, error)
}

// Set stores a string value. It satisfies Jar.
func (v *valueJar) Set(name, value string, opts ...Option) error {
	return v.SetValue(name, value, opts...)
}

// SetValue stores any JSON-marshalable value. It fails with an invalid secret
// error, ErrCookieOverflow or ErrClosedStream.
func (v *valueJar) SetValue(name string, value any, opts ...Option) error {
	if err := v.root.guard.check(); err != nil {
		return err
	}
	c, err := v.codec()
	if err != nil {
		return err
	}
	encoded, err := c.Encode(value)
	if err != nil {
		return err
	}
	return v.parent.Set(name, encoded, opts...)
}

// Get returns a string value. Values stored as other JSON types are returned
// in their JSON form. Missing, tampered and undecodable cookies are not found.
// An unusable secret also reads as not found here; use Value or Read to get
// the configuration error.
func (v *valueJar) Get(name string) (string, bool) {
	var raw json.RawMessage
	ok, err := v.Value(name, &raw)
	if err != nil || !ok {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s, true
	}
	return string(raw), true
}

// Value decodes the cookie into dst. It reports false for missing or
// tampered cookies and only returns an error when the secret is unusable.
func (v *valueJar) Value(name string, dst any) (bool, error) {
	encoded, ok := v.parent.Get(name)
	if !ok || encoded == "" {
		return false, nil
	}
	c, err := v.codec()
	if err != nil {
		return false, err
	}
	if !c.Decode(encoded, dst) {
		v.root.m.logger.Debug("rejected cookie value",
			logger.Component("cookie"),
			logger.Cookie(name),
			logger.Reason(v.kind+" value failed verification"),
		)
		return false, nil
	}
	return true, nil
}

func (v *valueJar) Delete(name string, opts ...Option) error {
	return v.parent.Delete(name, opts...)
}

// SignedJar stores values as "<payload>--<hmac>". The payload is readable by
// the client but any modification makes the cookie read as absent.
type SignedJar struct {
	valueJar
}

var _ Jar = (*SignedJar)(nil)

func newSignedJar(root *CookieJar, parent Jar) *SignedJar {
	return &SignedJar{valueJar{
		root:   root,
		parent: parent,
		kind:   "signed",
		codec: func() (codec, error) {
			return root.m.Signer()
		},
	}}
}

// EncryptedJar stores values sealed with AES-GCM, hiding them from the client.
type EncryptedJar struct {
	valueJar
}

var _ Jar = (*EncryptedJar)(nil)

func newEncryptedJar(root *CookieJar, parent Jar) *EncryptedJar {
	return &EncryptedJar{valueJar{
		root:   root,
		parent: parent,
		kind:   "encrypted",
		codec: func() (codec, error) {
			return root.m.Encryptor()
		},
	}}
}

// Read decodes a typed value from a signed or encrypted view.
//
//	id, ok, err := cookie.Read[int](jar.Signed(), "user_id")
func Read[T any](r ValueReader, name string) (T, bool, error) {
	var v T
	ok, err := r.Value(name, &v)
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}
