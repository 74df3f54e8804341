package cookie

const permanentYears = 20

// PermanentJar defaults the expiry of every written cookie to 20 years from
// the time of the write. An explicit expiry option overrides the default.
type PermanentJar struct {
	root   *CookieJar
	parent Jar
}

var _ Jar = (*PermanentJar)(nil)

func (p *PermanentJar) Get(name string) (string, bool) {
	return p.parent.Get(name)
}

func (p *PermanentJar) Set(name, value string, opts ...Option) error {
	if err := p.root.guard.check(); err != nil {
		return err
	}
	expires := p.root.m.now().AddDate(permanentYears, 0, 0)
	return p.parent.Set(name, value, append([]Option{WithExpires(expires)}, opts...)...)
}

func (p *PermanentJar) Delete(name string, opts ...Option) error {
	return p.parent.Delete(name, opts...)
}

// Signed returns a signed view whose cookies are also permanent.
// Only the value is signed; the expiry stays a plain attribute.
func (p *PermanentJar) Signed() *SignedJar {
	return newSignedJar(p.root, p)
}

// Encrypted returns an encrypted view whose cookies are also permanent.
func (p *PermanentJar) Encrypted() *EncryptedJar {
	return newEncryptedJar(p.root, p)
}
