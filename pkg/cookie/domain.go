package cookie

import (
	"net"
	"slices"
	"strings"
)

type domainKind uint8

const (
	domainHostOnly domainKind = iota
	domainExact
	domainList
	domainAll
)

// DomainPolicy decides the domain attribute of a cookie relative to the
// request host. The zero value scopes cookies to the exact request host.
type DomainPolicy struct {
	kind    domainKind
	domains []string
}

// ExactDomain returns a policy that always emits domain verbatim.
func ExactDomain(domain string) DomainPolicy {
	if domain == "" {
		return DomainPolicy{}
	}
	return DomainPolicy{kind: domainExact, domains: []string{domain}}
}

// Domains returns a policy that picks the candidate matching the request host.
// A candidate with a leading dot also matches its subdomains.
func Domains(domains ...string) DomainPolicy {
	list := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = strings.TrimSpace(d); d != "" {
			list = append(list, d)
		}
	}
	if len(list) == 0 {
		return DomainPolicy{}
	}
	return DomainPolicy{kind: domainList, domains: list}
}

// AllDomains returns the wildcard policy: the cookie is shared by every
// subdomain of the request host's registrable domain.
func AllDomains() DomainPolicy {
	return DomainPolicy{kind: domainAll}
}

// IsHostOnly reports whether the policy never emits a domain attribute.
func (p DomainPolicy) IsHostOnly() bool {
	return p.kind == domainHostOnly
}

// ResolveDomain computes the domain attribute for host under policy.
// An empty result means no domain attribute. It never fails: hosts that
// cannot carry a domain scope degrade to host-only cookies.
//
// For the all-domains policy tldLength <= 1 keeps the last two labels of the
// host, or three when the host ends in a short two-label public suffix such
// as co.uk or com.au. A larger tldLength keeps exactly that many labels.
func ResolveDomain(host string, policy DomainPolicy, tldLength int) string {
	switch policy.kind {
	case domainExact:
		return policy.domains[0]
	case domainList:
		return matchDomain(hostname(host), policy.domains)
	case domainAll:
		if d := registrableDomain(hostname(host), tldLength); d != "" {
			return "." + d
		}
	}
	return ""
}

func matchDomain(host string, candidates []string) string {
	if host == "" {
		return ""
	}
	for _, candidate := range candidates {
		bare := strings.ToLower(strings.TrimPrefix(candidate, "."))
		if bare == "" {
			continue
		}
		if host == bare {
			return candidate
		}
		if strings.HasPrefix(candidate, ".") && strings.HasSuffix(host, "."+bare) {
			return candidate
		}
	}
	return ""
}

func registrableDomain(host string, tldLength int) string {
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return ""
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 || slices.Contains(labels, "") {
		return ""
	}

	keep := 2
	switch {
	case tldLength > 1:
		keep = tldLength
		if keep > len(labels) {
			return ""
		}
	case len(labels) > 2 && isShortPublicSuffix(labels[len(labels)-2], labels[len(labels)-1]):
		keep = 3
	}

	return strings.Join(labels[len(labels)-keep:], ".")
}

// isShortPublicSuffix matches ccTLD second levels like co.uk and com.au.
func isShortPublicSuffix(second, top string) bool {
	return len(top) == 2 && (len(second) == 2 || len(second) == 3)
}

// hostname strips the port, IPv6 brackets and a trailing dot from a Host value.
func hostname(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	host = strings.TrimSuffix(host, ".")
	return strings.ToLower(host)
}
