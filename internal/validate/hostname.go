package validate

import (
	"fmt"
	"net/netip"
	"strings"
)

// Blocklist holds hostnames, IP ranges, and domain suffixes that must never
// be the target of a client-issued request. It exists to keep webhook and
// base URLs from pointing the service at internal infrastructure (SSRF).
//
// The check is best-effort by design: DNS is not resolved before checking,
// so a hostname that resolves to a private address at request time is not
// caught here. Resolving would turn a pure validator into one that does
// network I/O and would still race against re-resolution at request time.
type Blocklist struct {
	hosts    map[string]struct{}
	prefixes []netip.Prefix
	domains  []string
}

// NewBlocklist returns a blocklist covering loopback, RFC 1918 and other
// private ranges, link-local (including cloud metadata endpoints), and
// well-known URL shortener domains.
func NewBlocklist() *Blocklist {
	b := &Blocklist{hosts: make(map[string]struct{})}

	for _, h := range []string{
		"localhost",
		"metadata.google.internal",
	} {
		b.AddHost(h)
	}

	for _, p := range []string{
		"0.0.0.0/8",
		"127.0.0.0/8",
		"10.0.0.0/8",
		"100.64.0.0/10",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16", // link-local, includes 169.254.169.254 metadata
		"::1/128",
		"::/128",
		"fc00::/7",
		"fe80::/10",
	} {
		b.AddPrefix(netip.MustParsePrefix(p))
	}

	for _, d := range []string{
		"bit.ly",
		"tinyurl.com",
		"t.co",
		"goo.gl",
		"is.gd",
		"ow.ly",
	} {
		b.AddDomain(d)
	}

	return b
}

// AddHost blocks an exact hostname (case-insensitive).
func (b *Blocklist) AddHost(host string) {
	b.hosts[normalizeHost(host)] = struct{}{}
}

// AddPrefix blocks an IP range.
func (b *Blocklist) AddPrefix(p netip.Prefix) {
	b.prefixes = append(b.prefixes, p)
}

// AddDomain blocks a domain and all of its subdomains.
func (b *Blocklist) AddDomain(domain string) {
	b.domains = append(b.domains, normalizeHost(domain))
}

// Check reports whether host is blocked, and why.
func (b *Blocklist) Check(host string) (string, bool) {
	h := normalizeHost(host)
	if h == "" {
		return "empty hostname", true
	}

	if _, found := b.hosts[h]; found {
		return fmt.Sprintf("hostname %q is blocked", h), true
	}

	if addr, err := netip.ParseAddr(h); err == nil {
		addr = addr.Unmap()
		for _, p := range b.prefixes {
			if p.Contains(addr) {
				return fmt.Sprintf("IP address %s is in blocked range %s", addr, p), true
			}
		}
		return "", false
	}

	for _, d := range b.domains {
		if h == d || strings.HasSuffix(h, "."+d) {
			return fmt.Sprintf("domain %q is blocked", d), true
		}
	}

	return "", false
}

func normalizeHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	h = strings.TrimSuffix(h, ".")
	h = strings.TrimPrefix(h, "[")
	h = strings.TrimSuffix(h, "]")
	return h
}

// DefaultBlocklist is consulted by the URL validators. Extend it at program
// start to block additional targets; call sites do not change.
var DefaultBlocklist = NewBlocklist()

// Hostname checks a hostname against the default blocklist.
func Hostname(host string) Result {
	if reason, blocked := DefaultBlocklist.Check(host); blocked {
		return invalid(reason)
	}
	return valid()
}
