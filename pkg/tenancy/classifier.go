package tenancy

import (
	"net"
	"strings"
)

// Kind is the routing class of a request's Host header.
type Kind int

const (
	// KindUnrecognized covers bare localhost, raw IPs and foreign hosts.
	// It is not an error; callers route it as public traffic.
	KindUnrecognized Kind = iota
	KindPublic
	KindSystemAdmin
	KindTenant
)

func (k Kind) String() string {
	switch k {
	case KindPublic:
		return "public"
	case KindSystemAdmin:
		return "system-admin"
	case KindTenant:
		return "tenant"
	default:
		return "unrecognized"
	}
}

// Host is a classified Host header. Slug is set only for KindTenant and
// keeps the casing of the original label.
type Host struct {
	Kind Kind
	Slug string
}

// Classifier maps Host headers onto the platform's domain layout: the bare
// root domain, one reserved system-admin label and single-label tenant
// subdomains directly under the root.
type Classifier struct {
	rootDomain string
	adminLabel string
}

func NewClassifier(rootDomain, adminLabel string) *Classifier {
	return &Classifier{
		rootDomain: strings.ToLower(strings.TrimSpace(rootDomain)),
		adminLabel: strings.ToLower(strings.TrimSpace(adminLabel)),
	}
}

// Classify is pure and total: malformed input yields KindUnrecognized,
// never a panic.
func (c *Classifier) Classify(rawHost string) Host {
	host := stripPort(rawHost)
	if host == "" || c.rootDomain == "" {
		return Host{Kind: KindUnrecognized}
	}

	if strings.EqualFold(host, c.rootDomain) {
		return Host{Kind: KindPublic}
	}

	suffix := "." + c.rootDomain
	if len(host) <= len(suffix) || !strings.EqualFold(host[len(host)-len(suffix):], suffix) {
		return Host{Kind: KindUnrecognized}
	}

	label := host[:len(host)-len(suffix)]
	if label == "" || strings.Contains(label, ".") {
		return Host{Kind: KindUnrecognized}
	}
	if strings.EqualFold(label, c.adminLabel) {
		return Host{Kind: KindSystemAdmin}
	}
	if net.ParseIP(host) != nil {
		return Host{Kind: KindUnrecognized}
	}
	return Host{Kind: KindTenant, Slug: label}
}

func stripPort(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(raw); err == nil {
		return strings.TrimSpace(h)
	}
	return raw
}
