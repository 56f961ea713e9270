package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()
	c := NewClassifier("brandassets.space", "sysadmin")

	tests := []struct {
		name string
		host string
		want Host
	}{
		{"root domain", "brandassets.space", Host{Kind: KindPublic}},
		{"root domain with port", "brandassets.space:3200", Host{Kind: KindPublic}},
		{"root domain mixed case", "BrandAssets.Space", Host{Kind: KindPublic}},
		{"admin subdomain", "sysadmin.brandassets.space", Host{Kind: KindSystemAdmin}},
		{"admin subdomain with port", "sysadmin.brandassets.space:443", Host{Kind: KindSystemAdmin}},
		{"admin subdomain mixed case", "SysAdmin.brandassets.space", Host{Kind: KindSystemAdmin}},
		{"tenant subdomain", "acme.brandassets.space", Host{Kind: KindTenant, Slug: "acme"}},
		{"tenant subdomain with port", "acme.brandassets.space:8080", Host{Kind: KindTenant, Slug: "acme"}},
		{"tenant slug case preserved", "Acme.brandassets.space", Host{Kind: KindTenant, Slug: "Acme"}},
		{"nested subdomain", "a.b.brandassets.space", Host{Kind: KindUnrecognized}},
		{"bare localhost", "localhost", Host{Kind: KindUnrecognized}},
		{"localhost with port", "localhost:3200", Host{Kind: KindUnrecognized}},
		{"raw ipv4", "192.168.1.10", Host{Kind: KindUnrecognized}},
		{"ipv4 with port", "192.168.1.10:80", Host{Kind: KindUnrecognized}},
		{"ipv6 with port", "[::1]:3200", Host{Kind: KindUnrecognized}},
		{"foreign host", "evil.example.com", Host{Kind: KindUnrecognized}},
		{"suffix lookalike", "notbrandassets.space", Host{Kind: KindUnrecognized}},
		{"empty host", "", Host{Kind: KindUnrecognized}},
		{"whitespace host", "   ", Host{Kind: KindUnrecognized}},
		{"dot only", ".brandassets.space", Host{Kind: KindUnrecognized}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.host))
		})
	}
}

func TestClassifier_EmptyRootDomain(t *testing.T) {
	t.Parallel()
	c := NewClassifier("", "sysadmin")
	assert.Equal(t, Host{Kind: KindUnrecognized}, c.Classify("acme.brandassets.space"))
}

func TestKind_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "public", KindPublic.String())
	assert.Equal(t, "system-admin", KindSystemAdmin.String())
	assert.Equal(t, "tenant", KindTenant.String())
	assert.Equal(t, "unrecognized", KindUnrecognized.String())
}
