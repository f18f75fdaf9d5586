package quality

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// LogoRules is the data the low-quality logo check consults. It is loaded
// from the rules file so operators can adjust it without a release.
type LogoRules struct {
	// AllowedHosts are registrable domains whose raster logos are trusted
	// even without a logo-like path segment.
	AllowedHosts []string `toml:"allowed_hosts"`

	// ObjectStorageHosts are host suffixes of object-storage buckets.
	ObjectStorageHosts []string `toml:"object_storage_hosts"`

	// DenyFragments are substrings (usually filename hashes) of logo URLs
	// known to be bad.
	DenyFragments []string `toml:"deny_fragments"`
}

// DefaultLogoRules returns the built-in rules.
func DefaultLogoRules() LogoRules {
	return LogoRules{
		AllowedHosts: []string{
			"githubusercontent.com",
			"googleusercontent.com",
			"gravatar.com",
		},
		ObjectStorageHosts: []string{
			"amazonaws.com",
			"storage.googleapis.com",
			"r2.dev",
			"supabase.co",
			"digitaloceanspaces.com",
		},
	}
}

// registrableDomain returns the eTLD+1 of host, or host itself when it has
// none (localhost, IP addresses).
func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

func (r LogoRules) allowed(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	d := registrableDomain(host)
	for _, h := range r.AllowedHosts {
		h = strings.ToLower(h)
		// Some allowed hosts are public suffixes themselves (githubusercontent.com).
		if d == registrableDomain(h) || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func (r LogoRules) objectStorage(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	for _, h := range r.ObjectStorageHosts {
		h = strings.ToLower(h)
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func (r LogoRules) denied(rawURL string) bool {
	for _, f := range r.DenyFragments {
		if f != "" && strings.Contains(rawURL, f) {
			return true
		}
	}
	return false
}
