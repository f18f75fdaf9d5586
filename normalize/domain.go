package normalize

import (
	"net/url"
	"strings"
)

// HostLabel returns the first DNS label of sourceURL's host with any
// leading "www." removed, lowercased. ok is false when the URL has no host.
func HostLabel(sourceURL string) (label string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", false
	}
	label, _, _ = strings.Cut(host, ".")
	return label, label != ""
}

// DomainBrand turns the host label into a display name: hyphens become
// spaces and every word is capitalized ("acme-labs.io" -> "Acme Labs").
func DomainBrand(sourceURL string) string {
	label, ok := HostLabel(sourceURL)
	if !ok {
		return ""
	}
	return capitalizeWords(strings.ReplaceAll(label, "-", " "))
}

// CapitalizedLabel returns the host label with its first letter upper-cased.
func CapitalizedLabel(sourceURL string) string {
	label, ok := HostLabel(sourceURL)
	if !ok {
		return ""
	}
	return capitalizeFirst(label)
}
