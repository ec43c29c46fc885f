package gateway

import (
	"net/url"
	"sync"
)

// TrustPolicy validates target URLs against a hostname allowlist and a
// mandatory secure-transport requirement.
//
// Contract:
//   - Concurrency: safe for concurrent use; configuration updates are
//     last-writer-wins.
//   - The policy is injected into the Client at construction; there is no
//     ambient process-wide instance.
type TrustPolicy struct {
	mu       sync.RWMutex
	hosts    map[string]bool
	disabled bool
}

// NewTrustPolicy creates a policy that trusts only the given hostnames
// over HTTPS.
func NewTrustPolicy(allowedHosts []string) *TrustPolicy {
	hosts := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		hosts[h] = true
	}
	return &TrustPolicy{hosts: hosts}
}

// IsTrusted reports whether rawURL may be called. It returns false when
// the URL does not parse, the scheme is not https, or the hostname is
// not allowlisted. A disabled policy trusts everything.
func (p *TrustPolicy) IsTrusted(rawURL string) bool {
	p.mu.RLock()
	disabled := p.disabled
	p.mu.RUnlock()

	if disabled {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "https" {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hosts[u.Hostname()]
}

// SetEnabled toggles the whole check at runtime. Disabling is intended
// only for controlled contexts such as local development against a
// simulator backend, never silently in production.
func (p *TrustPolicy) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.disabled = !enabled
	p.mu.Unlock()
}

// Enabled reports whether the policy is currently enforced.
func (p *TrustPolicy) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.disabled
}

// SetAllowedHosts replaces the allowlist.
func (p *TrustPolicy) SetAllowedHosts(allowedHosts []string) {
	hosts := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		hosts[h] = true
	}
	p.mu.Lock()
	p.hosts = hosts
	p.mu.Unlock()
}
