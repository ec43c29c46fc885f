// Package gateway executes outbound calls against the trusted API origin.
//
// Every call flows through a fixed policy pipeline: hostname allowlist
// with mandatory HTTPS, a per-endpoint sliding-window rate limit, a
// two-tier request timeout, wire naming translation for JSON bodies,
// identity header injection, and normalization into a uniform Result
// envelope.
//
// The pipeline is deliberately not a general HTTP client: one allowlist,
// one rate-limit window, two timeout tiers, and no retries, circuit
// breaking, or request deduplication.
package gateway
