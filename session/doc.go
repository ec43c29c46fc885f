// Package session supplies the signed-in user's identity to the gateway.
//
// It deliberately does not acquire tokens; sign-in flows hand the access
// token to a TokenProvider, which exposes only the user id needed for
// the outbound identity header.
package session
