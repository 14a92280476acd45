// Package netx has small helpers for reading HTTP request metadata.
package netx

import (
	"net"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/piiquante/internal/common"
)

// ClientIP returns RemoteAddr without its port. Forwarding headers are not
// consulted here; behind a trusted proxy the router rewrites RemoteAddr
// from them before this runs.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(common.AuthorizationHeaderName)
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
