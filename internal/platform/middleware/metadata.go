package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/mssola/useragent"
)

// ClientInfo carries per-request client metadata used in audit events.
type ClientInfo struct {
	IP      string
	Browser string
	OS      string
}

type clientInfoKey struct{}

// ClientMetadata parses the remote address and User-Agent once per request
// and stores the result in the context for audit consumers.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := ClientInfo{IP: clientIP(r)}

		if uaHeader := r.Header.Get("User-Agent"); uaHeader != "" {
			ua := useragent.New(uaHeader)
			name, version := ua.Browser()
			info.Browser = name
			if version != "" {
				info.Browser = name + " " + version
			}
			info.OS = ua.OS()
		}

		ctx := context.WithValue(r.Context(), clientInfoKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientInfo retrieves client metadata from the context.
func GetClientInfo(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

func clientIP(r *http.Request) string {
	// Trust X-Forwarded-For when present; the service runs behind a proxy.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
