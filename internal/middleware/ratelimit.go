package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"seva-backend/internal/cache"
)

const (
	publicLimit       = 60
	publicWindow      = time.Minute
	redeemIPLimit     = 10
	redeemIPWindow    = time.Minute
	redeemTokenLimit  = 30
	redeemTokenWindow = time.Hour
	tokenPrefixLen    = 16
)

// RateLimitPublic bounds unauthenticated transparency traffic per IP.
func RateLimitPublic(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := "rl:public:" + ip
			count, err := cacheClient.IncrWithTTL(key, publicWindow)
			if err == nil && count > publicLimit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitRedeemIP bounds invitation redemption attempts per IP, slowing
// token guessing from a single source.
func RateLimitRedeemIP(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := "rl:redeem:ip:" + ip
			count, err := cacheClient.IncrWithTTL(key, redeemIPWindow)
			if err == nil && count > redeemIPLimit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitRedeemToken bounds retries against one token prefix across all
// sources.
func RateLimitRedeemToken(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := redeemToken(r)
			if token != "" {
				prefix := token
				if len(prefix) > tokenPrefixLen {
					prefix = prefix[:tokenPrefixLen]
				}
				key := "rl:redeem:token:" + prefix
				count, err := cacheClient.IncrWithTTL(key, redeemTokenWindow)
				if err == nil && count > redeemTokenLimit {
					http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// redeemToken extracts the invitation token from any of the places the
// accept handler reads it: query string, header, or JSON body. The body is
// restored so the handler can decode it again.
func redeemToken(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}
	if token := strings.TrimSpace(r.Header.Get("X-Invite-Token")); token != "" {
		return token
	}
	if r.Body == nil {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.Token)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
