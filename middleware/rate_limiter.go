package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/utils"
)

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

// IPRateLimiter is a per-IP sliding window limiter kept in memory.
type IPRateLimiter struct {
	max         int
	window      time.Duration
	trustedCIDR []string
	cleanupTick time.Duration

	mu    sync.Mutex
	state map[string]timestamps
	stop  chan struct{}
	once  sync.Once
}

// NewIPRateLimiter allows maxReq requests per window per client IP.
// trustedProxies lists the IPs or CIDRs whose X-Forwarded-For is honored.
func NewIPRateLimiter(maxReq int, window time.Duration, trustedProxies []string) *IPRateLimiter {
	l := &IPRateLimiter{
		max:         maxReq,
		window:      window,
		trustedCIDR: trustedProxies,
		cleanupTick: time.Minute,
		state:       make(map[string]timestamps),
		stop:        make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// clientIPGeneric returns the client IP string. If trustedCIDR is provided,
// X-Forwarded-For / X-Real-IP headers are honored when remote addr is inside
// one of the trusted CIDRs or IPs.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteHost = r.RemoteAddr
	}
	remoteIP := net.ParseIP(remoteHost)
	if remoteIP != nil && isTrustedProxy(remoteIP, trustedCIDR) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			return strings.TrimSpace(strings.Split(xff, ",")[0])
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	return remoteHost
}

func isTrustedProxy(ip net.IP, trusted []string) bool {
	for _, entry := range trusted {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if _, ipnet, err := net.ParseCIDR(entry); err == nil && ipnet.Contains(ip) {
				return true
			}
			continue
		}
		if p := net.ParseIP(entry); p != nil && p.Equal(ip) {
			return true
		}
	}
	return false
}

// hit records a request for key and returns the count inside the window and
// the oldest timestamp still counted.
func (l *IPRateLimiter) hit(key string, now int64) (int, int64) {
	cutoff := now - int64(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()
	var filtered timestamps
	for _, ts := range l.state[key] {
		if ts >= cutoff {
			filtered = append(filtered, ts)
		}
	}
	filtered = append(filtered, now)
	l.state[key] = filtered
	return len(filtered), filtered[0]
}

// Middleware applies the per-IP limit and sets rate-limit headers.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, l.trustedCIDR)
		now := nowUnix()
		count, oldest := l.hit(ip, now)

		remaining := l.max - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > l.max {
			// the oldest counted request leaves the window first
			retryAfter := int((oldest + int64(l.window) - now) / int64(time.Second))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
				Success: false,
				Message: "Too many requests, please try again later",
				Data:    map[string]interface{}{"retry_after_seconds": retryAfter},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop ends the background cleanup.
func (l *IPRateLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *IPRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-tick.C:
			l.sweep(nowUnix())
		}
	}
}

func (l *IPRateLimiter) sweep(now int64) {
	cutoff := now - int64(l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, arr := range l.state {
		var filtered timestamps
		for _, ts := range arr {
			if ts >= cutoff {
				filtered = append(filtered, ts)
			}
		}
		if len(filtered) == 0 {
			delete(l.state, k)
		} else {
			l.state[k] = filtered
		}
	}
}
