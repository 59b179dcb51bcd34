package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/logger"
)

// hostMatcher matches exact hostnames and "*.example.com" wildcards.
// Comparison is case-insensitive and ignores the port.
type hostMatcher struct {
	exact    map[string]struct{}
	suffixes []string
}

func newHostMatcher(patterns []string) *hostMatcher {
	m := &hostMatcher{exact: make(map[string]struct{}, len(patterns))}
	for _, raw := range patterns {
		p := strings.ToLower(strings.TrimSpace(raw))
		if p == "" {
			continue
		}
		if after, ok := strings.CutPrefix(p, "*."); ok {
			m.suffixes = append(m.suffixes, "."+after)
			continue
		}
		m.exact[p] = struct{}{}
	}
	return m
}

func (m *hostMatcher) isEmpty() bool {
	return len(m.exact) == 0 && len(m.suffixes) == 0
}

func (m *hostMatcher) allow(host string) bool {
	h := strings.ToLower(hostNoPort(host))
	if _, ok := m.exact[h]; ok {
		return true
	}
	for _, suffix := range m.suffixes {
		if strings.HasSuffix(h, suffix) {
			return true
		}
	}
	return false
}

// EnforceHost allows requests only if r.Host matches one of the allowed
// patterns. If allowedHosts is empty, it acts as a passthrough.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	m := newHostMatcher(allowedHosts)
	if m.isEmpty() {
		log.Debug("EnforceHost: empty allowedHosts, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debugf("EnforceHost: initialized with hosts=%v", allowedHosts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.allow(r.Host) {
				log.Debugf("EnforceHost: Host %s REJECTED", r.Host)
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
