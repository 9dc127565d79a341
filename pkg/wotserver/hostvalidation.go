package wotserver

import (
	"net/http"
	"strings"
	"sync"
)

// hostAllowList is the mutable form of the Host-header allow-list from
// section 4.6, swappable at runtime so a config hot-reload (section 4.8) can
// update it without restarting the listener.
type hostAllowList struct {
	mu       sync.RWMutex
	allow    map[string]struct{}
	disabled bool
}

func newHostAllowList(hosts []string, disabled bool) *hostAllowList {
	l := &hostAllowList{}
	l.update(hosts, disabled)
	return l
}

// update replaces the allow-set and disabled flag atomically.
func (l *hostAllowList) update(hosts []string, disabled bool) {
	allow := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		allow[strings.ToLower(h)] = struct{}{}
	}

	l.mu.Lock()
	l.allow = allow
	l.disabled = disabled
	l.mu.Unlock()
}

// allows reports whether host (as sent in the Host header) passes the
// allow-list, or the list is disabled.
func (l *hostAllowList) allows(host string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.disabled {
		return true
	}
	_, ok := l.allow[strings.ToLower(host)]
	return ok
}

// hostValidation wraps next with the Host-header allow-list middleware from
// section 4.6: requests whose Host header (case-insensitive, compared as
// written including any port) isn't in list are rejected with 403.
//
// Adapted from the original server's HostValidator/validate_host, which
// rejects at the actix Transform layer; here it is a plain net/http
// middleware wrapping the gorilla/mux router.
func hostValidation(list *hostAllowList, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !list.allows(r.Host) {
			http.Error(w, "403 Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
