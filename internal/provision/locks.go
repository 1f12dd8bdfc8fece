package provision

import "sync"

// SubdomainLocks serializes provisioning per subdomain. A lock is taken
// before the conflict check and released once the create-site step has
// finished, closing the window where two jobs for the same subdomain could
// both see the site directory as absent.
type SubdomainLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewSubdomainLocks() *SubdomainLocks {
	return &SubdomainLocks{held: make(map[string]struct{})}
}

// TryAcquire claims a subdomain without blocking. The returned release
// function is safe to call more than once.
func (l *SubdomainLocks) TryAcquire(subdomain string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[subdomain]; taken {
		return nil, false
	}
	l.held[subdomain] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, subdomain)
			l.mu.Unlock()
		})
	}, true
}
