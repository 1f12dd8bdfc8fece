package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubdomainLocks(t *testing.T) {
	l := NewSubdomainLocks()

	release, ok := l.TryAcquire("acme")
	require.True(t, ok)

	_, ok = l.TryAcquire("acme")
	assert.False(t, ok, "second acquire of a held subdomain must fail")

	_, ok = l.TryAcquire("other")
	assert.True(t, ok, "unrelated subdomains are independent")

	release()
	_, ok = l.TryAcquire("acme")
	assert.True(t, ok, "released subdomain can be reacquired")
}

func TestSubdomainLocksReleaseTwice(t *testing.T) {
	l := NewSubdomainLocks()

	release, ok := l.TryAcquire("acme")
	require.True(t, ok)

	release()

	// A second job acquires the subdomain; the first job's stale release
	// must not free it.
	_, ok = l.TryAcquire("acme")
	require.True(t, ok)

	release()
	_, ok = l.TryAcquire("acme")
	assert.False(t, ok, "double release must not free another holder's lock")
}
