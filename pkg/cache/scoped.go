package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several environments can
// share one Redis instance without seeing each other's draws.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DrawKey generates a prefixed draw key.
func (k *ScopedKeyer) DrawKey(rosterHash string, opts DrawKeyOpts) string {
	return k.prefix + k.inner.DrawKey(rosterHash, opts)
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(drawID string) string {
	return k.prefix + k.inner.ReportKey(drawID)
}
