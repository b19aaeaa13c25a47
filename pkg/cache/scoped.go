package cache

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces when
// several datasets (e.g. different championships) share one backend.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "studchr:")
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

// DiagramKey generates a prefixed key for a built diagram.
func (k *ScopedKeyer) DiagramKey(datasetHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(datasetHash, opts)
}
