package cache

// ScopedKeyer wraps a Keyer with a prefix so different users or deployments
// sharing one backend get separate cache namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SceneKey generates a prefixed scene document key.
func (k *ScopedKeyer) SceneKey(name, contentHash string) string {
	return k.prefix + k.inner.SceneKey(name, contentHash)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
