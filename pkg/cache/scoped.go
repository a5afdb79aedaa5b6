package cache

// Keyer derives cache keys for render artifacts.
type Keyer interface {
	// GraphKey identifies the display graph of a document text.
	GraphKey(documentText string) string
	// ArtifactKey identifies a rendered artifact of a DOT source.
	ArtifactKey(dot string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// DefaultKeyer hashes content into "graph:" and "artifact:" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey hashes the document text.
func (DefaultKeyer) GraphKey(documentText string) string {
	return hashKey("graph", Hash([]byte(documentText)))
}

// ArtifactKey hashes the DOT source together with the options.
func (DefaultKeyer) ArtifactKey(dot string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", Hash([]byte(dot)), opts)
}

// ScopedKeyer wraps a Keyer with a prefix so that several documents can
// share one Redis cache without clearing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "doc:fruits:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer is replaced by the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey generates a prefixed graph key.
func (k *ScopedKeyer) GraphKey(documentText string) string {
	return k.prefix + k.inner.GraphKey(documentText)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(dot string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(dot, opts)
}
