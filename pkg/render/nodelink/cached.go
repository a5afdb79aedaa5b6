package nodelink

import (
	"context"
	"time"

	"github.com/matzehuels/jsongraph/pkg/cache"
	"github.com/matzehuels/jsongraph/pkg/observability"
)

// CachedSVG renders dot to SVG, reusing an artifact stored in c under the
// keyer's artifact key. It reports whether the result came from the cache.
// Cache read and write failures fall back to rendering.
func CachedSVG(ctx context.Context, c cache.Cache, keyer cache.Keyer, dot string, ttl time.Duration) ([]byte, bool, error) {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	key := keyer.ArtifactKey(dot, cache.ArtifactKeyOpts{Format: "svg"})

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	svg, err := RenderSVG(ctx, dot)
	observability.Render().OnRenderComplete(ctx, "svg", time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := c.Set(ctx, key, svg, ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(svg))
	}
	return svg, false, nil
}
