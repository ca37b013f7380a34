package storefront

import (
	"context"
	"sync"

	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/domain"
)

// RegionCache resolves the pricing region used for catalog and cart calls.
// A configured region ID wins; otherwise the platform's first region is
// fetched once and reused for the life of the process.
type RegionCache struct {
	client commerce.Client

	mu sync.Mutex
	id string
}

func NewRegionCache(client commerce.Client, configured string) *RegionCache {
	return &RegionCache{client: client, id: configured}
}

// ID returns the region ID, fetching it from the platform on first use.
func (rc *RegionCache) ID(ctx context.Context) (string, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.id != "" {
		return rc.id, nil
	}

	regions, err := rc.client.ListRegions(ctx)
	if err != nil {
		return "", err
	}
	if len(regions) == 0 {
		return "", domain.Errorf(domain.EINTERNAL, "RegionCache.ID", "platform has no regions configured")
	}

	rc.id = regions[0].ID
	return rc.id, nil
}
