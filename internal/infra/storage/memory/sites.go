package memory

import (
	"context"

	domainsite "campsite/internal/domain/site"
)

// SiteRepo serves the immutable site catalogue from the shared store.
type SiteRepo struct {
	store *Store
}

func NewSiteRepo(store *Store) *SiteRepo {
	return &SiteRepo{store: store}
}

func (r *SiteRepo) ByID(_ context.Context, id domainsite.SiteID) (*domainsite.Site, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.sites[id]
	if !ok {
		return nil, domainsite.ErrSiteNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *SiteRepo) All(_ context.Context) ([]*domainsite.Site, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domainsite.Site, 0, len(r.store.siteOrder))
	for _, id := range r.store.siteOrder {
		copied := *r.store.sites[id]
		out = append(out, &copied)
	}
	return out, nil
}

var _ domainsite.Repository = (*SiteRepo)(nil)
