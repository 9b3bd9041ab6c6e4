package memory

import (
	"context"

	domainavailability "campsite/internal/domain/availability"
	domainblock "campsite/internal/domain/block"
	domainsite "campsite/internal/domain/site"
)

// BlockRepo persists administrative blocks in the shared store.
type BlockRepo struct {
	store *Store
}

func NewBlockRepo(store *Store) *BlockRepo {
	return &BlockRepo{store: store}
}

func (r *BlockRepo) ByID(_ context.Context, id domainblock.BlockID) (*domainblock.Block, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.blocks[id]
	if !ok {
		return nil, domainblock.ErrBlockNotFound
	}
	return cloneBlock(b), nil
}

func (r *BlockRepo) ForSite(_ context.Context, id domainsite.SiteID) ([]*domainblock.Block, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*domainblock.Block
	for _, b := range r.store.blocks {
		if b.AppliesTo(id) {
			out = append(out, cloneBlock(b))
		}
	}
	return out, nil
}

func (r *BlockRepo) All(_ context.Context) ([]*domainblock.Block, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domainblock.Block, 0, len(r.store.blocks))
	for _, b := range r.store.blocks {
		out = append(out, cloneBlock(b))
	}
	return out, nil
}

func (r *BlockRepo) Insert(_ context.Context, b *domainblock.Block) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.conflicts(b.SiteID, b.Range, string(b.ID)) {
		return domainavailability.ErrDateConflict
	}
	b.Version = 1
	r.store.blocks[b.ID] = cloneBlock(b)
	return nil
}

func (r *BlockRepo) Delete(_ context.Context, id domainblock.BlockID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.blocks[id]; !ok {
		return domainblock.ErrBlockNotFound
	}
	delete(r.store.blocks, id)
	return nil
}

var _ domainblock.Repository = (*BlockRepo)(nil)
