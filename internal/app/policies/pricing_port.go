package policies

import (
	"context"

	domainpricing "campsite/internal/domain/pricing"
	domainrange "campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

// PricingPort quotes a stay. Implementations wrap the pure calculator with the
// currently configured rates and holiday calendar so every caller reprices a
// stay identically.
type PricingPort interface {
	Quote(ctx context.Context, s *domainsite.Site, dr domainrange.DateRange, familyCount, visitorCount int) (domainpricing.Breakdown, error)
}
