package policies

import (
	"context"

	domainpolicy "campsite/internal/domain/policy"
)

// PolicyPort resolves the currently active business policy (refund tiers,
// minimum stay, deposit deadline) and the booking horizon. Kept behind a port
// so tests substitute alternates and admins can retune without a redeploy.
type PolicyPort interface {
	Current(ctx context.Context) (domainpolicy.Policy, error)
	OpenDays(ctx context.Context) (domainpolicy.OpenDayRule, error)
}
