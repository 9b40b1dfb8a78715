package ratelimit

// Tier classifies a caller for quota purposes.
type Tier string

const (
	TierAnonymous Tier = "anonymous"
	TierBasic     Tier = "basic"
	TierPersonal  Tier = "personal"
	TierAdmin     Tier = "admin"
)

// Quotas maps a tier to its per-minute request quota.
type Quotas map[Tier]int

// DefaultQuotas returns the standard per-minute quotas. Values are
// non-decreasing from anonymous to admin.
func DefaultQuotas() Quotas {
	return Quotas{
		TierAnonymous: 5,
		TierBasic:     10,
		TierPersonal:  20,
		TierAdmin:     100,
	}
}

// Limit returns the quota for tier. Unknown tiers get the anonymous quota.
func (q Quotas) Limit(tier Tier) int {
	if limit, ok := q[tier]; ok {
		return limit
	}

	return q[TierAnonymous]
}
