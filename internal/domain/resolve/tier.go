package resolve

// Tier is the precedence level at which a candidate matched. Lower tiers are
// tried first; the first hit wins.
type Tier string

const (
	TierExact           Tier = "exact"
	TierCaseInsensitive Tier = "case_insensitive"
	TierContainment     Tier = "containment"
	TierCategory        Tier = "category"
	TierTokenOverlap    Tier = "token_overlap"
)

// tierOrder fixes the strict precedence the resolver walks.
var tierOrder = []Tier{
	TierExact,
	TierCaseInsensitive,
	TierContainment,
	TierCategory,
	TierTokenOverlap,
}
