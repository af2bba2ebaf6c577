package domain

// PointsNeededForDiscount is how many points are still missing before a
// discount can be redeemed.
func (a *Account) PointsNeededForDiscount(cfg Config) int {
	needed := cfg.PointsForDiscount - a.Points
	if needed < 0 {
		return 0
	}
	return needed
}

// DiscountProgress is the balance as a percentage of the discount
// threshold, capped at 100.
func (a *Account) DiscountProgress(cfg Config) float64 {
	progress := float64(a.Points) / float64(cfg.PointsForDiscount) * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// NextTier returns the tier above the current one. Platinum has no next
// tier and maps to itself.
func NextTier(tier Tier) Tier {
	switch tier {
	case TierBronze:
		return TierSilver
	case TierSilver:
		return TierGold
	case TierGold:
		return TierPlatinum
	default:
		return TierPlatinum
	}
}

// TierProgress reports progress toward the next tier as a percentage,
// plus the points still missing. ok is false for Platinum.
//
// The percentage assumes a uniform 200-point gap between tiers, while
// the actual thresholds {0,200,500,1000} have gaps of 200/300/500. The
// storefront has always rendered it this way, so inside the Silver and
// Gold bands the early stretch clamps to 0% and the rest runs behind
// the true fraction; only the display is off, tier assignment itself
// uses the real thresholds.
func (a *Account) TierProgress() (progress float64, pointsRemaining int, ok bool) {
	var nextThreshold int
	switch a.Tier {
	case TierBronze:
		nextThreshold = silverThreshold
	case TierSilver:
		nextThreshold = goldThreshold
	case TierGold:
		nextThreshold = platinumThreshold
	default:
		return 0, 0, false
	}

	progress = float64(a.TotalEarned-(nextThreshold-200)) / 200 * 100
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}
	return progress, nextThreshold - a.TotalEarned, true
}

// TierBenefits lists the perks of a tier, highest tiers inheriting the
// lower ones.
func TierBenefits(tier Tier) []string {
	benefits := map[Tier][]string{
		TierBronze: {"1 point per LRD spent", "Birthday bonus points"},
		TierSilver: {"1 point per LRD spent", "Birthday bonus points", "Early access to sales"},
		TierGold: {"1.2 points per LRD spent", "Birthday bonus points", "Early access to sales",
			"Free express shipping"},
		TierPlatinum: {"1.5 points per LRD spent", "Birthday bonus points", "Early access to sales",
			"Free express shipping", "Personal shopping assistant"},
	}
	if b, ok := benefits[tier]; ok {
		return b
	}
	return benefits[TierBronze]
}
