package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// Points conservation: at every observation point the balance equals the
// sum of earned+bonus history entries minus the redeemed ones, and the
// lifetime counters match their side of the history.
func TestPointsConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		acct := NewAccount()
		cfg := DefaultConfig()
		now := time.Now()

		ops := rapid.IntRange(1, 60).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				total := decimal.NewFromInt(rapid.Int64Range(0, 500).Draw(t, "total"))
				first := rapid.Bool().Draw(t, "first")
				if _, err := acct.Earn(cfg, total, first, now); err != nil {
					t.Fatalf("earn failed: %v", err)
				}
			case 1:
				total := decimal.NewFromInt(rapid.Int64Range(0, 500).Draw(t, "total"))
				_, err := acct.Redeem(cfg, total, now)
				if err != nil && err != ErrInsufficientPoints {
					t.Fatalf("redeem failed: %v", err)
				}
			case 2:
				kinds := []BonusKind{BonusBirthday, BonusReferral, BonusReview}
				kind := kinds[rapid.IntRange(0, len(kinds)-1).Draw(t, "kind")]
				if _, err := acct.AddBonus(cfg, kind, "bonus", now); err != nil {
					t.Fatalf("bonus failed: %v", err)
				}
			}

			credited, debited := 0, 0
			for _, tx := range acct.History {
				switch tx.Kind {
				case KindEarned, KindBonus:
					credited += tx.Points
				case KindRedeemed:
					debited += tx.Points
				}
			}
			if acct.Points != credited-debited {
				t.Fatalf("balance %d != history sum %d-%d", acct.Points, credited, debited)
			}
			if acct.TotalEarned != credited {
				t.Fatalf("totalEarned %d != credited history sum %d", acct.TotalEarned, credited)
			}
			if acct.TotalRedeemed != debited {
				t.Fatalf("totalRedeemed %d != debited history sum %d", acct.TotalRedeemed, debited)
			}
			if acct.Points < 0 {
				t.Fatalf("balance went negative: %d", acct.Points)
			}
			if acct.Tier != TierForEarned(acct.TotalEarned) {
				t.Fatalf("tier %s inconsistent with totalEarned %d", acct.Tier, acct.TotalEarned)
			}
		}
	})
}

// Tier monotonicity: across any operation sequence the tier index never
// decreases.
func TestTierMonotonicity(t *testing.T) {
	rank := map[Tier]int{TierBronze: 0, TierSilver: 1, TierGold: 2, TierPlatinum: 3}

	rapid.Check(t, func(t *rapid.T) {
		acct := NewAccount()
		cfg := DefaultConfig()
		now := time.Now()
		highest := rank[acct.Tier]

		ops := rapid.IntRange(1, 60).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			if rapid.Bool().Draw(t, "earnOrRedeem") {
				total := decimal.NewFromInt(rapid.Int64Range(0, 300).Draw(t, "total"))
				if _, err := acct.Earn(cfg, total, false, now); err != nil {
					t.Fatalf("earn failed: %v", err)
				}
			} else {
				_, err := acct.Redeem(cfg, decimal.NewFromInt(100), now)
				if err != nil && err != ErrInsufficientPoints {
					t.Fatalf("redeem failed: %v", err)
				}
			}

			if rank[acct.Tier] < highest {
				t.Fatalf("tier downgraded from rank %d to %s", highest, acct.Tier)
			}
			highest = rank[acct.Tier]
		}
	})
}
