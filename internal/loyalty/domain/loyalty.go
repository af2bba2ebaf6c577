package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientPoints is the expected outcome of redeeming below the
	// discount threshold; callers proceed without a discount.
	ErrInsufficientPoints = errors.New("insufficient loyalty points")

	// ErrNegativeTotal signals a malformed order total. Must never reach
	// the ledger from well-behaved callers.
	ErrNegativeTotal = errors.New("order total must not be negative")

	// ErrUnknownBonusKind is returned for bonus kinds without a configured
	// point amount.
	ErrUnknownBonusKind = errors.New("unknown bonus kind")
)

// Tier is a loyalty rank derived from lifetime points earned. Redeeming
// points never moves it down, since TotalEarned only grows.
type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

const (
	silverThreshold   = 200
	goldThreshold     = 500
	platinumThreshold = 1000
)

// TierForEarned returns the highest tier whose threshold is covered by
// lifetime earnings.
func TierForEarned(totalEarned int) Tier {
	switch {
	case totalEarned >= platinumThreshold:
		return TierPlatinum
	case totalEarned >= goldThreshold:
		return TierGold
	case totalEarned >= silverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

type TransactionKind string

const (
	KindEarned   TransactionKind = "earned"
	KindRedeemed TransactionKind = "redeemed"
	KindBonus    TransactionKind = "bonus"
)

// BonusKind selects a configured flat bonus amount.
type BonusKind string

const (
	BonusFirstPurchase BonusKind = "first_purchase"
	BonusBirthday      BonusKind = "birthday"
	BonusReferral      BonusKind = "referral"
	BonusReview        BonusKind = "review"
)

// Config carries the loyalty program constants.
type Config struct {
	PointsPerCurrencyUnit int
	PointsForDiscount     int
	DiscountPercent       int
	BonusPoints           map[BonusKind]int
}

func DefaultConfig() Config {
	return Config{
		PointsPerCurrencyUnit: 1,
		PointsForDiscount:     100,
		DiscountPercent:       50,
		BonusPoints: map[BonusKind]int{
			BonusFirstPurchase: 20,
			BonusBirthday:      50,
			BonusReferral:      25,
			BonusReview:        5,
		},
	}
}

// Transaction is one append-only history entry. Earned and bonus entries
// add points, redeemed entries subtract them.
type Transaction struct {
	ID             string           `json:"id"`
	Kind           TransactionKind  `json:"kind"`
	Points         int              `json:"points"`
	Description    string           `json:"description"`
	Timestamp      time.Time        `json:"timestamp"`
	OrderTotal     *decimal.Decimal `json:"orderTotal,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discountAmount,omitempty"`
}

// Account is the loyalty state of one identity. History is newest first
// and entries are never mutated or reordered after being appended.
type Account struct {
	Points        int           `json:"points"`
	TotalEarned   int           `json:"totalEarned"`
	TotalRedeemed int           `json:"totalRedeemed"`
	Tier          Tier          `json:"tier"`
	History       []Transaction `json:"history"`
}

// NewAccount returns the zero-valued account created the first time an
// identity is observed.
func NewAccount() *Account {
	return &Account{Tier: TierBronze}
}

// CanRedeemDiscount reports whether the balance covers the discount
// threshold. Recomputed on every call, never stored.
func (a *Account) CanRedeemDiscount(cfg Config) bool {
	return a.Points >= cfg.PointsForDiscount
}

// Earn credits points for a charged order total: floor(total * rate) plus
// the first-purchase bonus when applicable. A zero total earns zero
// points; this is not an error.
func (a *Account) Earn(cfg Config, orderTotal decimal.Decimal, isFirstPurchase bool, now time.Time) (Transaction, error) {
	if orderTotal.IsNegative() {
		return Transaction{}, ErrNegativeTotal
	}

	points := int(orderTotal.Mul(decimal.NewFromInt(int64(cfg.PointsPerCurrencyUnit))).IntPart())
	description := fmt.Sprintf("Purchase (%s LRD)", orderTotal.StringFixed(2))
	if isFirstPurchase {
		points += cfg.BonusPoints[BonusFirstPurchase]
		description = fmt.Sprintf("Purchase + First Purchase Bonus (%s LRD)", orderTotal.StringFixed(2))
	}

	total := orderTotal
	tx := Transaction{
		ID:          uuid.New().String(),
		Kind:        KindEarned,
		Points:      points,
		Description: description,
		Timestamp:   now,
		OrderTotal:  &total,
	}
	a.credit(tx)
	return tx, nil
}

// Redemption is the successful outcome of Redeem.
type Redemption struct {
	DiscountAmount decimal.Decimal
	PointsUsed     int
	Transaction    Transaction
}

// Redeem exchanges exactly the discount threshold of points for a
// percentage discount on the order. The ledger has no guard against a
// second redemption in the same checkout beyond the balance depleting;
// the orchestrator enforces once-per-attempt.
func (a *Account) Redeem(cfg Config, orderTotal decimal.Decimal, now time.Time) (Redemption, error) {
	if orderTotal.IsNegative() {
		return Redemption{}, ErrNegativeTotal
	}
	if !a.CanRedeemDiscount(cfg) {
		return Redemption{}, ErrInsufficientPoints
	}

	discount := orderTotal.Mul(decimal.NewFromInt(int64(cfg.DiscountPercent))).Div(decimal.NewFromInt(100))
	used := cfg.PointsForDiscount

	tx := Transaction{
		ID:             uuid.New().String(),
		Kind:           KindRedeemed,
		Points:         used,
		Description:    fmt.Sprintf("%d%% Discount Applied", cfg.DiscountPercent),
		Timestamp:      now,
		DiscountAmount: &discount,
	}
	a.Points -= used
	a.TotalRedeemed += used
	a.History = append([]Transaction{tx}, a.History...)

	return Redemption{DiscountAmount: discount, PointsUsed: used, Transaction: tx}, nil
}

// AddBonus credits a configured flat bonus amount.
func (a *Account) AddBonus(cfg Config, kind BonusKind, description string, now time.Time) (Transaction, error) {
	points, ok := cfg.BonusPoints[kind]
	if !ok {
		return Transaction{}, ErrUnknownBonusKind
	}
	tx := Transaction{
		ID:          uuid.New().String(),
		Kind:        KindBonus,
		Points:      points,
		Description: description,
		Timestamp:   now,
	}
	a.credit(tx)
	return tx, nil
}

// credit applies an earned or bonus entry: balance and lifetime counter
// grow together, then the tier is recomputed.
func (a *Account) credit(tx Transaction) {
	a.Points += tx.Points
	a.TotalEarned += tx.Points
	a.Tier = TierForEarned(a.TotalEarned)
	a.History = append([]Transaction{tx}, a.History...)
}

// Clone returns a deep copy, used to snapshot the account before a
// redemption that may need to be rolled back.
func (a *Account) Clone() *Account {
	clone := *a
	clone.History = make([]Transaction, len(a.History))
	copy(clone.History, a.History)
	for idx := range clone.History {
		if v := clone.History[idx].OrderTotal; v != nil {
			d := *v
			clone.History[idx].OrderTotal = &d
		}
		if v := clone.History[idx].DiscountAmount; v != nil {
			d := *v
			clone.History[idx].DiscountAmount = &d
		}
	}
	return &clone
}
