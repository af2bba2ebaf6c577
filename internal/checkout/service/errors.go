package service

import "errors"

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrCheckoutPending rejects a second submission while a payment call
	// for the same user is still outstanding.
	ErrCheckoutPending = errors.New("checkout already in progress")

	IllegalTransitionError = errors.New("illegal transition of checkout status")
)
