package types

import (
	"code.stakewire.io/stakewire/types/num"
)

// ValidatorRef identifies a validator in the delegation backend. The core
// never interprets it, it only records which validator a request was bound
// to at creation time.
type ValidatorRef string

// WithdrawalRequest is a single pending redemption. Shares are burned and
// both ledger totals decremented when the request is created, so the amounts
// here are frozen and the exchange rate is unaffected by pending requests.
type WithdrawalRequest struct {
	Owner          string
	SharesBurned   *num.Uint
	CollateralOwed *num.Uint
	Validator      ValidatorRef
	RequestEpoch   uint64
	UnlockEpoch    uint64
	Claimed        bool
}

func (w *WithdrawalRequest) Clone() *WithdrawalRequest {
	cpy := *w
	cpy.SharesBurned = w.SharesBurned.Clone()
	cpy.CollateralOwed = w.CollateralOwed.Clone()
	return &cpy
}
