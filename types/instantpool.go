package types

import (
	"time"

	"code.stakewire.io/stakewire/types/num"
)

// RateSnapshot is a relayed copy of the primary ledger's exchange rate.
// The relay is at-least-once and unordered, so consumers deduplicate by
// nonce: a snapshot whose nonce is not strictly greater than the last
// applied one is discarded.
type RateSnapshot struct {
	TotalPooledCollateral *num.Uint
	TotalShares           *num.Uint
	Nonce                 uint64
}

func (r RateSnapshot) Clone() RateSnapshot {
	return RateSnapshot{
		TotalPooledCollateral: r.TotalPooledCollateral.Clone(),
		TotalShares:           r.TotalShares.Clone(),
		Nonce:                 r.Nonce,
	}
}

// SwapRequest is a share-for-collateral redemption held under the instant
// pool's local lock. The payout amount is frozen at request time.
type SwapRequest struct {
	Owner          string
	Amount         *num.Uint
	RequestTime    time.Time
	WithdrawalTime time.Time
}

func (s *SwapRequest) Clone() *SwapRequest {
	cpy := *s
	cpy.Amount = s.Amount.Clone()
	return &cpy
}
