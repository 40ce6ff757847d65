package events

import (
	"context"
	"time"

	"code.stakewire.io/stakewire/types/num"
)

// LiquidityProvided is emitted when the pool owner tops up a buffer.
type LiquidityProvided struct {
	*Base
	provider   string
	collateral *num.Uint
	shares     *num.Uint
}

func NewLiquidityProvided(ctx context.Context, provider string, collateral, shares *num.Uint) *LiquidityProvided {
	return &LiquidityProvided{
		Base:       newBase(ctx, LiquidityProvidedEvent),
		provider:   provider,
		collateral: collateral.Clone(),
		shares:     shares.Clone(),
	}
}

func (l LiquidityProvided) Provider() string      { return l.provider }
func (l LiquidityProvided) Collateral() *num.Uint { return l.collateral.Clone() }
func (l LiquidityProvided) Shares() *num.Uint     { return l.shares.Clone() }

// CollateralSwapped is emitted when collateral is swapped for shares at the
// relayed rate.
type CollateralSwapped struct {
	*Base
	party     string
	amountIn  *num.Uint
	sharesOut *num.Uint
	fee       *num.Uint
}

func NewCollateralSwapped(ctx context.Context, party string, amountIn, sharesOut, fee *num.Uint) *CollateralSwapped {
	return &CollateralSwapped{
		Base:      newBase(ctx, CollateralSwappedEvent),
		party:     party,
		amountIn:  amountIn.Clone(),
		sharesOut: sharesOut.Clone(),
		fee:       fee.Clone(),
	}
}

func (c CollateralSwapped) Party() string        { return c.party }
func (c CollateralSwapped) AmountIn() *num.Uint  { return c.amountIn.Clone() }
func (c CollateralSwapped) SharesOut() *num.Uint { return c.sharesOut.Clone() }
func (c CollateralSwapped) Fee() *num.Uint       { return c.fee.Clone() }

// SwapRequested is emitted when a share redemption enters the local lock.
type SwapRequested struct {
	*Base
	owner          string
	sharesIn       *num.Uint
	collateralOut  *num.Uint
	withdrawalTime time.Time
}

func NewSwapRequested(ctx context.Context, owner string, sharesIn, collateralOut *num.Uint, withdrawalTime time.Time) *SwapRequested {
	return &SwapRequested{
		Base:           newBase(ctx, SwapRequestedEvent),
		owner:          owner,
		sharesIn:       sharesIn.Clone(),
		collateralOut:  collateralOut.Clone(),
		withdrawalTime: withdrawalTime,
	}
}

func (s SwapRequested) Owner() string             { return s.owner }
func (s SwapRequested) SharesIn() *num.Uint       { return s.sharesIn.Clone() }
func (s SwapRequested) CollateralOut() *num.Uint  { return s.collateralOut.Clone() }
func (s SwapRequested) WithdrawalTime() time.Time { return s.withdrawalTime }

// SwapClaimed is emitted when a locked swap request is paid out and removed.
type SwapClaimed struct {
	*Base
	owner  string
	amount *num.Uint
}

func NewSwapClaimed(ctx context.Context, owner string, amount *num.Uint) *SwapClaimed {
	return &SwapClaimed{
		Base:   newBase(ctx, SwapClaimedEvent),
		owner:  owner,
		amount: amount.Clone(),
	}
}

func (s SwapClaimed) Owner() string     { return s.owner }
func (s SwapClaimed) Amount() *num.Uint { return s.amount.Clone() }
