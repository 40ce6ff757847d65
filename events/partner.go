package events

import (
	"context"

	"code.stakewire.io/stakewire/types/num"
)

// PartnerRegistered is emitted when a new partner account is created.
type PartnerRegistered struct {
	*Base
	partnerID uint64
	wallet    string
}

func NewPartnerRegistered(ctx context.Context, partnerID uint64, wallet string) *PartnerRegistered {
	return &PartnerRegistered{
		Base:      newBase(ctx, PartnerRegisteredEvent),
		partnerID: partnerID,
		wallet:    wallet,
	}
}

func (p PartnerRegistered) PartnerID() uint64 { return p.partnerID }
func (p PartnerRegistered) Wallet() string    { return p.wallet }

// PartnerStaked is emitted when principal is deposited on a partner's behalf.
type PartnerStaked struct {
	*Base
	partnerID    uint64
	amount       *num.Uint
	sharesMinted *num.Uint
}

func NewPartnerStaked(ctx context.Context, partnerID uint64, amount, sharesMinted *num.Uint) *PartnerStaked {
	return &PartnerStaked{
		Base:         newBase(ctx, PartnerStakedEvent),
		partnerID:    partnerID,
		amount:       amount.Clone(),
		sharesMinted: sharesMinted.Clone(),
	}
}

func (p PartnerStaked) PartnerID() uint64       { return p.partnerID }
func (p PartnerStaked) Amount() *num.Uint       { return p.amount.Clone() }
func (p PartnerStaked) SharesMinted() *num.Uint { return p.sharesMinted.Clone() }

// RewardsHarvested is emitted per partner with a positive reward when due
// rewards are moved into the current batch. Zero reward partners emit nothing.
type RewardsHarvested struct {
	*Base
	partnerID uint64
	batchID   uint64
	shares    *num.Uint
}

func NewRewardsHarvested(ctx context.Context, partnerID, batchID uint64, shares *num.Uint) *RewardsHarvested {
	return &RewardsHarvested{
		Base:      newBase(ctx, RewardsHarvestedEvent),
		partnerID: partnerID,
		batchID:   batchID,
		shares:    shares.Clone(),
	}
}

func (r RewardsHarvested) PartnerID() uint64 { return r.partnerID }
func (r RewardsHarvested) BatchID() uint64   { return r.batchID }
func (r RewardsHarvested) Shares() *num.Uint { return r.shares.Clone() }

// BatchUndelegated is emitted when the current batch is frozen and its
// shares undelegated.
type BatchUndelegated struct {
	*Base
	batchID         uint64
	sharesBurned    *num.Uint
	withdrawalEpoch uint64
}

func NewBatchUndelegated(ctx context.Context, batchID uint64, sharesBurned *num.Uint, withdrawalEpoch uint64) *BatchUndelegated {
	return &BatchUndelegated{
		Base:            newBase(ctx, BatchUndelegatedEvent),
		batchID:         batchID,
		sharesBurned:    sharesBurned.Clone(),
		withdrawalEpoch: withdrawalEpoch,
	}
}

func (b BatchUndelegated) BatchID() uint64         { return b.batchID }
func (b BatchUndelegated) SharesBurned() *num.Uint { return b.sharesBurned.Clone() }
func (b BatchUndelegated) WithdrawalEpoch() uint64 { return b.withdrawalEpoch }

// BatchClaimed is emitted when a matured batch's collateral is pulled back
// from the delegation backend.
type BatchClaimed struct {
	*Base
	batchID            uint64
	collateralReceived *num.Uint
}

func NewBatchClaimed(ctx context.Context, batchID uint64, collateralReceived *num.Uint) *BatchClaimed {
	return &BatchClaimed{
		Base:               newBase(ctx, BatchClaimedEvent),
		batchID:            batchID,
		collateralReceived: collateralReceived.Clone(),
	}
}

func (b BatchClaimed) BatchID() uint64               { return b.batchID }
func (b BatchClaimed) CollateralReceived() *num.Uint { return b.collateralReceived.Clone() }

// RewardDisbursed is emitted when a partner's slice of a claimed batch is
// paid out, bonus included.
type RewardDisbursed struct {
	*Base
	batchID   uint64
	partnerID uint64
	amount    *num.Uint
	bonus     *num.Uint
}

func NewRewardDisbursed(ctx context.Context, batchID, partnerID uint64, amount, bonus *num.Uint) *RewardDisbursed {
	return &RewardDisbursed{
		Base:      newBase(ctx, RewardDisbursedEvent),
		batchID:   batchID,
		partnerID: partnerID,
		amount:    amount.Clone(),
		bonus:     bonus.Clone(),
	}
}

func (r RewardDisbursed) BatchID() uint64   { return r.batchID }
func (r RewardDisbursed) PartnerID() uint64 { return r.partnerID }
func (r RewardDisbursed) Amount() *num.Uint { return r.amount.Clone() }
func (r RewardDisbursed) Bonus() *num.Uint  { return r.bonus.Clone() }
