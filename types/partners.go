package types

import (
	"time"

	"code.stakewire.io/stakewire/types/num"
)

type PartnerStatus int

const (
	PartnerStatusActive PartnerStatus = iota
	PartnerStatusInactive
)

func (s PartnerStatus) String() string {
	if s == PartnerStatusActive {
		return "active"
	}
	return "inactive"
}

// PartnerAccount tracks one partner's position in the shared delegation
// pool. Accounts are never deleted, only deactivated.
type PartnerAccount struct {
	ID     uint64
	Name   string
	Wallet string
	Status PartnerStatus
	// TotalCollateralStaked is cumulative principal, it only ever grows.
	TotalCollateralStaked *num.Uint
	// TotalShares is the partner's current share claim, reduced by each
	// harvest back down to the principal's share equivalent.
	TotalShares        *num.Uint
	DisbursalCount     uint64
	DisbursalRemaining uint64
}

func (p *PartnerAccount) Clone() *PartnerAccount {
	cpy := *p
	cpy.TotalCollateralStaked = p.TotalCollateralStaked.Clone()
	cpy.TotalShares = p.TotalShares.Clone()
	return &cpy
}

type BatchStatus int

const (
	BatchStatusPending BatchStatus = iota
	BatchStatusUndelegated
	BatchStatusClaimed
)

func (s BatchStatus) String() string {
	switch s {
	case BatchStatusPending:
		return "pending"
	case BatchStatusUndelegated:
		return "undelegated"
	case BatchStatusClaimed:
		return "claimed"
	default:
		return "unknown"
	}
}

// UnstakeBatch groups harvested partner rewards so they can be undelegated
// and settled together. Exactly one batch is pending at any time.
type UnstakeBatch struct {
	ID uint64
	// SharesBurned is the total of all partner harvests in this batch.
	SharesBurned       *num.Uint
	Status             BatchStatus
	WithdrawalEpoch    uint64
	CollateralReceived *num.Uint
	UndelegatedAt      time.Time
	ClaimedAt          time.Time
}

func (b *UnstakeBatch) Clone() *UnstakeBatch {
	cpy := *b
	cpy.SharesBurned = b.SharesBurned.Clone()
	cpy.CollateralReceived = b.CollateralReceived.Clone()
	return &cpy
}

// PartnerShareKey addresses a partner's contribution to a batch. Keeping
// contributions in a flat table keyed by (batch, partner) makes adding a
// partner to a batch an O(1) insert, independent of how many partners ever
// register.
type PartnerShareKey struct {
	BatchID   uint64
	PartnerID uint64
}

// PartnerShare is one partner's contribution to a batch. The sum of
// SharesUnstaked over a batch's rows always equals the batch's SharesBurned.
type PartnerShare struct {
	BatchID        uint64
	PartnerID      uint64
	SharesUnstaked *num.Uint
	// DisbursedAt is zero until the partner has been paid.
	DisbursedAt time.Time
}

func (s *PartnerShare) Clone() *PartnerShare {
	cpy := *s
	cpy.SharesUnstaked = s.SharesUnstaked.Clone()
	return &cpy
}
