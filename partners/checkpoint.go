package partners

import (
	"context"
	"encoding/json"
	"sort"

	"code.stakewire.io/stakewire/types"
)

func (e *Engine) Name() types.CheckpointName {
	return types.PartnersCheckpoint
}

// Checkpoint serialises the partner registry, batch table and share rows.
// Everything is sorted by id so the payload is deterministic.
func (e *Engine) Checkpoint() ([]byte, error) {
	partnerIDs := make([]uint64, 0, len(e.partners))
	for id := range e.partners {
		partnerIDs = append(partnerIDs, id)
	}
	sort.Slice(partnerIDs, func(i, j int) bool { return partnerIDs[i] < partnerIDs[j] })
	partners := make([]types.PayloadPartner, 0, len(partnerIDs))
	for _, id := range partnerIDs {
		p := e.partners[id]
		partners = append(partners, types.PayloadPartner{
			ID:                    p.ID,
			Name:                  p.Name,
			Wallet:                p.Wallet,
			Status:                p.Status.String(),
			TotalCollateralStaked: p.TotalCollateralStaked.Clone(),
			TotalShares:           p.TotalShares.Clone(),
			DisbursalCount:        p.DisbursalCount,
			DisbursalRemaining:    p.DisbursalRemaining,
		})
	}

	batchIDs := make([]uint64, 0, len(e.batches))
	for id := range e.batches {
		batchIDs = append(batchIDs, id)
	}
	sort.Slice(batchIDs, func(i, j int) bool { return batchIDs[i] < batchIDs[j] })
	batches := make([]types.PayloadBatch, 0, len(batchIDs))
	for _, id := range batchIDs {
		b := e.batches[id]
		batches = append(batches, types.PayloadBatch{
			ID:                 b.ID,
			SharesBurned:       b.SharesBurned.Clone(),
			Status:             b.Status.String(),
			WithdrawalEpoch:    b.WithdrawalEpoch,
			CollateralReceived: b.CollateralReceived.Clone(),
			UndelegatedAt:      b.UndelegatedAt,
			ClaimedAt:          b.ClaimedAt,
		})
	}

	keys := make([]types.PartnerShareKey, 0, len(e.shares))
	for k := range e.shares {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].BatchID != keys[j].BatchID {
			return keys[i].BatchID < keys[j].BatchID
		}
		return keys[i].PartnerID < keys[j].PartnerID
	})
	shares := make([]types.PayloadPartnerShare, 0, len(keys))
	for _, k := range keys {
		row := e.shares[k]
		shares = append(shares, types.PayloadPartnerShare{
			BatchID:        row.BatchID,
			PartnerID:      row.PartnerID,
			SharesUnstaked: row.SharesUnstaked.Clone(),
			DisbursedAt:    row.DisbursedAt,
		})
	}

	return json.Marshal(types.PayloadPartners{
		NextPartnerID:     e.nextPartnerID,
		CurrentBatchID:    e.currentBatchID,
		Partners:          partners,
		Batches:           batches,
		Shares:            shares,
		PendingClaims:     append([]uint64{}, e.pendingClaims...),
		ReimbursementPool: e.reimbursementPool.Clone(),
		ReimbursementPct:  e.reimbursementPct,
	})
}

// Load restores the engine from a checkpoint payload.
func (e *Engine) Load(_ context.Context, data []byte) error {
	pl := types.PayloadPartners{}
	if err := json.Unmarshal(data, &pl); err != nil {
		return err
	}

	e.nextPartnerID = pl.NextPartnerID
	e.currentBatchID = pl.CurrentBatchID
	e.pendingClaims = append([]uint64{}, pl.PendingClaims...)
	e.reimbursementPool = pl.ReimbursementPool.Clone()
	e.reimbursementPct = pl.ReimbursementPct

	e.partners = make(map[uint64]*types.PartnerAccount, len(pl.Partners))
	for _, p := range pl.Partners {
		status := types.PartnerStatusActive
		if p.Status == types.PartnerStatusInactive.String() {
			status = types.PartnerStatusInactive
		}
		e.partners[p.ID] = &types.PartnerAccount{
			ID:                    p.ID,
			Name:                  p.Name,
			Wallet:                p.Wallet,
			Status:                status,
			TotalCollateralStaked: p.TotalCollateralStaked.Clone(),
			TotalShares:           p.TotalShares.Clone(),
			DisbursalCount:        p.DisbursalCount,
			DisbursalRemaining:    p.DisbursalRemaining,
		}
	}

	e.batches = make(map[uint64]*types.UnstakeBatch, len(pl.Batches))
	for _, b := range pl.Batches {
		e.batches[b.ID] = &types.UnstakeBatch{
			ID:                 b.ID,
			SharesBurned:       b.SharesBurned.Clone(),
			Status:             batchStatusFromString(b.Status),
			WithdrawalEpoch:    b.WithdrawalEpoch,
			CollateralReceived: b.CollateralReceived.Clone(),
			UndelegatedAt:      b.UndelegatedAt,
			ClaimedAt:          b.ClaimedAt,
		}
	}

	e.shares = make(map[types.PartnerShareKey]*types.PartnerShare, len(pl.Shares))
	for _, s := range pl.Shares {
		key := types.PartnerShareKey{BatchID: s.BatchID, PartnerID: s.PartnerID}
		e.shares[key] = &types.PartnerShare{
			BatchID:        s.BatchID,
			PartnerID:      s.PartnerID,
			SharesUnstaked: s.SharesUnstaked.Clone(),
			DisbursedAt:    s.DisbursedAt,
		}
	}
	return nil
}

func batchStatusFromString(s string) types.BatchStatus {
	switch s {
	case types.BatchStatusUndelegated.String():
		return types.BatchStatusUndelegated
	case types.BatchStatusClaimed.String():
		return types.BatchStatusClaimed
	default:
		return types.BatchStatusPending
	}
}
