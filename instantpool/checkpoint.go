package instantpool

import (
	"context"
	"encoding/json"

	"code.stakewire.io/stakewire/types"
)

func (e *Engine) Name() types.CheckpointName {
	return types.InstantPoolCheckpoint
}

// Checkpoint serialises the buffers, the last applied snapshot and the
// open swap requests. Request order is preserved, claim indexes are
// positional.
func (e *Engine) Checkpoint() ([]byte, error) {
	requests := make([]types.PayloadSwapRequest, 0, len(e.requests))
	for _, req := range e.requests {
		requests = append(requests, types.PayloadSwapRequest{
			Owner:          req.Owner,
			Amount:         req.Amount.Clone(),
			RequestTime:    req.RequestTime,
			WithdrawalTime: req.WithdrawalTime,
		})
	}
	return json.Marshal(types.PayloadInstantPool{
		BufferedCollateral: e.bufferedCollateral.Clone(),
		BufferedShares:     e.bufferedShares.Clone(),
		AccruedFees:        e.accruedFees.Clone(),
		FeeBps:             e.feeBps,
		LastNonce:          e.lastNonce,
		SnapshotCollateral: e.snapshotCollateral.Clone(),
		SnapshotShares:     e.snapshotShares.Clone(),
		Requests:           requests,
	})
}

// Load restores the engine from a checkpoint payload.
func (e *Engine) Load(_ context.Context, data []byte) error {
	pl := types.PayloadInstantPool{}
	if err := json.Unmarshal(data, &pl); err != nil {
		return err
	}
	e.bufferedCollateral = pl.BufferedCollateral.Clone()
	e.bufferedShares = pl.BufferedShares.Clone()
	e.accruedFees = pl.AccruedFees.Clone()
	e.feeBps = pl.FeeBps
	e.lastNonce = pl.LastNonce
	e.snapshotCollateral = pl.SnapshotCollateral.Clone()
	e.snapshotShares = pl.SnapshotShares.Clone()
	e.requests = make([]*types.SwapRequest, 0, len(pl.Requests))
	for _, req := range pl.Requests {
		e.requests = append(e.requests, &types.SwapRequest{
			Owner:          req.Owner,
			Amount:         req.Amount.Clone(),
			RequestTime:    req.RequestTime,
			WithdrawalTime: req.WithdrawalTime,
		})
	}
	return nil
}
