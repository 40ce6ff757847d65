package withdrawal

import (
	"context"
	"encoding/json"
	"sort"

	"code.stakewire.io/stakewire/types"
)

func (e *Engine) Name() types.CheckpointName {
	return types.WithdrawalsCheckpoint
}

// Checkpoint serialises every pending request. Owners are sorted, requests
// keep their list order so positional indexes survive a restart.
func (e *Engine) Checkpoint() ([]byte, error) {
	owners := make([]string, 0, len(e.requests))
	for owner := range e.requests {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	out := []types.PayloadWithdrawalRequest{}
	for _, owner := range owners {
		for _, req := range e.requests[owner] {
			out = append(out, types.PayloadWithdrawalRequest{
				Owner:          req.Owner,
				SharesBurned:   req.SharesBurned.Clone(),
				CollateralOwed: req.CollateralOwed.Clone(),
				Validator:      req.Validator,
				RequestEpoch:   req.RequestEpoch,
				UnlockEpoch:    req.UnlockEpoch,
			})
		}
	}
	return json.Marshal(types.PayloadWithdrawals{Requests: out})
}

// Load restores the pending request lists from a checkpoint payload.
func (e *Engine) Load(_ context.Context, data []byte) error {
	pl := types.PayloadWithdrawals{}
	if err := json.Unmarshal(data, &pl); err != nil {
		return err
	}
	e.requests = map[string][]*types.WithdrawalRequest{}
	for _, r := range pl.Requests {
		e.requests[r.Owner] = append(e.requests[r.Owner], &types.WithdrawalRequest{
			Owner:          r.Owner,
			SharesBurned:   r.SharesBurned.Clone(),
			CollateralOwed: r.CollateralOwed.Clone(),
			Validator:      r.Validator,
			RequestEpoch:   r.RequestEpoch,
			UnlockEpoch:    r.UnlockEpoch,
		})
	}
	return nil
}
