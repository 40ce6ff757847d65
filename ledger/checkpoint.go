package ledger

import (
	"context"
	"encoding/json"
	"sort"

	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"
)

func (e *Engine) Name() types.CheckpointName {
	return types.LedgerCheckpoint
}

// Checkpoint serialises the full ledger state. Balances are sorted by
// party so the payload is deterministic.
func (e *Engine) Checkpoint() ([]byte, error) {
	parties := make([]string, 0, len(e.balances))
	for party := range e.balances {
		parties = append(parties, party)
	}
	sort.Strings(parties)

	balances := make([]types.PayloadBalance, 0, len(parties))
	for _, party := range parties {
		balances = append(balances, types.PayloadBalance{
			Party:   party,
			Balance: e.balances[party].Clone(),
		})
	}

	return json.Marshal(types.PayloadLedger{
		Balances:              balances,
		TotalShares:           e.totalShares.Clone(),
		TotalPooledCollateral: e.totalPooledCollateral.Clone(),
		FeeBps:                e.feeBps,
		Treasury:              e.treasury,
		Paused:                e.paused,
		SnapshotNonce:         e.snapshotNonce,
	})
}

// Load restores the ledger from a checkpoint payload, replacing any state
// the engine currently holds.
func (e *Engine) Load(_ context.Context, data []byte) error {
	pl := types.PayloadLedger{}
	if err := json.Unmarshal(data, &pl); err != nil {
		return err
	}

	e.balances = make(map[string]*num.Uint, len(pl.Balances))
	for _, b := range pl.Balances {
		e.balances[b.Party] = b.Balance.Clone()
	}
	e.totalShares = pl.TotalShares.Clone()
	e.totalPooledCollateral = pl.TotalPooledCollateral.Clone()
	e.feeBps = pl.FeeBps
	e.treasury = pl.Treasury
	e.paused = pl.Paused
	e.snapshotNonce = pl.SnapshotNonce
	return nil
}
