package node

import (
	"context"
	"time"

	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"

	"github.com/pkg/errors"
)

// ErrRoleRequired is returned when a caller lacks the role an operation needs.
var ErrRoleRequired = errors.New("caller does not hold the required role")

// The adapters below stand in for the systems the core delegates to: the
// validator delegation backend, the collateral rails and the role registry
// all live outside this process. A standalone node replaces them with local
// implementations so the accounting core can run on its own.

type wallClock struct{}

func (wallClock) GetTimeNow() time.Time { return time.Now() }

// localBackend simulates the delegation backend, deriving epochs from wall
// clock time. Undelegations unlock a fixed number of epochs ahead.
type localBackend struct {
	log             *logging.Logger
	genesis         time.Time
	epochLength     time.Duration
	unbondingEpochs uint64
}

func newLocalBackend(log *logging.Logger) *localBackend {
	return &localBackend{
		log:             log,
		genesis:         time.Now(),
		epochLength:     time.Hour,
		unbondingEpochs: 3,
	}
}

func (b *localBackend) Delegate(_ context.Context, validator types.ValidatorRef, amount *num.Uint) error {
	b.log.Debug("delegated",
		logging.String("validator", string(validator)),
		logging.String("amount", amount.String()),
	)
	return nil
}

func (b *localBackend) Undelegate(_ context.Context, validator types.ValidatorRef, amount *num.Uint) (uint64, error) {
	unlock := b.CurrentEpoch() + b.unbondingEpochs
	b.log.Debug("undelegated",
		logging.String("validator", string(validator)),
		logging.String("amount", amount.String()),
		logging.Uint64("unlockEpoch", unlock),
	)
	return unlock, nil
}

func (b *localBackend) CurrentEpoch() uint64 {
	return uint64(time.Since(b.genesis) / b.epochLength)
}

// localCollateral records payouts instead of moving real funds.
type localCollateral struct {
	log *logging.Logger
}

func (c *localCollateral) Transfer(_ context.Context, to string, amount *num.Uint) error {
	c.log.Info("collateral paid out",
		logging.String("to", to),
		logging.String("amount", amount.String()),
	)
	return nil
}

// localSelector always picks the configured validator.
type localSelector struct {
	validator types.ValidatorRef
}

func (s *localSelector) PreferredDepositValidator() types.ValidatorRef    { return s.validator }
func (s *localSelector) PreferredWithdrawalValidator() types.ValidatorRef { return s.validator }

// staticAuthorizer grants roles to a fixed set of parties decided at
// startup. Role membership is managed outside the core.
type staticAuthorizer struct {
	grants map[types.Role]map[string]struct{}
}

func newStaticAuthorizer() *staticAuthorizer {
	return &staticAuthorizer{
		grants: map[types.Role]map[string]struct{}{},
	}
}

func (a *staticAuthorizer) Grant(role types.Role, party string) {
	if _, ok := a.grants[role]; !ok {
		a.grants[role] = map[string]struct{}{}
	}
	a.grants[role][party] = struct{}{}
}

func (a *staticAuthorizer) RequireRole(role types.Role, caller string) error {
	if _, ok := a.grants[role][caller]; !ok {
		return errors.Wrapf(ErrRoleRequired, "%s needs %s", caller, role.String())
	}
	return nil
}
