package withdrawal_test

import (
	"context"
	"testing"

	"code.stakewire.io/stakewire/events"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"
	"code.stakewire.io/stakewire/withdrawal"
	"code.stakewire.io/stakewire/withdrawal/mocks"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBroker struct {
	evts []events.Event
}

func (s *stubBroker) Send(e events.Event) {
	s.evts = append(s.evts, e)
}

type testEngine struct {
	*withdrawal.Engine
	ctrl       *gomock.Controller
	broker     *stubBroker
	epochs     *mocks.MockEpochReporter
	collateral *mocks.MockCollateral
}

func getTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := &stubBroker{}
	epochs := mocks.NewMockEpochReporter(ctrl)
	collateral := mocks.NewMockCollateral(ctrl)
	eng := withdrawal.New(logging.NewTestLogger(), withdrawal.NewDefaultConfig(), broker, epochs, collateral)
	return &testEngine{
		Engine:     eng,
		ctrl:       ctrl,
		broker:     broker,
		epochs:     epochs,
		collateral: collateral,
	}
}

func newRequest(owner string, shares, collateral, unlockEpoch uint64) *types.WithdrawalRequest {
	return &types.WithdrawalRequest{
		Owner:          owner,
		SharesBurned:   num.NewUint(shares),
		CollateralOwed: num.NewUint(collateral),
		Validator:      "validator-1",
		RequestEpoch:   1,
		UnlockEpoch:    unlockEpoch,
	}
}

func TestClaim(t *testing.T) {
	t.Run("claim before the unlock epoch fails, after it succeeds exactly once", testClaimEpochGate)
	t.Run("claim pays exactly the recorded collateral", testClaimExactAmount)
	t.Run("unknown owner or index fails", testClaimNotFound)
	t.Run("claim shifts later indexes down", testClaimShiftsIndexes)
	t.Run("failed payout leaves the request claimable", testClaimTransferFails)
	t.Run("a re-entrant payout rail cannot settle twice", testClaimReentrant)
	t.Run("requests stay claimable forever once unlocked", testClaimNeverExpires)
}

func TestWithdrawalCheckpoint(t *testing.T) {
	t.Run("checkpoint and restore preserves list order", testCheckpointPreservesOrder)
}

func testClaimEpochGate(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	idx := eng.Push("alice", newRequest("alice", 50, 50, 10))
	require.Equal(t, 0, idx)

	eng.epochs.EXPECT().CurrentEpoch().Return(uint64(9))
	_, err := eng.Claim(context.Background(), "alice", idx)
	assert.ErrorIs(t, err, withdrawal.ErrNotYetClaimable)

	eng.epochs.EXPECT().CurrentEpoch().Return(uint64(10))
	eng.collateral.EXPECT().Transfer(gomock.Any(), "alice", gomock.Any()).Return(nil)
	amount, err := eng.Claim(context.Background(), "alice", idx)
	require.NoError(t, err)
	assert.True(t, amount.EQUint64(50))

	// the request is gone, the same index no longer resolves
	_, err = eng.Claim(context.Background(), "alice", idx)
	assert.ErrorIs(t, err, withdrawal.ErrRequestNotFound)
}

func testClaimExactAmount(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.Push("alice", newRequest("alice", 66, 99, 3))
	eng.epochs.EXPECT().CurrentEpoch().Return(uint64(3))

	var paid *num.Uint
	eng.collateral.EXPECT().Transfer(gomock.Any(), "alice", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, amount *num.Uint) error {
			paid = amount.Clone()
			return nil
		})

	amount, err := eng.Claim(context.Background(), "alice", 0)
	require.NoError(t, err)
	assert.True(t, amount.EQUint64(99))
	assert.True(t, paid.EQUint64(99))
}

func testClaimNotFound(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.Push("alice", newRequest("alice", 10, 10, 0))

	_, err := eng.Claim(context.Background(), "bob", 0)
	assert.ErrorIs(t, err, withdrawal.ErrRequestNotFound)
	_, err = eng.Claim(context.Background(), "alice", 1)
	assert.ErrorIs(t, err, withdrawal.ErrRequestNotFound)
	_, err = eng.Claim(context.Background(), "alice", -1)
	assert.ErrorIs(t, err, withdrawal.ErrRequestNotFound)
}

func testClaimShiftsIndexes(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.Push("alice", newRequest("alice", 1, 10, 0))
	eng.Push("alice", newRequest("alice", 2, 20, 0))
	eng.Push("alice", newRequest("alice", 3, 30, 0))

	eng.epochs.EXPECT().CurrentEpoch().Return(uint64(1)).AnyTimes()
	eng.collateral.EXPECT().Transfer(gomock.Any(), "alice", gomock.Any()).Return(nil).AnyTimes()

	amount, err := eng.Claim(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.True(t, amount.EQUint64(20))

	// the third request moved into slot 1
	reqs := eng.Requests("alice")
	require.Len(t, reqs, 2)
	assert.True(t, reqs[1].CollateralOwed.EQUint64(30))

	amount, err = eng.Claim(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.True(t, amount.EQUint64(30))
}

func testClaimTransferFails(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.Push("alice", newRequest("alice", 5, 50, 0))
	eng.epochs.EXPECT().CurrentEpoch().Return(uint64(1)).Times(2)
	eng.collateral.EXPECT().Transfer(gomock.Any(), "alice", gomock.Any()).Return(errors.New("rails down"))

	_, err := eng.Claim(context.Background(), "alice", 0)
	assert.ErrorIs(t, err, withdrawal.ErrTransferFailed)
	require.Len(t, eng.Requests("alice"), 1)

	// a retry succeeds
	eng.collateral.EXPECT().Transfer(gomock.Any(), "alice", gomock.Any()).Return(nil)
	_, err = eng.Claim(context.Background(), "alice", 0)
	assert.NoError(t, err)
}

func testClaimReentrant(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.Push("alice", newRequest("alice", 5, 50, 0))
	eng.epochs.EXPECT().CurrentEpoch().Return(uint64(1)).AnyTimes()

	// a rail that hands control back mid-payout finds the request already
	// removed instead of settling it a second time
	var inner error
	eng.collateral.EXPECT().Transfer(gomock.Any(), "alice", gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ *num.Uint) error {
			_, inner = eng.Claim(ctx, "alice", 0)
			return nil
		})

	amount, err := eng.Claim(context.Background(), "alice", 0)
	require.NoError(t, err)
	assert.True(t, amount.EQUint64(50))
	assert.ErrorIs(t, inner, withdrawal.ErrRequestNotFound)
	assert.Len(t, eng.Requests("alice"), 0)
}

func testClaimNeverExpires(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.Push("alice", newRequest("alice", 5, 50, 2))

	// far past the unlock epoch
	eng.epochs.EXPECT().CurrentEpoch().Return(uint64(1000000))
	eng.collateral.EXPECT().Transfer(gomock.Any(), "alice", gomock.Any()).Return(nil)
	amount, err := eng.Claim(context.Background(), "alice", 0)
	require.NoError(t, err)
	assert.True(t, amount.EQUint64(50))
}

func testCheckpointPreservesOrder(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.Push("alice", newRequest("alice", 1, 10, 4))
	eng.Push("alice", newRequest("alice", 2, 20, 5))
	eng.Push("bob", newRequest("bob", 3, 30, 6))

	data, err := eng.Checkpoint()
	require.NoError(t, err)

	restored := getTestEngine(t)
	require.NoError(t, restored.Load(context.Background(), data))

	alice := restored.Requests("alice")
	require.Len(t, alice, 2)
	assert.True(t, alice[0].CollateralOwed.EQUint64(10))
	assert.True(t, alice[1].CollateralOwed.EQUint64(20))
	require.Len(t, restored.Requests("bob"), 1)

	data2, err := restored.Checkpoint()
	require.NoError(t, err)
	assert.Equal(t, data, data2)
}
