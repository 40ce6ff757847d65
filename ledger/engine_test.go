package ledger_test

import (
	"context"
	"testing"

	"code.stakewire.io/stakewire/events"
	"code.stakewire.io/stakewire/ledger"
	"code.stakewire.io/stakewire/ledger/mocks"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"
	"code.stakewire.io/stakewire/types/num"

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

func (s *stubBroker) count(t events.Type) int {
	n := 0
	for _, e := range s.evts {
		if e.Type() == t {
			n++
		}
	}
	return n
}

type testEngine struct {
	*ledger.Engine
	ctrl     *gomock.Controller
	broker   *stubBroker
	backend  *mocks.MockStakingBackend
	selector *mocks.MockValidatorSelector
	queue    *mocks.MockWithdrawalQueue
	auth     *mocks.MockAuthorizer
}

func getTestEngine(t *testing.T, feeBps uint64) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := &stubBroker{}
	backend := mocks.NewMockStakingBackend(ctrl)
	selector := mocks.NewMockValidatorSelector(ctrl)
	queue := mocks.NewMockWithdrawalQueue(ctrl)
	auth := mocks.NewMockAuthorizer(ctrl)

	selector.EXPECT().PreferredDepositValidator().Return(types.ValidatorRef("validator-1")).AnyTimes()
	selector.EXPECT().PreferredWithdrawalValidator().Return(types.ValidatorRef("validator-1")).AnyTimes()

	cfg := ledger.NewDefaultConfig()
	cfg.FeeBps = feeBps
	cfg.Treasury = "treasury"

	eng := ledger.New(logging.NewTestLogger(), cfg, broker, backend, selector, queue, auth)
	return &testEngine{
		Engine:   eng,
		ctrl:     ctrl,
		broker:   broker,
		backend:  backend,
		selector: selector,
		queue:    queue,
		auth:     auth,
	}
}

func (e *testEngine) expectDelegations() {
	e.backend.EXPECT().Delegate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestDeposit(t *testing.T) {
	t.Run("first deposit mints one share per collateral unit", testDepositGenesisRate)
	t.Run("deposit against existing totals mints at the current rate", testDepositExistingTotals)
	t.Run("deposit after rewards mints fewer shares, rounded down", testDepositFloorRounding)
	t.Run("zero amount is rejected", testDepositZeroAmount)
	t.Run("deposit while paused is rejected", testDepositPaused)
	t.Run("rejected delegation commits nothing", testDepositDelegateFails)
}

func TestRequestWithdrawal(t *testing.T) {
	t.Run("burn shares and queue a request at the frozen rate", testRequestWithdrawal)
	t.Run("pending requests do not move the exchange rate", testRequestKeepsRate)
	t.Run("a deposit and immediate redemption never profits", testNoFreeRedemption)
	t.Run("insufficient balance is rejected", testRequestInsufficientBalance)
	t.Run("rejected undelegation commits nothing", testRequestUndelegateFails)
}

func TestAccrueRewards(t *testing.T) {
	t.Run("net amount raises the rate, fee minted to the treasury", testAccrueRewardsWithFee)
	t.Run("no fee event when the fee rounds to zero", testAccrueRewardsZeroFee)
	t.Run("accrual against an empty pool is rejected", testAccrueEmptyPool)
	t.Run("rate never decreases across operations", testRateMonotonic)
}

func TestLedgerAdmin(t *testing.T) {
	t.Run("pause and unpause gate user operations", testPauseUnpause)
	t.Run("missing role propagates verbatim", testAdminRequiresRole)
	t.Run("fee above 100 percent is rejected", testSetFeeTooHigh)
}

func TestLedgerCheckpoint(t *testing.T) {
	t.Run("checkpoint and restore round trips all state", testLedgerCheckpointRoundTrip)
}

func testDepositGenesisRate(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	shares, err := eng.Deposit(context.Background(), "alice", num.NewUint(100))
	require.NoError(t, err)
	assert.True(t, shares.EQUint64(100))
	assert.True(t, eng.BalanceOf("alice").EQUint64(100))
	assert.True(t, eng.TotalShares().EQUint64(100))
	assert.True(t, eng.TotalPooledCollateral().EQUint64(100))
	assert.Equal(t, "1", eng.ExchangeRate().String())
}

func testDepositExistingTotals(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(1000))
	require.NoError(t, err)

	// totals are (1000, 1000), the rate is still 1:1
	shares, err := eng.Deposit(context.Background(), "bob", num.NewUint(100))
	require.NoError(t, err)
	assert.True(t, shares.EQUint64(100))
}

func testDepositFloorRounding(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(1000))
	require.NoError(t, err)
	require.NoError(t, eng.AccrueRewards(context.Background(), num.NewUint(500)))

	// totals are (1500, 1000): 100 * 1000 / 1500 = 66.66 -> 66
	shares, err := eng.Deposit(context.Background(), "bob", num.NewUint(100))
	require.NoError(t, err)
	assert.True(t, shares.EQUint64(66))
}

func testDepositZeroAmount(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()

	_, err := eng.Deposit(context.Background(), "alice", num.UintZero())
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	_, err = eng.Deposit(context.Background(), "alice", nil)
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func testDepositPaused(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.auth.EXPECT().RequireRole(types.RoleAdmin, "admin").Return(nil)
	require.NoError(t, eng.Pause("admin"))

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(100))
	assert.ErrorIs(t, err, ledger.ErrPaused)
}

func testDepositDelegateFails(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.backend.EXPECT().Delegate(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("backend down"))

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(100))
	assert.ErrorIs(t, err, ledger.ErrTransferFailed)
	assert.True(t, eng.TotalShares().IsZero())
	assert.True(t, eng.TotalPooledCollateral().IsZero())
	assert.True(t, eng.BalanceOf("alice").IsZero())
}

func testRequestWithdrawal(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(100))
	require.NoError(t, err)

	eng.backend.EXPECT().Undelegate(gomock.Any(), gomock.Any(), gomock.Any()).Return(uint64(12), nil)
	eng.backend.EXPECT().CurrentEpoch().Return(uint64(9))
	eng.queue.EXPECT().Push("alice", gomock.Any()).Return(0)

	req, err := eng.RequestWithdrawal(context.Background(), "alice", num.NewUint(50))
	require.NoError(t, err)
	assert.True(t, req.SharesBurned.EQUint64(50))
	assert.True(t, req.CollateralOwed.EQUint64(50))
	assert.Equal(t, uint64(9), req.RequestEpoch)
	assert.Equal(t, uint64(12), req.UnlockEpoch)
	assert.False(t, req.Claimed)

	assert.True(t, eng.BalanceOf("alice").EQUint64(50))
	assert.True(t, eng.TotalShares().EQUint64(50))
	assert.True(t, eng.TotalPooledCollateral().EQUint64(50))
}

func testRequestKeepsRate(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(1000))
	require.NoError(t, err)
	require.NoError(t, eng.AccrueRewards(context.Background(), num.NewUint(500)))
	rate := eng.ExchangeRate()

	eng.backend.EXPECT().Undelegate(gomock.Any(), gomock.Any(), gomock.Any()).Return(uint64(5), nil)
	eng.backend.EXPECT().CurrentEpoch().Return(uint64(1))
	eng.queue.EXPECT().Push("alice", gomock.Any()).Return(0)
	_, err = eng.RequestWithdrawal(context.Background(), "alice", num.NewUint(500))
	require.NoError(t, err)

	assert.True(t, eng.ExchangeRate().Equal(rate))
}

func testNoFreeRedemption(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(1000))
	require.NoError(t, err)
	require.NoError(t, eng.AccrueRewards(context.Background(), num.NewUint(500)))

	deposit := num.NewUint(100)
	shares, err := eng.Deposit(context.Background(), "bob", deposit)
	require.NoError(t, err)

	eng.backend.EXPECT().Undelegate(gomock.Any(), gomock.Any(), gomock.Any()).Return(uint64(3), nil)
	eng.backend.EXPECT().CurrentEpoch().Return(uint64(1))
	eng.queue.EXPECT().Push("bob", gomock.Any()).Return(0)
	req, err := eng.RequestWithdrawal(context.Background(), "bob", shares)
	require.NoError(t, err)

	assert.True(t, req.CollateralOwed.LTE(deposit))
}

func testRequestInsufficientBalance(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(10))
	require.NoError(t, err)

	_, err = eng.RequestWithdrawal(context.Background(), "alice", num.NewUint(11))
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	_, err = eng.RequestWithdrawal(context.Background(), "bob", num.NewUint(1))
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
}

func testRequestUndelegateFails(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(100))
	require.NoError(t, err)

	eng.backend.EXPECT().Undelegate(gomock.Any(), gomock.Any(), gomock.Any()).Return(uint64(0), errors.New("backend down"))
	_, err = eng.RequestWithdrawal(context.Background(), "alice", num.NewUint(50))
	assert.ErrorIs(t, err, ledger.ErrTransferFailed)
	assert.True(t, eng.BalanceOf("alice").EQUint64(100))
	assert.True(t, eng.TotalShares().EQUint64(100))
}

func testAccrueRewardsWithFee(t *testing.T) {
	eng := getTestEngine(t, 500)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(1000))
	require.NoError(t, err)

	// fee = 1000 * 500 / 10000 = 50, net = 950
	require.NoError(t, eng.AccrueRewards(context.Background(), num.NewUint(1000)))

	// the fee deposits like a party at the post-net rate:
	// 50 * 1000 / 1950 = 25.64 -> 25 shares
	assert.True(t, eng.BalanceOf("treasury").EQUint64(25))
	assert.True(t, eng.TotalPooledCollateral().EQUint64(2000))
	assert.True(t, eng.TotalShares().EQUint64(1025))
	assert.Equal(t, 1, eng.broker.count(events.FeeCollectedEvent))
}

func testAccrueRewardsZeroFee(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(1000))
	require.NoError(t, err)
	require.NoError(t, eng.AccrueRewards(context.Background(), num.NewUint(500)))

	assert.True(t, eng.BalanceOf("treasury").IsZero())
	assert.Equal(t, 0, eng.broker.count(events.FeeCollectedEvent))
	assert.Equal(t, 1, eng.broker.count(events.RewardsAccruedEvent))
}

func testAccrueEmptyPool(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()

	err := eng.AccrueRewards(context.Background(), num.NewUint(100))
	assert.ErrorIs(t, err, ledger.ErrEmptyPool)
}

func testRateMonotonic(t *testing.T) {
	eng := getTestEngine(t, 500)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	last := eng.ExchangeRate()
	step := func() {
		rate := eng.ExchangeRate()
		assert.True(t, rate.GreaterThanOrEqual(last), "rate decreased from %s to %s", last, rate)
		last = rate
	}

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(1000))
	require.NoError(t, err)
	step()
	require.NoError(t, eng.AccrueRewards(context.Background(), num.NewUint(333)))
	step()
	_, err = eng.Deposit(context.Background(), "bob", num.NewUint(77))
	require.NoError(t, err)
	step()
	require.NoError(t, eng.AccrueRewards(context.Background(), num.NewUint(1)))
	step()
}

func testPauseUnpause(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.expectDelegations()
	eng.auth.EXPECT().RequireRole(types.RoleAdmin, "admin").Return(nil).Times(2)

	require.NoError(t, eng.Pause("admin"))
	assert.True(t, eng.Paused())
	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(100))
	assert.ErrorIs(t, err, ledger.ErrPaused)
	_, err = eng.RequestWithdrawal(context.Background(), "alice", num.NewUint(1))
	assert.ErrorIs(t, err, ledger.ErrPaused)

	require.NoError(t, eng.Unpause("admin"))
	_, err = eng.Deposit(context.Background(), "alice", num.NewUint(100))
	assert.NoError(t, err)
}

func testAdminRequiresRole(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	denied := errors.New("role denied")
	eng.auth.EXPECT().RequireRole(types.RoleAdmin, "mallory").Return(denied).Times(3)

	assert.ErrorIs(t, eng.Pause("mallory"), denied)
	assert.ErrorIs(t, eng.SetFeeBps("mallory", 100), denied)
	assert.ErrorIs(t, eng.SetTreasury("mallory", "me"), denied)
}

func testSetFeeTooHigh(t *testing.T) {
	eng := getTestEngine(t, 0)
	defer eng.ctrl.Finish()
	eng.auth.EXPECT().RequireRole(types.RoleAdmin, "admin").Return(nil)

	assert.ErrorIs(t, eng.SetFeeBps("admin", 10001), ledger.ErrInvalidFee)
}

func testLedgerCheckpointRoundTrip(t *testing.T) {
	eng := getTestEngine(t, 500)
	defer eng.ctrl.Finish()
	eng.expectDelegations()

	_, err := eng.Deposit(context.Background(), "alice", num.NewUint(1000))
	require.NoError(t, err)
	_, err = eng.Deposit(context.Background(), "bob", num.NewUint(250))
	require.NoError(t, err)
	require.NoError(t, eng.AccrueRewards(context.Background(), num.NewUint(100)))

	data, err := eng.Checkpoint()
	require.NoError(t, err)

	restored := getTestEngine(t, 0)
	require.NoError(t, restored.Load(context.Background(), data))

	assert.True(t, restored.TotalShares().EQ(eng.TotalShares()))
	assert.True(t, restored.TotalPooledCollateral().EQ(eng.TotalPooledCollateral()))
	assert.True(t, restored.BalanceOf("alice").EQ(eng.BalanceOf("alice")))
	assert.True(t, restored.BalanceOf("bob").EQ(eng.BalanceOf("bob")))
	assert.True(t, restored.BalanceOf("treasury").EQ(eng.BalanceOf("treasury")))
	assert.Equal(t, eng.FeeBps(), restored.FeeBps())

	data2, err := restored.Checkpoint()
	require.NoError(t, err)
	assert.Equal(t, data, data2)
}
