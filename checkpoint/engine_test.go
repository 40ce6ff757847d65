package checkpoint_test

import (
	"context"
	"testing"

	"code.stakewire.io/stakewire/checkpoint"
	"code.stakewire.io/stakewire/checkpoint/mocks"
	"code.stakewire.io/stakewire/logging"
	"code.stakewire.io/stakewire/types"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEngine struct {
	*checkpoint.Engine
	ctrl  *gomock.Controller
	store *mocks.MockStore
}

func getTestEngine(t *testing.T, components ...checkpoint.State) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	eng, err := checkpoint.New(logging.NewTestLogger(), checkpoint.NewDefaultConfig(), store, components...)
	require.NoError(t, err)
	return &testEngine{
		Engine: eng,
		ctrl:   ctrl,
		store:  store,
	}
}

func newComponent(ctrl *gomock.Controller, name types.CheckpointName) *mocks.MockState {
	c := mocks.NewMockState(ctrl)
	c.EXPECT().Name().Return(name).AnyTimes()
	return c
}

func TestCheckpointEngine(t *testing.T) {
	t.Run("registering two components under one name fails", testDuplicateName)
	t.Run("re-registering the same component is a no-op", testSameComponentTwice)
	t.Run("save all persists every component in order", testSaveAll)
	t.Run("a failing component aborts the save", testSaveAborts)
	t.Run("restore all loads stored payloads in order", testRestoreAll)
	t.Run("components without a payload are skipped", testRestoreSkipsEmpty)
	t.Run("a failing load aborts the restore", testRestoreAborts)
}

func testDuplicateName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := newComponent(ctrl, types.LedgerCheckpoint)
	b := newComponent(ctrl, types.LedgerCheckpoint)
	_, err := checkpoint.New(logging.NewTestLogger(), checkpoint.NewDefaultConfig(), mocks.NewMockStore(ctrl), a, b)
	assert.ErrorIs(t, err, checkpoint.ErrComponentWithDuplicateName)
}

func testSameComponentTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := newComponent(ctrl, types.LedgerCheckpoint)
	eng, err := checkpoint.New(logging.NewTestLogger(), checkpoint.NewDefaultConfig(), mocks.NewMockStore(ctrl), a)
	require.NoError(t, err)
	assert.NoError(t, eng.Add(a))
}

func testSaveAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := newComponent(ctrl, types.LedgerCheckpoint)
	pool := newComponent(ctrl, types.InstantPoolCheckpoint)
	te := getTestEngine(t, ledger, pool)
	defer te.ctrl.Finish()

	saved := []types.CheckpointName{}
	ledger.EXPECT().Checkpoint().Return([]byte("ledger-state"), nil)
	pool.EXPECT().Checkpoint().Return([]byte("pool-state"), nil)
	te.store.EXPECT().Save(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(name types.CheckpointName, _ []byte) error {
			saved = append(saved, name)
			return nil
		})

	require.NoError(t, te.SaveAll())
	assert.Equal(t, []types.CheckpointName{types.LedgerCheckpoint, types.InstantPoolCheckpoint}, saved)
}

func testSaveAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := newComponent(ctrl, types.LedgerCheckpoint)
	pool := newComponent(ctrl, types.InstantPoolCheckpoint)
	te := getTestEngine(t, ledger, pool)
	defer te.ctrl.Finish()

	// the ledger fails, the pool is never asked
	ledger.EXPECT().Checkpoint().Return(nil, errors.New("not serialisable"))

	err := te.SaveAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't checkpoint")
}

func testRestoreAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := newComponent(ctrl, types.LedgerCheckpoint)
	pool := newComponent(ctrl, types.InstantPoolCheckpoint)
	te := getTestEngine(t, ledger, pool)
	defer te.ctrl.Finish()

	te.store.EXPECT().Get(types.LedgerCheckpoint).Return([]byte("ledger-state"), nil)
	te.store.EXPECT().Get(types.InstantPoolCheckpoint).Return([]byte("pool-state"), nil)
	loaded := []types.CheckpointName{}
	ledger.EXPECT().Load(gomock.Any(), []byte("ledger-state")).DoAndReturn(
		func(context.Context, []byte) error {
			loaded = append(loaded, types.LedgerCheckpoint)
			return nil
		})
	pool.EXPECT().Load(gomock.Any(), []byte("pool-state")).DoAndReturn(
		func(context.Context, []byte) error {
			loaded = append(loaded, types.InstantPoolCheckpoint)
			return nil
		})

	require.NoError(t, te.RestoreAll(context.Background()))
	assert.Equal(t, []types.CheckpointName{types.LedgerCheckpoint, types.InstantPoolCheckpoint}, loaded)
}

func testRestoreSkipsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := newComponent(ctrl, types.LedgerCheckpoint)
	pool := newComponent(ctrl, types.InstantPoolCheckpoint)
	te := getTestEngine(t, ledger, pool)
	defer te.ctrl.Finish()

	// first run, nothing stored yet: no Load calls expected
	te.store.EXPECT().Get(types.LedgerCheckpoint).Return(nil, nil)
	te.store.EXPECT().Get(types.InstantPoolCheckpoint).Return(nil, nil)

	require.NoError(t, te.RestoreAll(context.Background()))
}

func testRestoreAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := newComponent(ctrl, types.LedgerCheckpoint)
	pool := newComponent(ctrl, types.InstantPoolCheckpoint)
	te := getTestEngine(t, ledger, pool)
	defer te.ctrl.Finish()

	te.store.EXPECT().Get(types.LedgerCheckpoint).Return([]byte("garbage"), nil)
	ledger.EXPECT().Load(gomock.Any(), []byte("garbage")).Return(errors.New("bad payload"))

	err := te.RestoreAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't restore")
}
