// Copyright (c) 2017-2018 The qitmeer developers

package blkmgr

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/config"
	"github.com/mestorlx/witnet-rust/core/types"
	"github.com/mestorlx/witnet-rust/params"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
	"github.com/mestorlx/witnet-rust/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEmptyStorage(t *testing.T) {
	store := testutils.NewFakeStorage()
	bm := newStartedManager(t, store, nil)

	assert.Equal(t, StateReady, bm.State())
	assert.Equal(t, 1, store.GetCount(storagemgr.ChainKey))
	assert.Equal(t, 1, store.PutCount(storagemgr.ChainKey))
	assert.Equal(t, 1, store.TotalPuts())

	info, err := bm.ChainInfo()
	require.NoError(t, err)
	assert.Equal(t, params.PrivNetParams.GenesisChainInfo(), info)

	raw, ok := store.Value(storagemgr.ChainKey)
	require.True(t, ok)
	stored, err := types.NewChainInfoFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, info, *stored)
}

func TestStartRecoversChainInfo(t *testing.T) {
	store := testutils.NewFakeStorage()
	saved := params.PrivNetParams.GenesisChainInfo()
	saved.HighestBlockCheckpoint = types.CheckpointBeacon{
		Checkpoint:    42,
		HashPrevBlock: testutils.FillHash(8),
	}
	raw, err := saved.Bytes()
	require.NoError(t, err)
	store.SetValue(storagemgr.ChainKey, raw)

	bm := newStartedManager(t, store, nil)

	info, err := bm.ChainInfo()
	require.NoError(t, err)
	assert.Equal(t, saved, info)
	assert.Equal(t, 0, store.TotalPuts())
}

func TestStartCorruptChainInfo(t *testing.T) {
	store := testutils.NewFakeStorage()
	store.SetValue(storagemgr.ChainKey, []byte{0xff})

	bm, err := NewBlockManager(store, nil, &params.PrivNetParams)
	require.NoError(t, err)
	err = bm.Start()
	assert.True(t, IsErrorCode(err, ErrStorageFailure))
	assert.Equal(t, StateUninitialized, bm.State())
}

func TestStartStorageFailure(t *testing.T) {
	store := testutils.NewFakeStorage()
	store.GetErr = errors.New("disk on fire")

	bm, err := NewBlockManager(store, nil, &params.PrivNetParams)
	require.NoError(t, err)
	err = bm.Start()
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrStorageFailure))
	assert.Equal(t, StateUninitialized, bm.State())
	assert.Equal(t, 0, store.TotalPuts())

	_, err = bm.ChainInfo()
	assert.True(t, IsErrorCode(err, ErrNotReady))

	// The failure is not sticky.
	store.GetErr = nil
	require.NoError(t, bm.Start())
	defer bm.Stop()
	assert.Equal(t, StateReady, bm.State())
}

func TestNotReady(t *testing.T) {
	bm, err := NewBlockManager(testutils.NewFakeStorage(), nil, &params.PrivNetParams)
	require.NoError(t, err)
	assert.Equal(t, StateUninitialized, bm.State())

	_, err = bm.ProcessBlock(testutils.BuildHardcodedBlock(1, 1))
	assert.True(t, IsErrorCode(err, ErrNotReady))
	_, err = bm.FetchBlock(testutils.FillHash(1))
	assert.True(t, IsErrorCode(err, ErrNotReady))
	_, err = bm.ReconcileInventory(nil)
	assert.True(t, IsErrorCode(err, ErrNotReady))
	_, err = bm.Consolidate(1)
	assert.True(t, IsErrorCode(err, ErrNotReady))
	_, err = bm.TipEpoch()
	assert.True(t, IsErrorCode(err, ErrNotReady))

	require.NoError(t, bm.Start())
	require.NoError(t, bm.Stop())
	assert.Equal(t, StateUninitialized, bm.State())
	_, err = bm.FetchBlock(testutils.FillHash(1))
	assert.True(t, IsErrorCode(err, ErrNotReady))
}

func TestStartAfterStop(t *testing.T) {
	bm, err := NewBlockManager(testutils.NewFakeStorage(), nil, &params.PrivNetParams)
	require.NoError(t, err)
	require.NoError(t, bm.Start())
	require.NoError(t, bm.Stop())

	err = bm.Start()
	assert.True(t, IsErrorCode(err, ErrNotReady))
	assert.Equal(t, StateUninitialized, bm.State())
}

func TestChainInfoWriteFailureNotPropagated(t *testing.T) {
	store := testutils.NewFakeStorage()
	store.PutErr = errors.New("read only")
	bm := newStartedManager(t, store, nil)

	_, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(1, 1))
	require.NoError(t, err)
	result, err := bm.Consolidate(1)
	require.NoError(t, err)
	assert.True(t, result.Advanced)

	// The in-memory chain info moved regardless.
	epoch, err := bm.TipEpoch()
	require.NoError(t, err)
	assert.Equal(t, types.Epoch(1), epoch)
	assert.Equal(t, 2, store.PutCount(storagemgr.ChainKey))
	_, ok := store.Value(storagemgr.ChainKey)
	assert.False(t, ok)
}

func TestPersistBlocksReloadsTip(t *testing.T) {
	store := testutils.NewFakeStorage()
	cfg := &config.Config{PersistBlocks: true}

	bm, err := NewBlockManager(store, cfg, &params.PrivNetParams)
	require.NoError(t, err)
	require.NoError(t, bm.Start())
	block := testutils.BuildHardcodedBlock(5, 77)
	h, err := bm.ProcessBlock(block)
	require.NoError(t, err)
	assert.Equal(t, 1, store.PutCount(storagemgr.BlockKey(h)))
	_, err = bm.Consolidate(5)
	require.NoError(t, err)
	require.NoError(t, bm.Stop())

	restarted := newStartedManager(t, store, cfg)
	info, err := restarted.ChainInfo()
	require.NoError(t, err)
	assert.Equal(t, h, info.TipHash())

	fetched, err := restarted.FetchBlock(h)
	require.NoError(t, err)
	assert.Equal(t, block, fetched)
	canonical, err := restarted.CanonicalHash(5)
	require.NoError(t, err)
	assert.Equal(t, h, canonical)

	// Without persistblocks only the chain info comes back.
	plain := newStartedManager(t, store, nil)
	_, err = plain.FetchBlock(h)
	assert.True(t, IsErrorCode(err, ErrBlockNotFound))
}

func TestStateString(t *testing.T) {
	tests := []struct {
		in   State
		want string
	}{
		{StateUninitialized, "Uninitialized"},
		{StateLoading, "Loading"},
		{StateReady, "Ready"},
		{State(9), "Unknown State (9)"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.in.String())
	}
}

func TestErrorCodeStringer(t *testing.T) {
	assert.Equal(t, "ErrBlockAlreadyExists", ErrBlockAlreadyExists.String())
	assert.Equal(t, "ErrNoCandidates", ErrNoCandidates.String())
	assert.Equal(t, "Unknown ErrorCode (100)", ErrorCode(100).String())

	cause := errors.New("boom")
	err := wrapError(ErrStorageFailure, "write", cause)
	assert.Equal(t, "write: boom", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.False(t, IsErrorCode(cause, ErrStorageFailure))
}

func TestPublicBlockAPI(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)
	api := bm.API()
	assert.Equal(t, "block", api.NameSpace)
	service := api.Service.(*PublicBlockAPI)

	block := testutils.BuildHardcodedBlock(3, 1000)
	h, err := bm.ProcessBlock(block)
	require.NoError(t, err)

	raw, err := service.GetBlock(h.String(), false)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(testutils.MustBlockBytes(t, block)), raw)

	verbose, err := service.GetBlock(h.String(), true)
	require.NoError(t, err)
	result := verbose.(*BlockResult)
	assert.Equal(t, uint32(3), result.Checkpoint)
	assert.Equal(t, uint64(1000), result.Influence)
	// privnet identifies transactions by blake2b.
	require.Len(t, result.Tx, 1)
	assert.Equal(t, block.Txns[0].TxHash(hash.Blake2b_256).String(), result.Tx[0])
	assert.False(t, result.Canonical)

	_, err = bm.Consolidate(3)
	require.NoError(t, err)
	verbose, err = service.GetBlock(h.String(), true)
	require.NoError(t, err)
	assert.True(t, verbose.(*BlockResult).Canonical)

	best, err := service.GetBestBlockHash()
	require.NoError(t, err)
	assert.Equal(t, h.String(), best)
	tip, err := service.GetTipEpoch()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), tip)
	candidates, err := service.GetEpochCandidates(3)
	require.NoError(t, err)
	assert.Equal(t, []string{h.String()}, candidates)
	canonical, err := service.GetCanonicalHash(3)
	require.NoError(t, err)
	assert.Equal(t, h.String(), canonical)

	_, err = service.GetBlock("zz", false)
	assert.Error(t, err)
	_, err = service.GetCanonicalHash(4)
	assert.True(t, IsErrorCode(err, ErrBlockNotFound))
}
