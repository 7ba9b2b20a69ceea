// Copyright (c) 2017-2018 The qitmeer developers

package blkmgr

import (
	"testing"

	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/config"
	"github.com/mestorlx/witnet-rust/core/message"
	"github.com/mestorlx/witnet-rust/core/types"
	"github.com/mestorlx/witnet-rust/params"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
	"github.com/mestorlx/witnet-rust/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartedManager(t *testing.T, store Storage, cfg *config.Config) *BlockManager {
	t.Helper()
	bm, err := NewBlockManager(store, cfg, &params.PrivNetParams)
	require.NoError(t, err)
	require.NoError(t, bm.Start())
	t.Cleanup(func() { bm.Stop() })
	return bm
}

func invVects(hashes ...hash.Hash) []*message.InvVect {
	invs := make([]*message.InvVect, 0, len(hashes))
	for i := range hashes {
		invs = append(invs, message.NewInvVect(message.InvTypeBlock, &hashes[i]))
	}
	return invs
}

func TestAddBlock(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)
	block := testutils.BuildHardcodedBlock(2, 99999)

	h, err := bm.SubmitBlock(testutils.MustBlockBytes(t, block))
	require.NoError(t, err)
	assert.Equal(t, testutils.MustBlockHash(t, block), h)

	candidates, err := bm.EpochCandidates(2)
	require.NoError(t, err)
	assert.Equal(t, []hash.Hash{h}, candidates)
}

func TestAddDuplicateBlock(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)
	block := testutils.BuildHardcodedBlock(2, 99999)

	first, err := bm.ProcessBlock(block)
	require.NoError(t, err)

	second, err := bm.ProcessBlock(block)
	assert.True(t, IsErrorCode(err, ErrBlockAlreadyExists))
	assert.Equal(t, first, second)

	candidates, err := bm.EpochCandidates(2)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestAddBlocksSameEpoch(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)

	h1, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(2, 99999))
	require.NoError(t, err)
	h2, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(2, 12345))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	candidates, err := bm.EpochCandidates(2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []hash.Hash{h1, h2}, candidates)

	other, err := bm.EpochCandidates(3)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSubmitInvalidBlock(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)

	_, err := bm.SubmitBlock([]byte{0x01, 0x02})
	assert.True(t, IsErrorCode(err, ErrInvalidBlock))

	_, err = bm.ProcessBlock(nil)
	assert.True(t, IsErrorCode(err, ErrInvalidBlock))
}

func TestFetchBlock(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)
	block := testutils.BuildHardcodedBlock(2, 99999)

	h, err := bm.ProcessBlock(block)
	require.NoError(t, err)

	fetched, err := bm.FetchBlock(h)
	require.NoError(t, err)
	assert.Equal(t, block, fetched)

	// The returned block is a copy.
	fetched.Header.Proof.Influence = 1
	again, err := bm.FetchBlock(h)
	require.NoError(t, err)
	assert.Equal(t, uint64(99999), again.Influence())
}

func TestFetchUnknownBlock(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)

	block, err := bm.FetchBlock(testutils.FillHash(1))
	assert.Nil(t, block)
	assert.True(t, IsErrorCode(err, ErrBlockNotFound))
}

func TestReconcileInventory(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)
	unknown := invVects(testutils.FillHash(1), testutils.FillHash(2), testutils.FillHash(3))

	// Nothing is known, every vector is missing.
	missing, err := bm.ReconcileInventory(unknown)
	require.NoError(t, err)
	assert.Equal(t, unknown, missing)

	// Known blocks are discarded, the order of the rest is kept.
	h1, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(2, 99999))
	require.NoError(t, err)
	h2, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(1, 10000))
	require.NoError(t, err)
	h3, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(3, 72138))
	require.NoError(t, err)

	// Each epoch holds exactly the block submitted for it.
	for epoch, want := range map[types.Epoch]hash.Hash{2: h1, 1: h2, 3: h3} {
		candidates, err := bm.EpochCandidates(epoch)
		require.NoError(t, err)
		assert.Equal(t, []hash.Hash{want}, candidates, "epoch %d", epoch)
	}

	// Three known blocks and one unknown: only the unknown one survives.
	unknownLast := invVects(h1, h2, h3, testutils.FillHash(1))
	missing, err = bm.ReconcileInventory(unknownLast)
	require.NoError(t, err)
	assert.Equal(t, []*message.InvVect{unknownLast[3]}, missing)

	unknownFirst := invVects(testutils.FillHash(1), h1, h2, h3)
	missing, err = bm.ReconcileInventory(unknownFirst)
	require.NoError(t, err)
	assert.Equal(t, []*message.InvVect{unknownFirst[0]}, missing)

	mixed := invVects(testutils.FillHash(1), h1, testutils.FillHash(2), h2,
		testutils.FillHash(3), h3)
	missing, err = bm.ReconcileInventory(mixed)
	require.NoError(t, err)
	assert.Equal(t, []*message.InvVect{mixed[0], mixed[2], mixed[4]}, missing)

	// Every vector known.
	missing, err = bm.ReconcileInventory(invVects(h1, h2, h3))
	require.NoError(t, err)
	assert.Empty(t, missing)

	// Nil entries are skipped.
	missing, err = bm.ReconcileInventory([]*message.InvVect{nil, mixed[0]})
	require.NoError(t, err)
	assert.Equal(t, []*message.InvVect{mixed[0]}, missing)
}

type fakeInventory map[hash.Hash]bool

func (f fakeInventory) HaveInventory(h *hash.Hash) bool {
	return f[*h]
}

func TestReconcileInventorySources(t *testing.T) {
	known := testutils.FillHash(9)
	bm, err := NewBlockManager(testutils.NewFakeStorage(), nil, &params.PrivNetParams)
	require.NoError(t, err)
	require.NoError(t, bm.RegisterInventorySource(message.InvTypeTx,
		fakeInventory{known: true}))
	require.NoError(t, bm.Start())
	defer bm.Stop()

	h, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(1, 1))
	require.NoError(t, err)

	invs := []*message.InvVect{
		message.NewInvVect(message.InvTypeTx, &known),
		message.NewInvVect(message.InvTypeTx, &h),
		message.NewInvVect(message.InvTypeDataRequest, &h),
		message.NewInvVect(message.InvTypeBlock, &known),
	}
	missing, err := bm.ReconcileInventory(invs)
	require.NoError(t, err)
	// The tx source does not know h, the data request type has no source
	// and falls back to the block index.
	assert.Equal(t, []*message.InvVect{invs[1], invs[3]}, missing)

	// Registration while running goes through the handler.
	require.NoError(t, bm.RegisterInventorySource(message.InvTypeDataRequest,
		fakeInventory{}))
	missing, err = bm.ReconcileInventory(invs[2:3])
	require.NoError(t, err)
	assert.Equal(t, invs[2:3], missing)
}

func TestConsolidateGreatestInfluence(t *testing.T) {
	for _, order := range [][]uint64{{99999, 12345}, {12345, 99999}} {
		bm := newStartedManager(t, testutils.NewFakeStorage(), nil)
		hashes := make(map[uint64]hash.Hash)
		for _, influence := range order {
			h, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(2, influence))
			require.NoError(t, err)
			hashes[influence] = h
		}

		result, err := bm.Consolidate(2)
		require.NoError(t, err)
		assert.Equal(t, hashes[99999], result.Hash)
		assert.Equal(t, uint64(99999), result.Influence)
		assert.Equal(t, 2, result.Candidates)
		assert.True(t, result.Advanced)

		info, err := bm.ChainInfo()
		require.NoError(t, err)
		assert.Equal(t, types.Epoch(2), info.TipEpoch())
		assert.Equal(t, hashes[99999], info.TipHash())
	}
}

func TestConsolidateTieBreak(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)

	a := testutils.BuildHardcodedBlock(4, 500)
	b := testutils.BuildHardcodedBlock(4, 500)
	b.Header.BlockHeader.HashMerkleRoot = testutils.FillHash(7)

	ha, err := bm.ProcessBlock(a)
	require.NoError(t, err)
	hb, err := bm.ProcessBlock(b)
	require.NoError(t, err)

	want := ha
	if hb.Less(ha) {
		want = hb
	}
	result, err := bm.Consolidate(4)
	require.NoError(t, err)
	assert.Equal(t, want, result.Hash)
}

func TestSelectCanonicalOrderIndependent(t *testing.T) {
	bi := NewBlockIndex()
	var hashes []hash.Hash
	for i, influence := range []uint64{7, 9, 9, 3} {
		block := testutils.BuildHardcodedBlock(1, influence)
		block.Header.BlockHeader.HashMerkleRoot = testutils.FillHash(byte(i))
		h, err := bi.InsertCandidate(block)
		require.NoError(t, err)
		hashes = append(hashes, h)
	}

	want, influence := selectCanonical(bi, hashes)
	assert.Equal(t, uint64(9), influence)
	reversed := []hash.Hash{hashes[3], hashes[2], hashes[1], hashes[0]}
	got, _ := selectCanonical(bi, reversed)
	assert.Equal(t, want, got)
}

func TestConsolidateNoCandidates(t *testing.T) {
	store := testutils.NewFakeStorage()
	bm := newStartedManager(t, store, nil)

	result, err := bm.Consolidate(3)
	assert.Nil(t, result)
	assert.True(t, IsErrorCode(err, ErrNoCandidates))

	// The chain info is left alone.
	assert.Equal(t, 1, store.PutCount(storagemgr.ChainKey))
	info, err := bm.ChainInfo()
	require.NoError(t, err)
	assert.True(t, info.IsGenesis())
}

func TestConsolidateTwice(t *testing.T) {
	store := testutils.NewFakeStorage()
	bm := newStartedManager(t, store, nil)

	winner, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(2, 100))
	require.NoError(t, err)
	_, err = bm.Consolidate(2)
	require.NoError(t, err)

	// A late block with more influence does not replace the first choice.
	_, err = bm.ProcessBlock(testutils.BuildHardcodedBlock(2, 200))
	require.NoError(t, err)
	result, err := bm.Consolidate(2)
	require.NoError(t, err)
	assert.Equal(t, winner, result.Hash)
	assert.False(t, result.Advanced)
	assert.Equal(t, 2, result.Candidates)

	canonical, err := bm.CanonicalHash(2)
	require.NoError(t, err)
	assert.Equal(t, winner, canonical)

	// Genesis write plus one tip move.
	assert.Equal(t, 2, store.PutCount(storagemgr.ChainKey))
}

func TestConsolidateBehindTip(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)

	tip, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(5, 1))
	require.NoError(t, err)
	_, err = bm.ProcessBlock(testutils.BuildHardcodedBlock(3, 1))
	require.NoError(t, err)

	_, err = bm.Consolidate(5)
	require.NoError(t, err)
	result, err := bm.Consolidate(3)
	require.NoError(t, err)
	assert.False(t, result.Advanced)

	epoch, err := bm.TipEpoch()
	require.NoError(t, err)
	assert.Equal(t, types.Epoch(5), epoch)
	info, err := bm.ChainInfo()
	require.NoError(t, err)
	assert.Equal(t, tip, info.TipHash())
}

func TestCanonicalHashNotConsolidated(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)

	_, err := bm.CanonicalHash(8)
	assert.True(t, IsErrorCode(err, ErrBlockNotFound))
}

func TestRetainEpochsPrunesLosers(t *testing.T) {
	store := testutils.NewFakeStorage()
	bm := newStartedManager(t, store, &config.Config{RetainEpochs: 1, PersistBlocks: true})

	winner, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(1, 10))
	require.NoError(t, err)
	loser, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(1, 5))
	require.NoError(t, err)
	_, err = bm.Consolidate(1)
	require.NoError(t, err)

	// Epoch 1 is still retained.
	candidates, err := bm.EpochCandidates(1)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)

	_, err = bm.ProcessBlock(testutils.BuildHardcodedBlock(2, 1))
	require.NoError(t, err)
	_, err = bm.Consolidate(2)
	require.NoError(t, err)

	candidates, err = bm.EpochCandidates(1)
	require.NoError(t, err)
	assert.Equal(t, []hash.Hash{winner}, candidates)

	_, err = bm.FetchBlock(loser)
	assert.True(t, IsErrorCode(err, ErrBlockNotFound))
	_, err = bm.FetchBlock(winner)
	assert.NoError(t, err)

	assert.Equal(t, 1, store.DeleteCount(storagemgr.BlockKey(loser)))
	_, ok := store.Value(storagemgr.BlockKey(winner))
	assert.True(t, ok)
}

func TestRetainEpochsZeroKeepsAll(t *testing.T) {
	bm := newStartedManager(t, testutils.NewFakeStorage(), nil)

	_, err := bm.ProcessBlock(testutils.BuildHardcodedBlock(1, 10))
	require.NoError(t, err)
	_, err = bm.ProcessBlock(testutils.BuildHardcodedBlock(1, 5))
	require.NoError(t, err)
	for epoch := types.Epoch(1); epoch <= 3; epoch++ {
		_, err = bm.ProcessBlock(testutils.BuildHardcodedBlock(epoch+1, 1))
		require.NoError(t, err)
		_, err = bm.Consolidate(epoch)
		require.NoError(t, err)
	}

	candidates, err := bm.EpochCandidates(1)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}
