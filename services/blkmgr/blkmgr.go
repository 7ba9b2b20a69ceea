// Copyright (c) 2017-2018 The qitmeer developers

package blkmgr

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/config"
	"github.com/mestorlx/witnet-rust/core/message"
	"github.com/mestorlx/witnet-rust/core/types"
	"github.com/mestorlx/witnet-rust/database"
	"github.com/mestorlx/witnet-rust/metrics"
	"github.com/mestorlx/witnet-rust/params"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
	gometrics "github.com/rcrowley/go-metrics"
)

// State is the lifecycle state of the block manager.
type State int32

const (
	// StateUninitialized is the state before Start and after Stop.
	StateUninitialized State = iota

	// StateLoading is the state while the chain info is read from storage.
	StateLoading

	// StateReady is the state in which requests are served.
	StateReady
)

var stateStrings = map[State]string{
	StateUninitialized: "Uninitialized",
	StateLoading:       "Loading",
	StateReady:         "Ready",
}

func (s State) String() string {
	if str, ok := stateStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown State (%d)", int32(s))
}

// BlockManager provides a concurrency safe block manager for handling all
// incoming blocks.  Every mutation of the block index, the canonical choices
// and the chain info happens on the block handler goroutine.
type BlockManager struct {
	started  int32
	shutdown int32
	state    int32

	storage Storage
	params  *params.Params
	genesis types.ChainInfo

	index      *BlockIndex
	canonical  map[types.Epoch]hash.Hash
	chainState ChainState
	invSources map[message.InvType]InventorySource

	persistBlocks bool
	retainEpochs  uint32

	msgChan chan interface{}
	wg      sync.WaitGroup
	quit    chan struct{}

	acceptedBlocks  gometrics.Counter
	duplicateBlocks gometrics.Counter
	consolidations  gometrics.Counter
	storageFailures gometrics.Counter
	prunedBlocks    gometrics.Counter
	invRequested    gometrics.Counter
	invMissing      gometrics.Counter
}

// NewBlockManager returns a new block manager persisting through store.
// Use Start to load the chain info and begin processing requests.
func NewBlockManager(store Storage, cfg *config.Config, par *params.Params) (*BlockManager, error) {
	if store == nil {
		return nil, fmt.Errorf("block manager requires a storage")
	}
	if par == nil {
		return nil, fmt.Errorf("block manager requires network params")
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	queueSize := cfg.MsgQueueSize
	if queueSize <= 0 {
		queueSize = storagemgr.DefaultQueueSize
	}

	bm := BlockManager{
		storage:         store,
		params:          par,
		genesis:         par.GenesisChainInfo(),
		index:           NewBlockIndex(),
		canonical:       make(map[types.Epoch]hash.Hash),
		invSources:      make(map[message.InvType]InventorySource),
		persistBlocks:   cfg.PersistBlocks,
		retainEpochs:    cfg.RetainEpochs,
		msgChan:         make(chan interface{}, queueSize),
		quit:            make(chan struct{}),
		acceptedBlocks:  metrics.NewCounter("blkmgr/accepted"),
		duplicateBlocks: metrics.NewCounter("blkmgr/duplicates"),
		consolidations:  metrics.NewCounter("blkmgr/consolidations"),
		storageFailures: metrics.NewCounter("blkmgr/storagefailures"),
		prunedBlocks:    metrics.NewCounter("blkmgr/pruned"),
		invRequested:    metrics.NewCounter("blkmgr/inv/requested"),
		invMissing:      metrics.NewCounter("blkmgr/inv/missing"),
	}
	return &bm, nil
}

// State returns the current lifecycle state.
func (b *BlockManager) State() State {
	return State(atomic.LoadInt32(&b.state))
}

func (b *BlockManager) setState(s State) {
	atomic.StoreInt32(&b.state, int32(s))
	log.Debug("Block manager state changed", "state", s)
}

// Start loads the chain info, initializing it from genesis when storage holds
// none, and then begins processing requests.  A storage failure while
// loading aborts the start and leaves the manager uninitialized.  A stopped
// manager cannot be started again.
func (b *BlockManager) Start() error {
	if atomic.LoadInt32(&b.shutdown) != 0 {
		return errStopped
	}
	// Already started?
	if atomic.AddInt32(&b.started, 1) != 1 {
		return nil
	}

	log.Trace("Starting block manager")
	b.setState(StateLoading)

	initWrite, err := b.chainState.loadOrInit(b.storage, b.genesis)
	if err != nil {
		log.Error("Unable to load chain info", "err", err)
		b.setState(StateUninitialized)
		atomic.StoreInt32(&b.started, 0)
		return err
	}
	if initWrite != nil {
		b.watch("genesis chain info", initWrite)
	}

	if b.persistBlocks {
		b.loadTipBlock()
	}

	b.setState(StateReady)
	b.wg.Add(1)
	go b.blockHandler()
	return nil
}

// Stop halts the block handler and waits for outstanding storage writes to be
// acknowledged.
func (b *BlockManager) Stop() error {
	if atomic.AddInt32(&b.shutdown, 1) != 1 {
		log.Warn("Block manager is already in the process of " +
			"shutting down")
		return nil
	}

	log.Info("Block manager shutting down")
	b.setState(StateUninitialized)
	close(b.quit)
	b.wg.Wait()
	return nil
}

// loadTipBlock puts the stored tip block back into the index so that it
// can be fetched and survives pruning.
func (b *BlockManager) loadTipBlock() {
	info := b.chainState.Current()
	if info.IsGenesis() {
		return
	}
	tip := info.TipHash()
	res := <-b.storage.Get(storagemgr.BlockKey(tip))
	if res.Err != nil {
		if database.IsNotFound(res.Err) {
			log.Warn("Chain tip block is not in storage", "hash", tip)
		} else {
			log.Warn("Unable to read chain tip block", "hash", tip, "err", res.Err)
		}
		return
	}
	block, err := types.NewBlockFromBytes(res.Value)
	if err != nil {
		log.Warn("Unable to decode chain tip block", "hash", tip, "err", err)
		return
	}
	h, err := b.index.InsertCandidate(block)
	if err != nil || h != tip {
		log.Warn("Stored chain tip block does not match", "hash", tip,
			"stored", h, "err", err)
		b.index.removeCandidate(h)
		return
	}
	b.canonical[block.Epoch()] = tip
	log.Info("Loaded chain tip block", "epoch", block.Epoch(), "hash", tip)
}

// watch waits for the outcome of a storage write without blocking the
// caller.  Failures are logged and counted, they never reach the request that
// caused the write.
func (b *BlockManager) watch(what string, reply <-chan error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := <-reply; err != nil {
			b.storageFailures.Inc(1)
			log.Error("Storage write failed", "what", what, "err", err)
			return
		}
		log.Trace("Storage write done", "what", what)
	}()
}

// blockHandler is the main handler for the block manager.  It must be run as
// a goroutine.  It processes requests on the message channel in the order
// they arrive so that the block index never needs a lock.
func (b *BlockManager) blockHandler() {
out:
	for {
		select {
		case m := <-b.msgChan:
			switch msg := m.(type) {
			case processBlockMsg:
				h, err := b.processBlock(msg.block)
				msg.reply <- processBlockResponse{hash: h, err: err}

			case fetchBlockMsg:
				block, err := b.index.Get(msg.hash)
				msg.reply <- fetchBlockResponse{block: block, err: err}

			case reconcileInvMsg:
				msg.reply <- b.missingInventory(msg.invs)

			case consolidateMsg:
				result, err := b.consolidate(msg.epoch)
				msg.reply <- consolidateResponse{result: result, err: err}

			case epochCandidatesMsg:
				msg.reply <- b.index.Candidates(msg.epoch)

			case canonicalHashMsg:
				h, ok := b.canonical[msg.epoch]
				if !ok {
					msg.reply <- canonicalHashResponse{err: ruleError(ErrBlockNotFound,
						fmt.Sprintf("epoch %d is not consolidated", msg.epoch))}
					continue
				}
				msg.reply <- canonicalHashResponse{hash: h}

			case registerInvSourceMsg:
				b.invSources[msg.typ] = msg.source
				log.Debug("Registered inventory source", "type", msg.typ)

			default:
				log.Warn("Invalid message type in block handler",
					"msg", fmt.Sprintf("%T", m))
			}

		case <-b.quit:
			break out
		}
	}

	b.wg.Done()
	log.Trace("Block handler done")
}

// processBlock adds block as a candidate of its epoch.
//
// This function MUST be called from the block handler goroutine.
func (b *BlockManager) processBlock(block *types.Block) (hash.Hash, error) {
	h, err := b.index.InsertCandidate(block)
	if err != nil {
		if IsErrorCode(err, ErrBlockAlreadyExists) {
			b.duplicateBlocks.Inc(1)
			log.Debug("Rejected duplicate block", "hash", h)
		}
		return h, err
	}

	b.acceptedBlocks.Inc(1)
	log.Debug("Accepted block candidate", "hash", h, "epoch", block.Epoch(),
		"influence", block.Influence())
	log.Trace("Block candidate", "block", newLogClosure(func() string {
		return spew.Sdump(block)
	}))

	if b.persistBlocks {
		raw, err := block.Bytes()
		if err != nil {
			log.Error("Unable to serialize block for storage", "hash", h, "err", err)
		} else {
			b.watch("block", b.storage.Put(storagemgr.BlockKey(h), raw))
		}
	}
	return h, nil
}

// errShuttingDown is returned for requests the handler will not answer.
var (
	errShuttingDown = ruleError(ErrNotReady, "block manager is shutting down")
	errStopped      = ruleError(ErrNotReady, "block manager was stopped")
)

// request queues msg for the block handler.  It fails when the manager is not
// ready.  Callers wait for the reply or for quit, a request queued while the
// handler exits is never answered.
func (b *BlockManager) request(msg interface{}) error {
	if b.State() != StateReady {
		return ruleError(ErrNotReady, "block manager is not ready")
	}
	select {
	case b.msgChan <- msg:
		return nil
	case <-b.quit:
		return errShuttingDown
	}
}

// processBlockResponse is a response sent to the reply channel of a
// processBlockMsg.
type processBlockResponse struct {
	hash hash.Hash
	err  error
}

// processBlockMsg is a message type to be sent across the message channel
// for requesting a block be added as a candidate.
type processBlockMsg struct {
	block *types.Block
	reply chan processBlockResponse
}

// SubmitBlock decodes raw and adds the block as a candidate of the epoch it
// claims.  The hash of the block is returned even when it is rejected as a
// duplicate.
func (b *BlockManager) SubmitBlock(raw []byte) (hash.Hash, error) {
	block, err := types.NewBlockFromBytes(raw)
	if err != nil {
		return hash.ZeroHash, wrapError(ErrInvalidBlock, "unable to decode block", err)
	}
	return b.submit(block)
}

// ProcessBlock adds a copy of block as a candidate of the epoch it claims.
func (b *BlockManager) ProcessBlock(block *types.Block) (hash.Hash, error) {
	if block == nil {
		return hash.ZeroHash, ruleError(ErrInvalidBlock, "nil block")
	}
	return b.submit(block.Clone())
}

func (b *BlockManager) submit(block *types.Block) (hash.Hash, error) {
	reply := make(chan processBlockResponse, 1)
	if err := b.request(processBlockMsg{block: block, reply: reply}); err != nil {
		return hash.ZeroHash, err
	}
	select {
	case response := <-reply:
		return response.hash, response.err
	case <-b.quit:
		return hash.ZeroHash, errShuttingDown
	}
}

type fetchBlockResponse struct {
	block *types.Block
	err   error
}

type fetchBlockMsg struct {
	hash  hash.Hash
	reply chan fetchBlockResponse
}

// FetchBlock returns a copy of the block with hash h.
func (b *BlockManager) FetchBlock(h hash.Hash) (*types.Block, error) {
	reply := make(chan fetchBlockResponse, 1)
	if err := b.request(fetchBlockMsg{hash: h, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case response := <-reply:
		return response.block, response.err
	case <-b.quit:
		return nil, errShuttingDown
	}
}

type reconcileInvMsg struct {
	invs  []*message.InvVect
	reply chan []*message.InvVect
}

// ReconcileInventory returns the vectors of invs that are not known locally,
// keeping their order.
func (b *BlockManager) ReconcileInventory(invs []*message.InvVect) ([]*message.InvVect, error) {
	reply := make(chan []*message.InvVect, 1)
	if err := b.request(reconcileInvMsg{invs: invs, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case missing := <-reply:
		return missing, nil
	case <-b.quit:
		return nil, errShuttingDown
	}
}

type consolidateResponse struct {
	result *ConsolidationResult
	err    error
}

type consolidateMsg struct {
	epoch types.Epoch
	reply chan consolidateResponse
}

// Consolidate selects the canonical block of epoch and moves the chain tip
// to it.  ErrNoCandidates is returned when no block claims epoch.
func (b *BlockManager) Consolidate(epoch types.Epoch) (*ConsolidationResult, error) {
	reply := make(chan consolidateResponse, 1)
	if err := b.request(consolidateMsg{epoch: epoch, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case response := <-reply:
		return response.result, response.err
	case <-b.quit:
		return nil, errShuttingDown
	}
}

type epochCandidatesMsg struct {
	epoch types.Epoch
	reply chan []hash.Hash
}

// EpochCandidates returns the candidate hashes of epoch sorted by raw bytes.
func (b *BlockManager) EpochCandidates(epoch types.Epoch) ([]hash.Hash, error) {
	reply := make(chan []hash.Hash, 1)
	if err := b.request(epochCandidatesMsg{epoch: epoch, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case hashes := <-reply:
		return hashes, nil
	case <-b.quit:
		return nil, errShuttingDown
	}
}

type canonicalHashResponse struct {
	hash hash.Hash
	err  error
}

type canonicalHashMsg struct {
	epoch types.Epoch
	reply chan canonicalHashResponse
}

// CanonicalHash returns the hash selected when epoch was consolidated.
func (b *BlockManager) CanonicalHash(epoch types.Epoch) (hash.Hash, error) {
	reply := make(chan canonicalHashResponse, 1)
	if err := b.request(canonicalHashMsg{epoch: epoch, reply: reply}); err != nil {
		return hash.ZeroHash, err
	}
	select {
	case response := <-reply:
		return response.hash, response.err
	case <-b.quit:
		return hash.ZeroHash, errShuttingDown
	}
}

type registerInvSourceMsg struct {
	typ    message.InvType
	source InventorySource
}

// RegisterInventorySource routes inventory of type typ to source.  Block
// inventory is always answered by the block index.  Registration before
// Start is applied directly.
func (b *BlockManager) RegisterInventorySource(typ message.InvType, source InventorySource) error {
	if b.State() == StateUninitialized && atomic.LoadInt32(&b.started) == 0 {
		b.invSources[typ] = source
		return nil
	}
	return b.request(registerInvSourceMsg{typ: typ, source: source})
}

// ChainInfo returns a snapshot of the chain info.
func (b *BlockManager) ChainInfo() (types.ChainInfo, error) {
	if b.State() != StateReady {
		return types.ChainInfo{}, ruleError(ErrNotReady, "block manager is not ready")
	}
	return b.chainState.Current(), nil
}

// TipEpoch returns the epoch of the chain tip.
func (b *BlockManager) TipEpoch() (types.Epoch, error) {
	if b.State() != StateReady {
		return 0, ruleError(ErrNotReady, "block manager is not ready")
	}
	return b.chainState.TipEpoch(), nil
}
