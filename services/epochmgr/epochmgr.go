// Copyright (c) 2017-2018 The qitmeer developers

// Package epochmgr keeps the epoch clock of the node and consolidates every
// epoch once it is over.
package epochmgr

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mestorlx/witnet-rust/core/types"
	"github.com/mestorlx/witnet-rust/services/blkmgr"
)

// DefaultTickInterval is how often the clock is sampled when the epoch period
// is longer.
const DefaultTickInterval = time.Second

// ErrCheckpointZeroInFuture is returned for instants before epoch 0 starts.
var ErrCheckpointZeroInFuture = errors.New("checkpoint zero is in the future")

// Consolidator selects the canonical block of a finished epoch.
type Consolidator interface {
	Consolidate(epoch types.Epoch) (*blkmgr.ConsolidationResult, error)
}

// EpochManager samples the clock and calls Consolidate for every epoch that
// closed since the previous sample.
type EpochManager struct {
	started  int32
	shutdown int32

	zero   time.Time
	period time.Duration
	tick   time.Duration

	consolidator Consolidator
	now          func() time.Time

	// Last observed epoch, only touched by the handler goroutine.
	last    types.Epoch
	hasLast bool

	wg   sync.WaitGroup
	quit chan struct{}
}

// New returns an epoch manager for the passed consensus constants.
func New(consts types.ConsensusConstants, c Consolidator) (*EpochManager, error) {
	if consts.CheckpointsPeriod == 0 {
		return nil, fmt.Errorf("checkpoints period must be positive")
	}
	period := time.Duration(consts.CheckpointsPeriod) * time.Second
	tick := DefaultTickInterval
	if period < tick {
		tick = period
	}
	return &EpochManager{
		zero:         time.Unix(consts.CheckpointZeroTimestamp, 0),
		period:       period,
		tick:         tick,
		consolidator: c,
		now:          time.Now,
		quit:         make(chan struct{}),
	}, nil
}

// EpochAt returns the epoch containing t.
func (m *EpochManager) EpochAt(t time.Time) (types.Epoch, error) {
	if t.Before(m.zero) {
		return 0, ErrCheckpointZeroInFuture
	}
	return types.Epoch(t.Sub(m.zero) / m.period), nil
}

// CurrentEpoch returns the epoch containing the current time.
func (m *EpochManager) CurrentEpoch() (types.Epoch, error) {
	return m.EpochAt(m.now())
}

// EpochTimestamp returns the instant epoch starts.
func (m *EpochManager) EpochTimestamp(epoch types.Epoch) time.Time {
	return m.zero.Add(time.Duration(epoch) * m.period)
}

func (m *EpochManager) Start() error {
	// Already started?
	if atomic.AddInt32(&m.started, 1) != 1 {
		return nil
	}

	log.Info("Starting epoch manager", "checkpointZero", m.zero.Unix(),
		"period", m.period)
	m.wg.Add(1)
	go m.handler()
	return nil
}

func (m *EpochManager) Stop() error {
	if atomic.AddInt32(&m.shutdown, 1) != 1 {
		log.Warn("Epoch manager is already in the process of shutting down")
		return nil
	}
	log.Info("Epoch manager shutting down")

	close(m.quit)
	m.wg.Wait()
	return nil
}

func (m *EpochManager) handler() {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	m.sample()
out:
	for {
		select {
		case <-ticker.C:
			m.sample()

		case <-m.quit:
			break out
		}
	}

	m.wg.Done()
	log.Trace("Epoch handler done")
}

// sample reads the clock and consolidates every epoch that closed since the
// previous sample.  The first sample only records the current epoch.
func (m *EpochManager) sample() {
	current, err := m.CurrentEpoch()
	if err != nil {
		log.Trace("Waiting for checkpoint zero", "err", err)
		return
	}
	if !m.hasLast {
		m.last, m.hasLast = current, true
		log.Debug("Epoch clock running", "epoch", current)
		return
	}
	for ; m.last < current; m.last++ {
		if atomic.LoadInt32(&m.shutdown) != 0 {
			return
		}
		m.consolidate(m.last)
	}
}

func (m *EpochManager) consolidate(epoch types.Epoch) {
	result, err := m.consolidator.Consolidate(epoch)
	switch {
	case err == nil:
		log.Debug("Epoch closed", "epoch", epoch, "hash", result.Hash,
			"advanced", result.Advanced)
	case blkmgr.IsErrorCode(err, blkmgr.ErrNoCandidates):
		log.Debug("Epoch closed without candidates", "epoch", epoch)
	default:
		log.Warn("Unable to consolidate epoch", "epoch", epoch, "err", err)
	}
}
