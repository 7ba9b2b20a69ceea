// Copyright (c) 2017-2018 The qitmeer developers

// Package storagemgr serializes every access to the key/value database
// through a single goroutine and answers each request on its own reply
// channel.
package storagemgr

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mestorlx/witnet-rust/database"
	"github.com/mestorlx/witnet-rust/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

// DefaultQueueSize is the request queue length used when none is configured.
const DefaultQueueSize = 100

// ErrShutdown is returned for requests issued after the storage manager
// stopped.
var ErrShutdown = errors.New("storage manager is shutting down")

// GetResult is the answer to a Get request.  Err satisfies
// database.IsNotFound when the key does not exist.
type GetResult struct {
	Value []byte
	Err   error
}

type getMsg struct {
	key   []byte
	reply chan GetResult
}

type putMsg struct {
	key   []byte
	value []byte
	reply chan error
}

type deleteMsg struct {
	key   []byte
	reply chan error
}

// StorageManager owns a database.DB and serves Get/Put/Delete requests in
// the order they were issued.
type StorageManager struct {
	started  int32
	shutdown int32

	db      database.DB
	msgChan chan interface{}

	// queueMtx orders enqueueing against the final drain: senders hold it
	// shared, Stop takes it exclusively to mark the queue closed.
	queueMtx sync.RWMutex
	closed   bool

	getTimer    gometrics.Timer
	putTimer    gometrics.Timer
	deleteTimer gometrics.Timer
	failures    gometrics.Counter

	wg   sync.WaitGroup
	quit chan struct{}
}

// New returns a storage manager backed by db.  Use Start to begin
// processing requests.
func New(db database.DB, queueSize int) *StorageManager {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &StorageManager{
		db:          db,
		msgChan:     make(chan interface{}, queueSize),
		getTimer:    metrics.NewTimer("storage/get"),
		putTimer:    metrics.NewTimer("storage/put"),
		deleteTimer: metrics.NewTimer("storage/delete"),
		failures:    metrics.NewCounter("storage/failures"),
		quit:        make(chan struct{}),
	}
}

func (s *StorageManager) Start() error {
	// Already started?
	if atomic.AddInt32(&s.started, 1) != 1 {
		return nil
	}

	log.Trace("Starting storage manager", "db", s.db.Type())
	s.wg.Add(1)
	go s.storageHandler()
	return nil
}

// Stop halts the handler.  Requests still queued are answered with
// ErrShutdown.  The database itself is closed by its owner.
func (s *StorageManager) Stop() error {
	if atomic.AddInt32(&s.shutdown, 1) != 1 {
		log.Warn("Storage manager is already in the process of " +
			"shutting down")
		return nil
	}

	log.Info("Storage manager shutting down")
	close(s.quit)
	s.wg.Wait()

	s.queueMtx.Lock()
	s.closed = true
	s.drain()
	s.queueMtx.Unlock()
	return nil
}

func (s *StorageManager) storageHandler() {
out:
	for {
		select {
		case m := <-s.msgChan:
			switch msg := m.(type) {
			case getMsg:
				start := time.Now()
				value, err := s.db.Get(msg.key)
				s.getTimer.UpdateSince(start)
				if err != nil && !database.IsNotFound(err) {
					s.failures.Inc(1)
					log.Error("Storage get failed", "key", string(msg.key), "err", err)
				}
				msg.reply <- GetResult{Value: value, Err: err}

			case putMsg:
				start := time.Now()
				err := s.db.Put(msg.key, msg.value)
				s.putTimer.UpdateSince(start)
				if err != nil {
					s.failures.Inc(1)
					log.Error("Storage put failed", "key", string(msg.key), "err", err)
				}
				msg.reply <- err

			case deleteMsg:
				start := time.Now()
				err := s.db.Delete(msg.key)
				s.deleteTimer.UpdateSince(start)
				if err != nil {
					s.failures.Inc(1)
					log.Error("Storage delete failed", "key", string(msg.key), "err", err)
				}
				msg.reply <- err

			default:
				log.Warn("Invalid message type in storage handler", "msg", m)
			}

		case <-s.quit:
			break out
		}
	}

	s.wg.Done()
	log.Trace("Storage handler done")
}

// drain answers the requests left in the queue after the handler exited.
// The caller holds queueMtx.
func (s *StorageManager) drain() {
	for {
		select {
		case m := <-s.msgChan:
			switch msg := m.(type) {
			case getMsg:
				msg.reply <- GetResult{Err: ErrShutdown}
			case putMsg:
				msg.reply <- ErrShutdown
			case deleteMsg:
				msg.reply <- ErrShutdown
			}
		default:
			return
		}
	}
}

func (s *StorageManager) send(msg interface{}) bool {
	s.queueMtx.RLock()
	defer s.queueMtx.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.msgChan <- msg:
		return true
	case <-s.quit:
		return false
	}
}

// Get requests the value stored under key.  The result is delivered on the
// returned channel.
func (s *StorageManager) Get(key []byte) <-chan GetResult {
	reply := make(chan GetResult, 1)
	if !s.send(getMsg{key: key, reply: reply}) {
		reply <- GetResult{Err: ErrShutdown}
	}
	return reply
}

// Put requests value to be stored under key.  The write is queued before Put
// returns, so a later request from the same caller observes it.
func (s *StorageManager) Put(key, value []byte) <-chan error {
	reply := make(chan error, 1)
	if !s.send(putMsg{key: key, value: value, reply: reply}) {
		reply <- ErrShutdown
	}
	return reply
}

// Delete requests key to be removed.
func (s *StorageManager) Delete(key []byte) <-chan error {
	reply := make(chan error, 1)
	if !s.send(deleteMsg{key: key, reply: reply}) {
		reply <- ErrShutdown
	}
	return reply
}
