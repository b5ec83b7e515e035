// Package memory is a process-local storage backend. Units of work are
// serialized: Write blocks until the previous unit commits or rolls back, and
// works on a private copy that replaces the committed state on Commit.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

var ErrUnitFinished = errors.New("memory: unit of work already finished")

var _ storage.Storage = (*Storage)(nil)

type state struct {
	accounts     map[uuid.UUID]account.Account
	transactions map[uuid.UUID]transaction.Transaction
}

func newState() *state {
	return &state{
		accounts:     make(map[uuid.UUID]account.Account),
		transactions: make(map[uuid.UUID]transaction.Transaction),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:     make(map[uuid.UUID]account.Account, len(s.accounts)),
		transactions: make(map[uuid.UUID]transaction.Transaction, len(s.transactions)),
	}
	for id, a := range s.accounts {
		c.accounts[id] = a
	}
	for id, t := range s.transactions {
		c.transactions[id] = t
	}
	return c
}

// view gives stores access to a state. Readers of the committed state go
// through the storage lock; a unit's private state needs none.
type view interface {
	with(fn func(st *state))
}

type committedView struct {
	s *Storage
}

func (v committedView) with(fn func(st *state)) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.committed)
}

type unitView struct {
	st *state
}

func (v unitView) with(fn func(st *state)) {
	fn(v.st)
}

type Storage struct {
	mu        sync.RWMutex
	committed *state
	writeSem  chan struct{}
	reader    *storage.Reader
}

func New() *Storage {
	s := &Storage{
		committed: newState(),
		writeSem:  make(chan struct{}, 1),
	}
	v := committedView{s: s}
	s.reader = &storage.Reader{
		Accounts:     &accountReader{v: v},
		Transactions: &transactionReader{v: v},
	}
	return s
}

func (s *Storage) Read() *storage.Reader {
	return s.reader
}

func (s *Storage) Write(ctx context.Context) (*storage.Writer, error) {
	select {
	case s.writeSem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.RLock()
	st := s.committed.clone()
	s.mu.RUnlock()

	v := unitView{st: st}
	u := &unit{s: s, st: st}
	return storage.NewWriter(
		u,
		&accountWriter{accountReader: accountReader{v: v}, st: st},
		&transactionWriter{transactionReader: transactionReader{v: v}, st: st},
	), nil
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}

type unit struct {
	s    *Storage
	st   *state
	mu   sync.Mutex
	done bool
}

func (u *unit) Commit(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return ErrUnitFinished
	}
	u.done = true

	u.s.mu.Lock()
	u.s.committed = u.st
	u.s.mu.Unlock()

	<-u.s.writeSem
	return nil
}

func (u *unit) Rollback(context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return nil
	}
	u.done = true
	<-u.s.writeSem
	return nil
}
