package operator

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

var ErrStopped = errors.New("operator: stopped")

// IOperator runs an action as one atomic unit of work.
type IOperator interface {
	Process(ctx context.Context, action actions.IAction) error
}

var _ IOperator = (*OperatorDelegator)(nil)

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	storage    storage.Storage
	queue      chan ActionItem
	numWorkers int
	log        *logrus.Entry
	wg         sync.WaitGroup
	stopOnce   sync.Once

	// mu guards stopped against sends on the closed queue.
	mu      sync.RWMutex
	stopped bool
}

func NewOperatorDelegator(s storage.Storage, numWorkers int, log *logrus.Entry) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &OperatorDelegator{
		storage:    s,
		queue:      make(chan ActionItem, 1000),
		numWorkers: numWorkers,
		log:        log,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(i, d.storage, d.queue, d.log)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
	d.log.WithField("workers", d.numWorkers).Info("OperatorDelegator.Started")
}

// Stop drains the queue and waits for the workers to finish.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		d.mu.Unlock()
		d.wg.Wait()
		d.log.Info("OperatorDelegator.Stopped")
	})
}

// Process enqueues the action and blocks until a worker has committed or
// rolled it back. ctx only bounds the wait for a queue slot; once queued, the
// returned error always reflects whether the unit committed.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	if err := d.enqueue(ctx, item); err != nil {
		return err
	}

	resp := <-respCh
	return resp.err
}

func (d *OperatorDelegator) enqueue(ctx context.Context, item ActionItem) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case d.queue <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
