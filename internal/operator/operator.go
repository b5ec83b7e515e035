package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Operator is the worker that processes items from the queue. Each item runs
// in its own storage unit of work: committed when the action succeeds, rolled
// back otherwise.
type Operator struct {
	id      int
	storage storage.Storage
	queue   chan ActionItem
	log     *logrus.Entry
}

func NewOperator(id int, s storage.Storage, queue chan ActionItem, log *logrus.Entry) *Operator {
	return &Operator{
		id:      id,
		storage: s,
		queue:   queue,
		log:     log.WithField("operator", id),
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

func (o *Operator) processItem(item ActionItem) error {
	// the caller may have given up while the item sat in the queue
	if err := item.ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	log := o.log.WithField("action", item.action.Name())

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		log.WithError(err).Error("Operator.Write.Error")
		return fmt.Errorf("storage.Write: %w", err)
	}

	if err = item.action.Perform(item.ctx, writer); err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("Operator.Rollback.Error")
		}
		log.WithError(err).WithField("elapsedMs", time.Since(start).Milliseconds()).Info("Operator.Perform.RolledBack")
		return err
	}

	if err = writer.Commit(); err != nil {
		log.WithError(err).Error("Operator.Commit.Error")
		return fmt.Errorf("Commit: %w", err)
	}

	log.WithField("elapsedMs", time.Since(start).Milliseconds()).Debug("Operator.Perform.Committed")
	return nil
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
