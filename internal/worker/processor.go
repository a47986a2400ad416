package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/dharsanguruparan/SchoolHub/internal/blob"
	"github.com/dharsanguruparan/SchoolHub/internal/queue"
)

// Processor is plugged into the asynq worker loop.
type Processor struct {
	blobs blob.Store
	log   logrus.FieldLogger
}

// NewProcessor constructs a worker processor.
func NewProcessor(blobs blob.Store, log logrus.FieldLogger) *Processor {
	return &Processor{blobs: blobs, log: log}
}

// Handler registers the cleanup job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.CleanupImageTask, p.handleCleanup)
	return mux
}

func (p *Processor) handleCleanup(ctx context.Context, task *asynq.Task) error {
	var payload queue.CleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}
	entry := p.log.WithField("image", payload.Reference)
	if err := p.blobs.Delete(ctx, payload.Reference); err != nil {
		entry.WithError(err).Warn("image cleanup failed")
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	entry.Info("image removed")
	return nil
}
