// Package queue carries image cleanup work from the API to the background
// worker through asynq.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// CleanupImageTask is scheduled each time a school with an image is deleted.
	CleanupImageTask = "school:image-cleanup"
)

// CleanupPayload is serialized into the task payload so the worker knows which
// blob to remove.
type CleanupPayload struct {
	Reference string `json:"reference"`
}

// Enqueuer is the part of *asynq.Client the Cleaner uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Cleaner hands blob cleanup to the worker instead of doing it in the request.
type Cleaner struct {
	client Enqueuer
}

// NewCleaner constructs a Cleaner.
func NewCleaner(client Enqueuer) *Cleaner {
	return &Cleaner{client: client}
}

// Cleanup enqueues a cleanup job. Tasks are not retried.
func (c *Cleaner) Cleanup(ctx context.Context, reference string) error {
	task, err := NewCleanupTask(reference)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.MaxRetry(0)); err != nil {
		return fmt.Errorf("enqueue cleanup task: %w", err)
	}
	return nil
}

// NewCleanupTask builds the asynq task for a reference.
func NewCleanupTask(reference string) (*asynq.Task, error) {
	data, err := json.Marshal(CleanupPayload{Reference: reference})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(CleanupImageTask, data), nil
}
