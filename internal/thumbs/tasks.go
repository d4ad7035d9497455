package thumbs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeGenerate = "thumbnail:generate"

// GeneratePayload identifies the image to resize. Delivery is at-least-once;
// processing the same file twice just rewrites the same variant paths.
type GeneratePayload struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}

func NewGenerateTask(fileID, userID string) (*asynq.Task, error) {
	payload, err := json.Marshal(GeneratePayload{FileID: fileID, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal thumbnail payload: %w", err)
	}
	return asynq.NewTask(TypeGenerate, payload), nil
}

// Queue is the producer side, backed by the shared Redis instance.
type Queue struct {
	client *asynq.Client
}

func NewQueue(redisAddr string) *Queue {
	return &Queue{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (q *Queue) Enqueue(ctx context.Context, fileID, userID string) error {
	task, err := NewGenerateTask(fileID, userID)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue thumbnail task: %w", err)
	}
	return nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}
