package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wheatstraw-backend/models"

	"github.com/redis/go-redis/v9"
)

// DraftRepository stores in-progress customizations in Redis with a TTL.
type DraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDraftRepository(client *redis.Client, ttl time.Duration) *DraftRepository {
	return &DraftRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *DraftRepository) getKey(token string) string {
	return fmt.Sprintf("draft:order:%s", token)
}

// GetDraft returns the draft for token, or nil if none exists.
func (r *DraftRepository) GetDraft(ctx context.Context, token string) (*models.DraftOrder, error) {
	data, err := r.client.Get(ctx, r.getKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var draft models.DraftOrder
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *DraftRepository) SaveDraft(ctx context.Context, draft *models.DraftOrder) error {
	draft.UpdatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.getKey(draft.Token), data, r.ttl).Err()
}

func (r *DraftRepository) DeleteDraft(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.getKey(token)).Err()
}

// Idempotency helpers for checkout submissions
func (r *DraftRepository) getIdemKey(key string) string {
	return "idem:checkout:" + key
}

// GetIdempotency returns the stored checkout result for key, or "" if unseen.
func (r *DraftRepository) GetIdempotency(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.getIdemKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *DraftRepository) SetIdempotency(ctx context.Context, key, result string, ttl time.Duration) error {
	return r.client.Set(ctx, r.getIdemKey(key), result, ttl).Err()
}
