package main

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// boltDBConsumer drains the collection sync queues and mirrors each
// snapshot into the durable bolt storage. The mirror only ever receives
// full overwrites so a dropped snapshot is healed by the next mutation.
type boltDBConsumer struct {
	logger *zap.Logger
	queue  Queuer
	repo   CollectionStorage
}

func NewBoltDBConsumer(logger *zap.Logger, q Queuer, repo CollectionStorage) Consumer {
	return &boltDBConsumer{logger, q, repo}
}

func (bc *boltDBConsumer) Consume(ctx context.Context, qids ...string) error {
	for {
		qid, snapshot, err := bc.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			bc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			bc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		key, ok := storageKeyForQueue(qid)
		if !ok {
			bc.logger.Warn("consumer: received snapshot on unknown queue id", zap.String("qid", qid))
			continue
		}

		if err = bc.repo.SaveCollection(ctx, key, json.RawMessage(snapshot)); err != nil {
			bc.logger.Error("consumer: failed to mirror collection", zap.String("storage.key", key), zap.Error(err))
		}
	}
}

// storageKeyForQueue maps a sync queue id to its collection storage key.
func storageKeyForQueue(qid string) (string, bool) {
	switch qid {
	case FavoritesSyncQueue:
		return FavoritesKey, true
	case CartSyncQueue:
		return CartKey, true
	}
	return "", false
}
