package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltCollectionStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltCollectionStorage provides an instance of bolt-based collection
// storage. It serves as the durable mirror of the live redis collections
// and as a standalone store in tests.
func NewBoltCollectionStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) CollectionStorage {
	return &boltCollectionStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based collection storage.
func (bs *boltCollectionStorage) Close() error {
	return bs.client.Close()
}

// LoadCollection retrieves the records of a named collection. A missing key
// or a corrupt payload yields an empty sequence, never an error surfaced to
// the caller.
func (bs *boltCollectionStorage) LoadCollection(_ context.Context, key string) ([]json.RawMessage, error) {
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	payload := tx.Bucket([]byte(bs.config.BucketName)).Get([]byte(key))
	if payload == nil {
		return []json.RawMessage{}, nil
	}
	return decodeCollection(bs.logger, key, payload), nil
}

// SaveCollection serializes the records and overwrites the named collection.
func (bs *boltCollectionStorage) SaveCollection(_ context.Context, key string, records interface{}) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put([]byte(key), payload)
	})
}
