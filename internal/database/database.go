package database

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mu       sync.Mutex
	mongoURI string
	dbName   string
	client   *mongo.Client
	db       *mongo.Database
)

// Configure records the connection parameters. Must be called before Mongo.
func Configure(uri, name string) {
	mu.Lock()
	defer mu.Unlock()
	mongoURI = uri
	dbName = name
}

// Mongo returns the cached database handle, establishing the connection on
// first use. The client is created at most once per process; concurrent
// callers racing on a cold start converge on a single client. A failed
// connect is returned to the caller and retried on the next call, so an
// unreachable store never crashes the process.
func Mongo(ctx context.Context) (*mongo.Database, error) {
	mu.Lock()
	defer mu.Unlock()

	if db != nil {
		return db, nil
	}
	if mongoURI == "" {
		return nil, errors.New("MONGODB_URI is not set")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	c, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(connectCtx, nil); err != nil {
		c.Disconnect(context.Background())
		return nil, err
	}

	client = c
	db = c.Database(dbName)
	log.Println("✅ Connected to MongoDB")
	return db, nil
}

// Disconnect closes the cached client if one was ever established.
func Disconnect() error {
	mu.Lock()
	defer mu.Unlock()
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := client.Disconnect(ctx)
	client = nil
	db = nil
	return err
}
