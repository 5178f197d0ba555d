// Package database declares the document store boundary the importer talks
// to. Implementations live in subpackages.
package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// IndexModel is one index to create: ordered keys and an optional name.
type IndexModel struct {
	Keys bson.D
	Name string
}

type DocumentStore interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	Collection(name string) DocumentCollection
	ListCollections(ctx context.Context) ([]string, error)
	DatabaseName() string
}

type DocumentCollection interface {
	// Drop removes the collection. Dropping a collection that does not
	// exist is not an error.
	Drop(ctx context.Context) error
	InsertMany(ctx context.Context, docs []interface{}) (int, error)
	CreateIndex(ctx context.Context, model IndexModel) (string, error)
	CountDocuments(ctx context.Context) (int64, error)
}
