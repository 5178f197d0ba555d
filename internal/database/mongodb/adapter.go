package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Rana718/thesisgen/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultDatabase = "test"

type Adapter struct {
	client   *mongo.Client
	database *mongo.Database
	dbName   string
}

// New returns an adapter bound to dbName. An empty name is resolved from the
// connection URL on Connect.
func New(dbName string) *Adapter {
	return &Adapter{dbName: dbName}
}

var _ database.DocumentStore = (*Adapter)(nil)

func (a *Adapter) Connect(ctx context.Context, url string) error {
	clientOpts := options.Client().ApplyURI(url)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	a.client = client
	if a.dbName == "" {
		a.dbName = extractDBName(url, clientOpts)
	}
	a.database = client.Database(a.dbName)
	return nil
}

// extractDBName takes the database from the URL path, then from authSource.
func extractDBName(url string, opts *options.ClientOptions) string {
	if rest, ok := strings.CutPrefix(url, "mongodb://"); ok {
		url = rest
	} else if rest, ok := strings.CutPrefix(url, "mongodb+srv://"); ok {
		url = rest
	}
	if idx := strings.Index(url, "/"); idx >= 0 {
		dbPart := url[idx+1:]
		if q := strings.Index(dbPart, "?"); q >= 0 {
			dbPart = dbPart[:q]
		}
		if dbPart != "" && dbPart != "admin" {
			return dbPart
		}
	}

	if opts != nil && opts.Auth != nil && opts.Auth.AuthSource != "" && opts.Auth.AuthSource != "admin" {
		return opts.Auth.AuthSource
	}
	return defaultDatabase
}

func (a *Adapter) Close() error {
	if a.client != nil {
		return a.client.Disconnect(context.Background())
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	if a.client == nil {
		return fmt.Errorf("database not connected")
	}
	return a.client.Ping(ctx, nil)
}

func (a *Adapter) DatabaseName() string { return a.dbName }

func (a *Adapter) Collection(name string) database.DocumentCollection {
	return &Collection{coll: a.database.Collection(name)}
}

func (a *Adapter) ListCollections(ctx context.Context) ([]string, error) {
	if a.database == nil {
		return nil, fmt.Errorf("database not connected")
	}

	names, err := a.database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

type Collection struct {
	coll *mongo.Collection
}

func (c *Collection) Drop(ctx context.Context) error {
	if err := c.coll.Drop(ctx); err != nil && !isNamespaceNotFound(err) {
		return fmt.Errorf("failed to drop %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *Collection) InsertMany(ctx context.Context, docs []interface{}) (int, error) {
	res, err := c.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		inserted := 0
		if res != nil {
			inserted = len(res.InsertedIDs)
		}
		return inserted, err
	}
	return len(res.InsertedIDs), nil
}

func (c *Collection) CreateIndex(ctx context.Context, model database.IndexModel) (string, error) {
	opts := options.Index()
	if model.Name != "" {
		opts.SetName(model.Name)
	}
	return c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: model.Keys, Options: opts})
}

func (c *Collection) CountDocuments(ctx context.Context) (int64, error) {
	return c.coll.CountDocuments(ctx, bson.D{})
}

const namespaceNotFound = 26

func isNamespaceNotFound(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == namespaceNotFound || cmdErr.Name == "NamespaceNotFound"
	}
	return false
}
