// Package importer loads serialized collections into a document store.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rana718/thesisgen/internal/database"
	"github.com/Rana718/thesisgen/internal/indexes"
	"github.com/Rana718/thesisgen/internal/normalize"
	"go.uber.org/zap"
)

type Options struct {
	// Collections limits the import; empty means every collection the
	// source lists.
	Collections []string
	Drop        bool
	Indexes     bool
}

type Result struct {
	Collection string
	Inserted   int
	Indexes    int
	Dropped    bool
	Empty      bool
}

// Report collects the outcome of a run. Warnings hold the recoverable
// problems, such as a requested collection with no file.
type Report struct {
	Results  []Result
	Warnings []string
}

func (r *Report) Inserted() int {
	total := 0
	for _, res := range r.Results {
		total += res.Inserted
	}
	return total
}

type Importer struct {
	store   database.DocumentStore
	source  Source
	indexes indexes.Config
	log     *zap.Logger
}

func New(store database.DocumentStore, source Source, idx indexes.Config, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: store, source: source, indexes: idx, log: log}
}

// Run imports each collection in turn. A failed insert or index build stops
// the run; collections imported before it are kept. The returned report is
// never nil.
func (im *Importer) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{}

	names := opts.Collections
	if len(names) == 0 {
		listed, err := im.source.List()
		if err != nil {
			return report, err
		}
		names = listed
	}
	im.log.Info("importing collections",
		zap.String("database", im.store.DatabaseName()),
		zap.Int("collections", len(names)),
		zap.Bool("drop", opts.Drop),
		zap.Bool("indexes", opts.Indexes))

	for _, name := range names {
		docs, err := im.source.Load(name)
		if errors.Is(err, ErrCollectionNotFound) {
			msg := fmt.Sprintf("no serialized data for %s", name)
			report.Warnings = append(report.Warnings, msg)
			im.log.Warn("collection skipped", zap.String("collection", name), zap.Error(err))
			continue
		}
		if err != nil {
			return report, fmt.Errorf("failed to load %s: %w", name, err)
		}

		res, err := im.importCollection(ctx, name, docs, opts)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func (im *Importer) importCollection(ctx context.Context, name string, docs []interface{}, opts Options) (Result, error) {
	res := Result{Collection: name}
	if len(docs) == 0 {
		res.Empty = true
		im.log.Info("skipping empty collection", zap.String("collection", name))
		return res, nil
	}

	coll := im.store.Collection(name)
	if opts.Drop {
		if err := coll.Drop(ctx); err != nil {
			return res, fmt.Errorf("failed to drop %s: %w", name, err)
		}
		res.Dropped = true
	}

	normalized := make([]interface{}, len(docs))
	for i, doc := range docs {
		normalized[i] = normalize.Normalize(doc)
	}

	inserted, err := coll.InsertMany(ctx, normalized)
	if err != nil {
		return res, fmt.Errorf("failed to insert into %s: %w", name, err)
	}
	res.Inserted = inserted

	if opts.Indexes {
		for _, spec := range im.indexes.For(name) {
			if _, err := coll.CreateIndex(ctx, database.IndexModel{Keys: spec.Keys()}); err != nil {
				return res, fmt.Errorf("failed to create index %s on %s: %w", spec, name, err)
			}
			res.Indexes++
		}
	}

	im.log.Info("collection imported",
		zap.String("collection", name),
		zap.Int("inserted", res.Inserted),
		zap.Int("indexes", res.Indexes),
		zap.Bool("dropped", res.Dropped))
	return res, nil
}

type CollectionStat struct {
	Name      string
	Documents int64
}

// Stats counts the documents of every collection in the store.
func (im *Importer) Stats(ctx context.Context) ([]CollectionStat, error) {
	names, err := im.store.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]CollectionStat, 0, len(names))
	for _, name := range names {
		n, err := im.store.Collection(name).CountDocuments(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", name, err)
		}
		stats = append(stats, CollectionStat{Name: name, Documents: n})
	}
	return stats, nil
}
