package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rana718/thesisgen/internal/generator"
	"github.com/Rana718/thesisgen/internal/importer"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

const (
	FormatJSON    = "json"
	FormatExtJSON = "extjson"

	maxConcurrentWrites = 4
)

// Manifest describes one generation run and is written next to the
// collection files.
type Manifest struct {
	RunID       string           `json:"run_id"`
	Seed        int64            `json:"seed"`
	Format      string           `json:"format"`
	Requested   generator.Counts `json:"requested"`
	Collections map[string]int   `json:"collections"`
	Documents   int              `json:"documents"`
	GeneratedAt time.Time        `json:"generated_at"`
}

func NewManifest(g *generator.Generator, ds *generator.Dataset, format string) Manifest {
	counts := ds.Counts()
	total := 0
	for _, n := range counts {
		total += n
	}
	return Manifest{
		RunID:       uuid.New().String(),
		Seed:        g.Seed(),
		Format:      format,
		Requested:   g.Counts(),
		Collections: counts,
		Documents:   total,
		GeneratedAt: g.Now(),
	}
}

// WriteDataset writes one <collection>.json array per collection into dir,
// then the manifest, and returns the paths written.
func WriteDataset(ctx context.Context, dir string, ds *generator.Dataset, format string, manifest Manifest) ([]string, error) {
	if format != FormatJSON && format != FormatExtJSON {
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	collections := ds.Collections()
	paths := make([]string, len(collections))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)
	for i, c := range collections {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := encodeCollection(c.Docs, format)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", c.Name, err)
			}
			path := filepath.Join(dir, c.Name+".json")
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(dir, importer.ManifestFile)
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	return append(paths, manifestPath), nil
}

// encodeCollection renders docs as an indented JSON array. The json format
// writes identifiers as hex strings and times as RFC 3339; extjson writes
// relaxed extended JSON wrappers.
func encodeCollection(docs []interface{}, format string) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(docs, "", "  ")
	}

	raws := make([]json.RawMessage, len(docs))
	for i, doc := range docs {
		raw, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return nil, err
		}
		raws[i] = raw
	}
	return json.MarshalIndent(raws, "", "  ")
}
