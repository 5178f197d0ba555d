package generator

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Counts is the requested cardinality per factory. Factories may produce
// fewer records than requested when the data they depend on runs out.
type Counts struct {
	Users       int `json:"users"`
	Theses      int `json:"theses"`
	Submissions int `json:"submissions"`
	Reviews     int `json:"reviews"`
	Defenses    int `json:"defenses"`
	Archived    int `json:"archived"`
}

type Options struct {
	Counts Counts
	Seed   int64
	Now    time.Time
}

type Generator struct {
	opts   Options
	rnd    *Provider
	log    *zap.Logger
	stages []Stage
}

func New(opts Options, log *zap.Logger) *Generator {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Seed == 0 {
		opts.Seed = opts.Now.UnixNano()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		opts:   opts,
		rnd:    NewProvider(opts.Seed, opts.Now),
		log:    log,
		stages: Pipeline(),
	}
}

func (g *Generator) Seed() int64 { return g.opts.Seed }

func (g *Generator) Counts() Counts { return g.opts.Counts }

func (g *Generator) Now() time.Time { return g.rnd.Now() }

// Generate runs every stage in pipeline order and returns the finished
// dataset.
func (g *Generator) Generate() (*Dataset, error) {
	if err := checkOrder(g.stages); err != nil {
		return nil, err
	}

	ds := NewDataset()
	for _, stage := range g.stages {
		for _, name := range stage.Reads {
			if !ds.Has(name) {
				return nil, fmt.Errorf("stage %s: %w: %s", stage.Name, ErrSlotMissing, name)
			}
		}

		if err := stage.Run(g, ds); err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		fields := []zap.Field{zap.String("stage", stage.Name)}
		for _, name := range stage.Writes {
			if !ds.Has(name) {
				return nil, fmt.Errorf("stage %s did not produce %s", stage.Name, name)
			}
			fields = append(fields, zap.Int(name, ds.Counts()[name]))
		}
		g.log.Debug("stage completed", fields...)
	}

	g.log.Info("dataset generated", zap.Int64("seed", g.opts.Seed), zap.Any("counts", ds.Counts()))
	return ds, nil
}
