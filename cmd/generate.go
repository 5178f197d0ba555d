package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/thesisgen/internal/export"
	"github.com/Rana718/thesisgen/internal/generator"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic thesis management dataset",
	Long: `
Generate every collection of the thesis management system in dependency order
and write one <collection>.json file per collection plus manifest.json into
the data directory.

Examples:
  thesisgen generate
  thesisgen generate --users 500 --theses 200 --seed 42
  thesisgen generate --format extjson --data-dir ./fixtures`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		g := generator.New(generator.Options{
			Counts: generator.Counts{
				Users:       cfg.Generate.Users,
				Theses:      cfg.Generate.Theses,
				Submissions: cfg.Generate.Submissions,
				Reviews:     cfg.Generate.Reviews,
				Defenses:    cfg.Generate.Defenses,
				Archived:    cfg.Generate.Archived,
			},
			Seed: cfg.Generate.Seed,
		}, log)

		color.Cyan("🎲 Generating dataset (seed %d)...", g.Seed())
		ds, err := g.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate dataset: %w", err)
		}

		manifest := export.NewManifest(g, ds, cfg.Generate.Format)
		paths, err := export.WriteDataset(context.Background(), cfg.DataDir, ds, cfg.Generate.Format, manifest)
		if err != nil {
			return err
		}
		log.Debug("dataset written", zap.Strings("files", paths))

		for _, c := range ds.Collections() {
			color.Green("✓ %-24s %6d", c.Name, len(c.Docs))
		}
		fmt.Println()
		color.Green("✅ Wrote %d documents to %s", manifest.Documents, cfg.DataDir)
		color.White("   run id %s, seed %d", manifest.RunID, manifest.Seed)
		color.Cyan("\n📝 Next step:")
		color.White("  thesisgen import --data-dir %s", cfg.DataDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.Int("users", 100, "Number of users (1 admin, 1/5 teachers, the rest students)")
	flags.Int("theses", 50, "Number of theses")
	flags.Int("submissions", 150, "Maximum number of submissions")
	flags.Int("reviews", 150, "Maximum number of reviews")
	flags.Int("defenses", 30, "Number of defense schedules")
	flags.Int("archived", 20, "Maximum number of archived theses")
	flags.Int64("seed", 0, "Random seed (0 derives one from the clock)")
	flags.String("format", export.FormatJSON, "Output format (json, extjson)")

	for _, key := range []string{"users", "theses", "submissions", "reviews", "defenses", "archived", "seed", "format"} {
		viper.BindPFlag("generate."+key, flags.Lookup(key))
	}
}
