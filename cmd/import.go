package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Rana718/thesisgen/internal/database/mongodb"
	"github.com/Rana718/thesisgen/internal/importer"
	"github.com/Rana718/thesisgen/internal/indexes"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const connectTimeout = 10 * time.Second

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the serialized dataset into MongoDB",
	Long: `
Read every <collection>.json file in the data directory, restore identifiers
and timestamps to their native types, insert the documents and create the
configured indexes.

The connection string comes from --uri, then the MONGODB_URI environment
variable, then mongodb://localhost:27017.

Examples:
  thesisgen import
  thesisgen import --drop
  thesisgen import --collections users,theses --indexes=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		idx, err := indexes.Load(cfg.Import.IndexFile)
		if err != nil {
			return err
		}

		store := mongodb.New(cfg.Import.Database)
		connectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := store.Connect(connectCtx, cfg.GetMongoURI()); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer store.Close()

		color.Cyan("📦 Importing %s into database %s...", cfg.DataDir, store.DatabaseName())

		ctx := context.Background()
		im := importer.New(store, importer.NewDirSource(cfg.DataDir), idx, log)
		report, err := im.Run(ctx, importer.Options{
			Collections: cfg.Import.Collections,
			Drop:        cfg.Import.Drop,
			Indexes:     cfg.Import.Indexes,
		})

		for _, res := range report.Results {
			switch {
			case res.Empty:
				color.Yellow("⚠ %s: empty, skipped", res.Collection)
			default:
				color.Green("✓ %s: %d documents, %d indexes", res.Collection, res.Inserted, res.Indexes)
			}
		}
		for _, w := range report.Warnings {
			color.Yellow("⚠ %s", w)
		}
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}

		stats, err := im.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to read collection stats: %w", err)
		}
		color.Cyan("\n📊 Database %s:", store.DatabaseName())
		for _, s := range stats {
			color.White("  %-24s %6d", s.Name, s.Documents)
		}
		fmt.Println()
		color.Green("✅ Import completed: %d documents", report.Inserted())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	flags := importCmd.Flags()
	flags.String("uri", "", "MongoDB connection string (overrides MONGODB_URI)")
	flags.String("database", "lvtn", "Database name")
	flags.StringSlice("collections", nil, "Collections to import (default: every file in the data directory)")
	flags.Bool("drop", false, "Drop each collection before inserting")
	flags.Bool("indexes", true, "Create the configured indexes")
	flags.String("index-file", "", "YAML file replacing the built-in index configuration")

	viper.BindPFlag("import.uri", flags.Lookup("uri"))
	viper.BindPFlag("import.database", flags.Lookup("database"))
	viper.BindPFlag("import.collections", flags.Lookup("collections"))
	viper.BindPFlag("import.drop", flags.Lookup("drop"))
	viper.BindPFlag("import.indexes", flags.Lookup("indexes"))
	viper.BindPFlag("import.index_file", flags.Lookup("index-file"))
}
