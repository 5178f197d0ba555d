package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rana718/thesisgen/internal/config"
	"github.com/Rana718/thesisgen/internal/logger"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	Version = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════════╗",
		"║   ████████╗██╗  ██╗███████╗███████╗██╗███████╗           ║",
		"║   ╚══██╔══╝██║  ██║██╔════╝██╔════╝██║██╔════╝           ║",
		"║      ██║   ███████║█████╗  ███████╗██║███████╗           ║",
		"║      ██║   ██╔══██║██╔══╝  ╚════██║██║╚════██║           ║",
		"║      ██║   ██║  ██║███████╗███████║██║███████║   gen     ║",
		"║      ╚═╝   ╚═╝  ╚═╝╚══════╝╚══════╝╚═╝╚══════╝           ║",
		"║                                                          ║",
		"║      🎓 Thesis management test data for MongoDB 🎓       ║",
		"╚══════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                     ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "thesisgen",
	Short: "Generate and import synthetic thesis management data",
	Long: `
thesisgen builds a referentially consistent dataset for a university thesis
management system (users, theses, submissions, reviews, defenses, archives
and audit logs), writes it as JSON files and loads it into MongoDB.

Typical workflow:
  thesisgen generate --users 200 --seed 42
  thesisgen import --drop
  thesisgen export --sqlite`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("thesisgen version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./thesisgen.config.json)")
	rootCmd.PersistentFlags().String("data-dir", "data", "Directory holding the serialized collections")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("thesisgen.config")
	}

	// THESISGEN_GENERATE_USERS=500 overrides generate.users
	viper.SetEnvPrefix("thesisgen")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config %s: %v\n", cfgFile, err)
		}
	}
}

// setup loads and validates the configuration and builds the logger shared
// by every subcommand.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
