// Package cmd implements the command-line interface for datasync.
// It provides the root command and subcommands for running and
// inspecting incremental dataset synchronization.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmddatasets "github.com/jonesrussell/datasync/cmd/datasets"
	cmdschedule "github.com/jonesrussell/datasync/cmd/schedule"
	cmdstate "github.com/jonesrussell/datasync/cmd/state"
	cmdsync "github.com/jonesrussell/datasync/cmd/sync"
	synccfg "github.com/jonesrussell/datasync/internal/config/sync"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the datasync CLI.
	rootCmd = &cobra.Command{
		Use:   "datasync",
		Short: "Incremental dataset synchronization",
		Long: `datasync keeps a local mirror of topical datasets from a remote
catalog: it discovers dataset descriptors, detects which are new or
changed since the last run, downloads them concurrently, and normalizes
their column headers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("datasync version %s\n", "0.1.0")
		},
	})

	// Add subcommands
	rootCmd.AddCommand(cmdsync.Command())
	rootCmd.AddCommand(cmdschedule.Command())
	rootCmd.AddCommand(cmddatasets.Command())
	rootCmd.AddCommand(cmdstate.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Set config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Enable automatic environment variable reading BEFORE setting defaults
	// so environment variables take precedence over defaults
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional: defaults and environment variables cover
	// every setting
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr,
			"Warning: Config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := bindCommandLineFlags(); err != nil {
		return err
	}

	if err := bindEnvVars(); err != nil {
		return err
	}

	setupDevelopmentLogging()

	return nil
}

// bindCommandLineFlags binds command-line flags to Viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("failed to bind config flag: %w", err)
	}
	return nil
}

// bindEnvVars maps environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"app.environment":  {"APP_ENV"},
		"app.debug":        {"APP_DEBUG"},
		"logger.level":     {"LOG_LEVEL"},
		"logger.encoding":  {"LOG_FORMAT"},
		"sync.catalog_url": {"DATASYNC_CATALOG_URL"},
		"sync.topic":       {"DATASYNC_TOPIC"},
		"sync.max_workers": {"DATASYNC_MAX_WORKERS"},
	}

	for key, envVars := range bindings {
		args := append([]string{key}, envVars...)
		if err := viper.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", envVars[0], err)
		}
	}

	return nil
}

// setupDevelopmentLogging configures development logging settings based
// on environment and the debug flag.
func setupDevelopmentLogging() {
	debugFlag := Debug || viper.GetBool("app.debug")
	isDev := viper.GetString("app.environment") == "development"

	if debugFlag {
		viper.Set("logger.level", "debug")
	}

	if isDev {
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}

	Debug = debugFlag
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults - production safe
	viper.SetDefault("app", map[string]any{
		"name":        "datasync",
		"version":     "0.1.0",
		"environment": "production",
		"debug":       false,
	})

	// Logger defaults - production safe
	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"output_paths": []string{"stdout"},
	})

	// Sync defaults - match the CMS provider-data deployment
	viper.SetDefault("sync", map[string]any{
		"catalog_url":     synccfg.DefaultCatalogURL,
		"download_dir":    synccfg.DefaultDownloadDir,
		"cleaned_dir":     synccfg.DefaultCleanedDir,
		"state_file":      synccfg.DefaultStateFile,
		"max_workers":     synccfg.DefaultMaxWorkers,
		"topic":           synccfg.DefaultTopic,
		"file_extension":  synccfg.DefaultFileExtension,
		"cleaned_suffix":  synccfg.DefaultCleanedSuffix,
		"encoding":        synccfg.DefaultEncoding,
		"request_timeout": synccfg.DefaultRequestTimeout.String(),
	})
}
