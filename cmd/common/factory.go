package common

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonesrussell/datasync/internal/config"
	"github.com/jonesrussell/datasync/internal/logger"
)

// NewCommandDeps creates CommandDeps by loading config and creating a
// logger from the settings Viper has collected.
func NewCommandDeps() (CommandDeps, error) {
	cfg, err := config.LoadFromViper(viper.GetViper())
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	logLevel := viper.GetString("logger.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logLevel = strings.ToLower(logLevel)

	logCfg := &logger.Config{
		Level:       logger.Level(logLevel),
		Development: viper.GetBool("logger.development"),
		Encoding:    viper.GetString("logger.encoding"),
		OutputPaths: viper.GetStringSlice("logger.output_paths"),
	}

	log, err := logger.New(logCfg)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := CommandDeps{
		Logger: log,
		Config: cfg,
	}

	if validateErr := deps.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("validate deps: %w", validateErr)
	}

	return deps, nil
}
