package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"db-scaffold/internal/schema"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	verbose bool
	strict  bool

	// configErr holds a config file that exists but could not be read.
	configErr error

	// Logger is built before any command runs.
	Logger = zap.NewNop()
)

var RootCmd = &cobra.Command{
	Use:   "db-scaffold",
	Short: "Infer a relational schema from sample JSON and scaffold code from it",
	Long: `
  ____  ____    ____   ____    _    _____ _____ ___  _     ____
 |  _ \| __ )  / ___| / ___|  / \  |  ___|  ___/ _ \| |   |  _ \
 | | | |  _ \  \___ \| |     / _ \ | |_  | |_ | | | | |   | | | |
 | |_| | |_) |  ___) | |___ / ___ \|  _| |  _|| |_| | |___| |_| |
 |____/|____/  |____/ \____/_/   \_\_|   |_|   \___/|_____|____/

DB SCAFFOLD - sample JSON in, schema, SQL, types and backend code out
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		logger, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		Logger = logger
		if used := viper.ConfigFileUsed(); used != "" {
			Logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = Logger.Sync()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-scaffold.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Fail on foreign keys that reference unknown tables")

	viper.BindPFlag("settings.strict", RootCmd.PersistentFlags().Lookup("strict"))

	viper.SetDefault("settings.default_count", 10)
	viper.SetDefault("settings.out_dir", "./generated")
	viper.SetDefault("settings.seed", 0)
}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-scaffold")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DB_SCAFFOLD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("failed to read config: %w", err)
		}
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// inferOptions collects inference settings from config and flags.
func inferOptions() schema.Options {
	return schema.Options{
		UniqueNames: viper.GetStringSlice("settings.unique_names"),
		Strict:      viper.GetBool("settings.strict"),
	}
}

// loadSchema reads sample data from path ("-" for stdin) and infers the
// ordered schema.
func loadSchema(path string) (*schema.Dataset, []*schema.SchemaInfo, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	ds, err := schema.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	tables, err := schema.Infer(ds, inferOptions())
	if err != nil {
		return nil, nil, err
	}
	Logger.Debug("schema inferred", zap.String("input", path), zap.Int("tables", len(tables)))
	return ds, tables, nil
}
