package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/pmtable/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "pmtable v0.1.0"

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pmtable",
	Short: "pmtable - Ages of the prime ministers of India, from Wikipedia",
	Long: `pmtable reads the list of prime ministers of India from Wikipedia,
parses each "Name(birth–death)" cell into a structured record and reports
age statistics together with a lifespan timeline.

The source page is cached on disk so repeated runs are reproducible; pass
--reference-year to pin the "as of" year used for living prime ministers.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.pmtable/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	setDefaults(viper.GetViper(), model.DefaultConfig())

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".pmtable"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// PMTABLE_REFERENCE_YEAR, PMTABLE_SOURCE_URL, ...
	viper.SetEnvPrefix("PMTABLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env vars and flags can override it
func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("reference_year", d.ReferenceYear)

	v.SetDefault("source.url", d.Source.URL)
	v.SetDefault("source.selector", d.Source.Selector)
	v.SetDefault("source.column", d.Source.Column)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	v.SetDefault("http.http_proxy", d.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", d.HTTP.HTTPSProxy)
	v.SetDefault("http.respect_robots", d.HTTP.RespectRobots)
	v.SetDefault("http.requests_per_second", d.HTTP.RequestsPerSecond)
	v.SetDefault("http.burst", d.HTTP.Burst)
	v.SetDefault("http.robots_ttl", d.HTTP.RobotsTTL)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("output.json", d.Output.JSON)
	v.SetDefault("output.csv", d.Output.CSV)
	v.SetDefault("output.markdown", d.Output.Markdown)
	v.SetDefault("output.verbose", d.Output.Verbose)
	v.SetDefault("output.chart_width", d.Output.ChartWidth)
}

// bindFlags points viper keys at cmd's flags. Commands sharing a key each
// bind their own flag before running, so the last command run owns it.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

// loadConfig merges defaults, config file, env and bound flags
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.ReferenceYear <= 0 {
		return nil, fmt.Errorf("reference year must be positive, got %d", cfg.ReferenceYear)
	}
	if cfg.HTTP.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("max body bytes must be positive, got %d", cfg.HTTP.MaxBodyBytes)
	}
	return cfg, nil
}
