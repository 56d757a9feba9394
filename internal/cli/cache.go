package cli

import (
	"fmt"

	"github.com/ppiankov/pmtable/internal/cache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the cached source page",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached page",
	Long: `Clear deletes the cache directory so the next report downloads the source again.

Example:
  pmtable cache clear
  pmtable cache clear --cache-dir /tmp/pmtable`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"cache.dir": "cache-dir"})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if err := cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL).Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared cache: %s\n", cfg.Cache.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().String("cache-dir", "", "directory holding the cached source page")
}
