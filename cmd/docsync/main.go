// docsync is a small offline-first todo client demonstrating the sync
// engine: documents are read and written locally, mutations queue
// durably in a local database, and push/pull cycles reconcile with the
// remote backend whenever one is reachable.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Offline-first document sync demo client",
	Long: `docsync keeps a local todo collection that works without a network:
reads and writes are instant and local, every mutation is queued durably,
and "docsync sync" reconciles with the configured server when possible.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "remote backend URL (empty runs against an in-memory backend)")
	rootCmd.PersistentFlags().String("db", "docsync.db", "path to the local database")
	rootCmd.PersistentFlags().String("db-driver", "bolt", "local database driver (bolt or sqlite)")
	rootCmd.PersistentFlags().String("collection", "todos", "collection name")
	rootCmd.PersistentFlags().String("user", "", "user id sent to the backend")
	rootCmd.PersistentFlags().Duration("auto-sync", 0, "auto-sync interval (0 disables)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	for _, flag := range []string{"server", "db", "db-driver", "collection", "user", "auto-sync", "verbose"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("DOCSYNC")
	viper.AutomaticEnv()

	viper.SetConfigName(".docsync")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")
	// A missing config file is fine; flags and env cover everything
	_ = viper.ReadInConfig()

	rootCmd.AddCommand(addCmd, listCmd, doneCmd, rmCmd, syncCmd, statusCmd, watchCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docsync %s (%s)\n", Version, GitCommit)
	},
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func autoSyncInterval() time.Duration {
	return viper.GetDuration("auto-sync")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
