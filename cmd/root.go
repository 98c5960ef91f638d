// Package cmd wires the registry engine into a CLI. Commands drive the
// same components a desktop front end would: scanner and reconciler on
// background goroutines, completions delivered through the dispatch
// queue.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/docregistry/docreg/internal/settings"
	"github.com/docregistry/docreg/internal/store"
)

var (
	dbPath       string
	settingsPath string
	verbose      bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "docreg",
	Short: "docreg: local document registry with scanning, deduplication and linking",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // optional .env, absence is fine
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		if dbPath == "" {
			dbPath = os.Getenv("DOCREG_DB")
		}
		if dbPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home dir: %w", err)
			}
			dbPath = filepath.Join(home, ".docreg", "registry.db")
		}
		if settingsPath == "" {
			settingsPath = os.Getenv("DOCREG_SETTINGS")
		}
		if settingsPath == "" {
			settingsPath = filepath.Join(filepath.Dir(dbPath), "settings.json")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "registry database path (default $DOCREG_DB or ~/.docreg/registry.db)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// openStore opens the database and runs the idempotent schema
// initialization and type seeding every start.
func openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.InitSchema(); err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := s.SeedTypes(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func openSettings() (*settings.Manager, error) {
	return settings.Load(settingsPath)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
