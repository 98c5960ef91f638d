package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docregistry/docreg/internal/hashsync"
)

var hashWorkers int

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compute content hashes for unhashed documents and propagate duplicate metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		rec := hashsync.New(s, log)
		rec.Workers = hashWorkers
		if err := rec.Run(); err != nil {
			return err
		}
		fmt.Println("hash reconciliation done")
		return nil
	},
}

func init() {
	hashCmd.Flags().IntVar(&hashWorkers, "workers", hashsync.DefaultWorkers, "hashing pool size")
	rootCmd.AddCommand(hashCmd)
}
