package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/docregistry/docreg/internal/dispatch"
	"github.com/docregistry/docreg/internal/hashsync"
	"github.com/docregistry/docreg/internal/scan"
)

var (
	scanBatchSize int
	scanThrottle  int
	scanHash      bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Scan a directory tree and register unknown files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := ""
		if len(args) == 1 {
			root = args[0]
		}
		if root == "" {
			root = os.Getenv("DOCREG_ROOT")
		}
		if root == "" {
			cfg, err := openSettings()
			if err != nil {
				return err
			}
			root = cfg.Active()
		}
		if root == "" {
			return fmt.Errorf("no scan root: pass one or configure it with `docreg roots add`")
		}
		root, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolve root: %w", err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		queue := dispatch.New()
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sc := scan.New(osfs.New("/"), s, log)
		sc.BatchSize = scanBatchSize
		sc.Throttle = scanThrottle

		// The scan runs on a background goroutine; progress crosses back
		// over the queue, the way a UI thread would consume it.
		errc := make(chan error, 1)
		go func() {
			errc <- sc.Scan(root, func(done, total int) {
				queue.Post(func() {
					fmt.Printf("\rscanning %d/%d", done, total)
				})
			})
		}()
		go queue.Run(ctx, dispatch.DefaultInterval)

		start := time.Now()
		if err := <-errc; err != nil {
			return err
		}
		cancel()
		queue.Drain()
		fmt.Println()

		n, err := s.NewCount()
		if err != nil {
			return err
		}
		fmt.Printf("scan done in %v, %d new documents\n", time.Since(start).Round(time.Millisecond), n)

		if scanHash {
			rec := hashsync.New(s, log)
			if err := rec.Run(); err != nil {
				return err
			}
			fmt.Println("hash reconciliation done")
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanBatchSize, "batch", scan.DefaultBatchSize, "insert batch size")
	scanCmd.Flags().IntVar(&scanThrottle, "throttle", scan.DefaultThrottle, "files between progress reports")
	scanCmd.Flags().BoolVar(&scanHash, "hash", false, "run hash reconciliation after the scan")
	rootCmd.AddCommand(scanCmd)
}
