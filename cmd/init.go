package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the registry database and seed the type lookup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		types, err := s.Types()
		if err != nil {
			return err
		}
		fmt.Printf("registry ready at %s (%d document types)\n", dbPath, len(types))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
