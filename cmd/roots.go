package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "Manage configured scan roots",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openSettings()
		if err != nil {
			return err
		}
		active := cfg.Active()
		for _, f := range cfg.Folders() {
			mark := " "
			if f == active {
				mark = "*"
			}
			fmt.Printf("%s %s\n", mark, f)
		}
		return nil
	},
}

var rootsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a scan root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openSettings()
		if err != nil {
			return err
		}
		added, err := cfg.Add(args[0])
		if err != nil {
			return err
		}
		if !added {
			fmt.Println("already registered")
		}
		return nil
	},
}

var rootsRmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Unregister a scan root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openSettings()
		if err != nil {
			return err
		}
		return cfg.Remove(args[0])
	},
}

var rootsUseCmd = &cobra.Command{
	Use:   "use <path>",
	Short: "Make a registered root the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openSettings()
		if err != nil {
			return err
		}
		return cfg.SetActive(args[0])
	},
}

func init() {
	rootsCmd.AddCommand(rootsAddCmd, rootsRmCmd, rootsUseCmd)
	rootCmd.AddCommand(rootsCmd)
}
