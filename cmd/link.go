package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docregistry/docreg/internal/links"
)

var linkType string

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage typed relationships between documents",
}

var linkAddCmd = &cobra.Command{
	Use:   "add <doc-id> <doc-id>",
	Short: "Link two documents (the reverse edge is created automatically)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, b, err := parseIDPair(args)
		if err != nil {
			return err
		}
		valid := false
		for _, t := range links.Types {
			if t == linkType {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown link type %q (one of: %s)", linkType, strings.Join(links.Types, ", "))
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		return links.NewGraph(s).Add(a, b, linkType)
	},
}

var linkRmCmd = &cobra.Command{
	Use:   "rm <doc-id> <doc-id>",
	Short: "Remove the link between two documents, both directions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, b, err := parseIDPair(args)
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		return links.NewGraph(s).Remove(a, b)
	},
}

var linkLsCmd = &cobra.Command{
	Use:   "ls <doc-id>",
	Short: "List a document's linked partners",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		ls, err := links.NewGraph(s).LinksFor(id)
		if err != nil {
			return err
		}
		for _, l := range ls {
			doc, err := s.DocumentByID(l.OtherID)
			name := "(deleted)"
			if err == nil {
				name = doc.Filename
			}
			fmt.Printf("#%d  %-40s %s\n", l.OtherID, name, l.Type)
		}
		return nil
	},
}

func parseIDPair(args []string) (int64, int64, error) {
	a, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid document id %q", args[0])
	}
	b, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid document id %q", args[1])
	}
	return a, b, nil
}

func init() {
	linkAddCmd.Flags().StringVar(&linkType, "type", "related", "link type")
	linkCmd.AddCommand(linkAddCmd, linkRmCmd, linkLsCmd)
	rootCmd.AddCommand(linkCmd)
}
