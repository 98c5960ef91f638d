package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docregistry/docreg/internal/project"
)

var (
	listFilter   project.Filter
	listSort     string
	listDesc     bool
	listFlat     bool
	listMarkSeen bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the filtered registry as a folder tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		engine := project.NewEngine(s)
		if listSort != "" {
			engine.ClickColumn(listSort)
			if listDesc {
				engine.ClickColumn(listSort)
			}
		}

		root, err := engine.Project(listFilter, !listFlat)
		if err != nil {
			return err
		}
		printNode(root, 0)

		if n, err := s.NewCount(); err == nil && n > 0 {
			fmt.Printf("\n%d new document(s)\n", n)
		}
		if listMarkSeen {
			if err := s.MarkAllSeen(); err != nil {
				return err
			}
		}
		return nil
	},
}

func printNode(n *project.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if depth > 0 || n.Name != "[root]" {
		fmt.Printf("%s%s/\n", indent, n.Name)
	}
	for _, folder := range n.Folders {
		printNode(folder, depth+1)
	}
	for _, row := range n.Docs {
		m := row.Doc.Meta
		mark := " "
		if m.Controlled {
			mark = "!"
		}
		fmt.Printf("%s  %s#%d %s  %s %s %s %s\n",
			indent, mark, row.Doc.ID, row.Doc.Filename,
			m.Direction, m.DocType, m.DocNumber, m.DocDate)
	}
}

func init() {
	listCmd.Flags().StringVar(&listFilter.Search, "search", "", "free-text filter")
	listCmd.Flags().BoolVar(&listFilter.Incomplete, "incomplete", false, "only documents missing core fields")
	listCmd.Flags().StringVar(&listFilter.Direction, "direction", "", "direction filter (inbound/outbound)")
	listCmd.Flags().StringVar(&listFilter.Type, "type", "", "document type filter")
	listCmd.Flags().StringVar(&listFilter.Tags, "tags", "", "classification tag filter")
	listCmd.Flags().StringVar(&listFilter.DateFrom, "from", "", "doc date lower bound (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listFilter.DateTo, "to", "", "doc date upper bound (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listFilter.NumberMain, "number", "", "primary number filter")
	listCmd.Flags().StringVar(&listFilter.NumberExtra, "aux-number", "", "auxiliary number filter")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort column (filename, doc_date, ...)")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "sort descending")
	listCmd.Flags().BoolVar(&listFlat, "flat", false, "flat list instead of folder tree")
	listCmd.Flags().BoolVar(&listMarkSeen, "mark-seen", false, "clear the new-document flags after listing")
	rootCmd.AddCommand(listCmd)
}
