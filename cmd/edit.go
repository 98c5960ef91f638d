package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <doc-id>",
	Short: "Edit a document's registry metadata",
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

		doc, err := s.DocumentByID(id)
		if err != nil {
			return err
		}

		// Only flags the user passed overwrite existing values.
		m := doc.Meta
		flagString := func(name string, dst *string) {
			if cmd.Flags().Changed(name) {
				*dst, _ = cmd.Flags().GetString(name)
			}
		}
		flagString("direction", &m.Direction)
		flagString("type", &m.DocType)
		flagString("number", &m.DocNumber)
		flagString("date", &m.DocDate)
		flagString("sender", &m.Sender)
		flagString("tags", &m.Tags)
		flagString("deadline", &m.Deadline)
		flagString("description", &m.Description)
		if cmd.Flags().Changed("controlled") {
			m.Controlled, _ = cmd.Flags().GetBool("controlled")
		}

		return s.SaveMetadata(id, m)
	},
}

var rmConfirm int

var rmCmd = &cobra.Command{
	Use:   "rm <doc-id>...",
	Short: "Delete documents along with their numbers and links",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid document id %q", arg)
			}
			ids = append(ids, id)
		}
		// The confirmation count must match before anything mutates.
		if rmConfirm != len(ids) {
			return fmt.Errorf("refusing to delete: --confirm %d does not match %d document(s)", rmConfirm, len(ids))
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		for _, id := range ids {
			doc, err := s.DocumentByID(id)
			if err != nil {
				return fmt.Errorf("document #%d: %w", id, err)
			}
			if err := s.Delete(id); err != nil {
				return fmt.Errorf("delete #%d: %w", id, err)
			}
			// The row is gone; a failed file removal is reported but
			// cannot roll the database back.
			if err := os.Remove(doc.Filepath); err != nil && !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "warning: could not remove %s: %v\n", doc.Filepath, err)
			}
		}
		fmt.Printf("deleted %d document(s)\n", len(ids))
		return nil
	},
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the document-type lookup table",
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
		for name, category := range types {
			fmt.Printf("%-20s %s\n", name, category)
		}
		return nil
	},
}

func init() {
	setCmd.Flags().String("direction", "", "direction (inbound/outbound)")
	setCmd.Flags().String("type", "", "document type")
	setCmd.Flags().String("number", "", "primary registry number")
	setCmd.Flags().String("date", "", "document date (YYYY-MM-DD)")
	setCmd.Flags().String("sender", "", "sender/author")
	setCmd.Flags().String("tags", "", "classification marking")
	setCmd.Flags().Bool("controlled", false, "compliance control flag")
	setCmd.Flags().String("deadline", "", "control deadline (YYYY-MM-DD)")
	setCmd.Flags().String("description", "", "description")

	rmCmd.Flags().IntVar(&rmConfirm, "confirm", 0, "number of documents you intend to delete")

	rootCmd.AddCommand(setCmd, rmCmd, typesCmd)
}
