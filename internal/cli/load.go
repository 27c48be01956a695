package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/martlens/internal/store"
	"github.com/roach88/martlens/internal/warehouse"
)

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <relation> <csv-file>",
		Short: "Import CSV rows into a warehouse relation",
		Long: "Import a CSV file into one relation inside a single transaction.\n" +
			"The header row must match the relation's columns; empty cells load\n" +
			"as NULL. Creates the warehouse file if it does not exist.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			relation, csvPath := args[0], args[1]

			f, err := os.Open(csvPath)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "open csv", err)
			}
			defer f.Close()

			// Unlike the read-only commands, load may create the warehouse.
			s, err := store.Open(rootOpts.DBPath)
			if err != nil {
				_ = formatter.Error(ErrCodeWarehouse, err.Error(), nil)
				return WrapExitError(ExitCommandError, "open warehouse", err)
			}
			defer s.Close()

			inserted, err := s.ImportCSV(cmd.Context(), relation, f)
			if err != nil {
				code := ErrCodeGeneric
				if warehouse.IsRelationNotFound(err) || warehouse.IsColumnNotFound(err) || warehouse.IsSchemaMismatch(err) {
					code = ErrCodeRelation
				}
				_ = formatter.Error(code, err.Error(), nil)
				return WrapExitError(ExitCommandError, "import csv", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]any{
					"relation": relation,
					"inserted": inserted,
				})
			}
			fmt.Fprintf(formatter.Writer, "loaded %d row(s) into %s\n", inserted, relation)
			return nil
		},
	}
}
