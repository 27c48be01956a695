package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/martlens/internal/explore"
	"github.com/roach88/martlens/internal/value"
	"github.com/roach88/martlens/internal/warehouse"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "tables",
		Short:         "List warehouse relations",
		Long:          "List every relation in the warehouse with its column count.\nStar-schema relations sort first.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			s, err := openWarehouse(rootOpts)
			if err != nil {
				_ = formatter.Error(ErrCodeWarehouse, err.Error(), nil)
				return err
			}
			defer s.Close()

			schemas, err := explore.Relations(cmd.Context(), s)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "list relations", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(schemas)
			}

			var b strings.Builder
			for _, schema := range schemas {
				fmt.Fprintf(&b, "%s (%d columns)\n", schema.Relation, len(schema.Columns))
			}
			fmt.Fprint(formatter.Writer, b.String())
			return nil
		},
	}
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "columns <relation>",
		Short:         "Show the columns of a relation",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			relation := args[0]

			s, err := openWarehouse(rootOpts)
			if err != nil {
				_ = formatter.Error(ErrCodeWarehouse, err.Error(), nil)
				return err
			}
			defer s.Close()

			columns, err := explore.Columns(cmd.Context(), s, relation)
			if err != nil {
				return exploreError(formatter, err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]any{
					"relation": relation,
					"columns":  columns,
				})
			}

			nameWidth := len("COLUMN")
			for _, col := range columns {
				if len(col.Name) > nameWidth {
					nameWidth = len(col.Name)
				}
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%-*s  %s\n", nameWidth, "COLUMN", "TYPE")
			for _, col := range columns {
				fmt.Fprintf(&b, "%-*s  %s\n", nameWidth, col.Name, col.Type)
			}
			fmt.Fprint(formatter.Writer, b.String())
			return nil
		},
	}
}

// NewDistinctCommand creates the distinct command.
func NewDistinctCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "distinct <relation> <column>",
		Short: "List the distinct values of a column",
		Long: "List the distinct non-null values of one column in first-seen row\n" +
			"order. Useful for spotting unnormalized categorical data before\n" +
			"trusting a count_distinct measure.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			relation, column := args[0], args[1]

			s, err := openWarehouse(rootOpts)
			if err != nil {
				_ = formatter.Error(ErrCodeWarehouse, err.Error(), nil)
				return err
			}
			defer s.Close()

			values, err := explore.DistinctValues(cmd.Context(), s, relation, column)
			if err != nil {
				return exploreError(formatter, err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]any{
					"relation": relation,
					"column":   column,
					"count":    len(values),
					"values":   values,
				})
			}

			var b strings.Builder
			for _, v := range values {
				fmt.Fprintln(&b, value.String(v))
			}
			fmt.Fprintf(&b, "(%d distinct)\n", len(values))
			fmt.Fprint(formatter.Writer, b.String())
			return nil
		},
	}
}

// NewDateRangeCommand creates the daterange command.
func NewDateRangeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "daterange <relation> <column>",
		Short:         "Show the minimum and maximum value of a column",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			relation, column := args[0], args[1]

			s, err := openWarehouse(rootOpts)
			if err != nil {
				_ = formatter.Error(ErrCodeWarehouse, err.Error(), nil)
				return err
			}
			defer s.Close()

			min, max, err := explore.DateRange(cmd.Context(), s, relation, column)
			if err != nil {
				return exploreError(formatter, err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]any{
					"relation": relation,
					"column":   column,
					"min":      min,
					"max":      max,
				})
			}

			fmt.Fprintf(formatter.Writer, "min: %s\nmax: %s\n", value.String(min), value.String(max))
			return nil
		},
	}
}

// exploreError reports a failed exploration query and converts warehouse
// lookup failures into command errors with the relation error code.
func exploreError(formatter *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	if warehouse.IsRelationNotFound(err) || warehouse.IsColumnNotFound(err) || warehouse.IsSchemaMismatch(err) {
		code = ErrCodeRelation
	}
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, "explore warehouse", err)
}
