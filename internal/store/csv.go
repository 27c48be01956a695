package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/martlens/internal/warehouse"
)

// ImportCSV bulk-loads rows from CSV into a relation inside one
// transaction. The first record must be a header naming columns of the
// relation; column order in the file is free. Empty cells load as NULL.
//
// Returns the number of rows inserted. On any error the transaction rolls
// back and the relation is left untouched.
func (s *Store) ImportCSV(ctx context.Context, relation string, r io.Reader) (int64, error) {
	schema, err := s.Schema(ctx, relation)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row width checked against the header below

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	for _, name := range header {
		if _, ok := schema.Column(name); !ok {
			return 0, warehouse.NewColumnNotFound(relation, name)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)), ", ")
	quoted := make([]string, len(header))
	for i, name := range header {
		quoted[i] = quoteIdent(name)
	}
	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(relation), strings.Join(quoted, ", "), placeholders,
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("import csv: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("import csv: prepare: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if len(record) != len(header) {
			return 0, warehouse.NewSchemaMismatch(relation, "",
				fmt.Sprintf("csv line %d has %d fields, header has %d", line, len(record), len(header)))
		}

		args := make([]any, len(record))
		for i, cell := range record {
			if cell == "" {
				args[i] = nil
				continue
			}
			args[i] = cell
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert csv line %d: %w", line, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("import csv: commit: %w", err)
	}
	return inserted, nil
}
