package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"quedee/internal/store"
)

// sheetRow is one data row of a named sheet. Scan order is insertion order
// (ascending id); nothing ever reorders rows.
type sheetRow struct {
	bun.BaseModel `bun:"table:sheet_rows"`

	ID    int64    `bun:"id,pk,autoincrement"`
	Sheet string   `bun:"sheet,notnull"`
	Cells []string `bun:"cells,array,notnull"`
}

// SheetStore implements store.RowStore on Postgres. Mutations that address a
// row by position run inside a transaction holding a per-sheet advisory lock,
// so a concurrent delete cannot shift the row out from under them.
type SheetStore struct {
	db *bun.DB
}

func NewSheetStore(db *bun.DB) *SheetStore {
	return &SheetStore{db: db}
}

// EnsureSchema creates the backing table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewRaw(
		`CREATE TABLE IF NOT EXISTS sheet_rows (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			sheet TEXT NOT NULL,
			cells TEXT[] NOT NULL
		)`,
	).Exec(ctx)
	if err != nil {
		return err
	}
	_, err = db.NewRaw(`CREATE INDEX IF NOT EXISTS sheet_rows_sheet_id_idx ON sheet_rows (sheet, id)`).Exec(ctx)
	return err
}

func (s *SheetStore) ScanRows(ctx context.Context, sheet string) ([][]string, error) {
	if err := checkSheet(sheet); err != nil {
		return nil, err
	}

	var rows []sheetRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("sheet = ?", sheet).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cells
	}
	return out, nil
}

func (s *SheetStore) AppendRow(ctx context.Context, sheet string, row []string) error {
	if err := checkSheet(sheet); err != nil {
		return err
	}

	m := sheetRow{Sheet: sheet, Cells: row}
	_, err := s.db.NewInsert().Model(&m).Exec(ctx)
	return err
}

func (s *SheetStore) UpdateRow(ctx context.Context, sheet string, index int, cells map[int]string) error {
	if err := checkSheet(sheet); err != nil {
		return err
	}
	if index < 0 {
		return store.ErrNotFound
	}

	return s.inSheetTransaction(ctx, sheet, func(ctx context.Context, tx bun.Tx) error {
		row, err := rowAt(ctx, tx, sheet, index)
		if err != nil {
			return err
		}

		for col, value := range cells {
			for col >= len(row.Cells) {
				row.Cells = append(row.Cells, "")
			}
			row.Cells[col] = value
		}

		_, err = tx.NewUpdate().
			Model(&row).
			Column("cells").
			WherePK().
			Exec(ctx)
		return err
	})
}

func (s *SheetStore) DeleteRow(ctx context.Context, sheet string, index int) error {
	if err := checkSheet(sheet); err != nil {
		return err
	}
	if index < 0 {
		return store.ErrNotFound
	}

	return s.inSheetTransaction(ctx, sheet, func(ctx context.Context, tx bun.Tx) error {
		row, err := rowAt(ctx, tx, sheet, index)
		if err != nil {
			return err
		}
		_, err = tx.NewDelete().
			Model(&row).
			WherePK().
			Exec(ctx)
		return err
	})
}

func (s *SheetStore) inSheetTransaction(ctx context.Context, sheet string, fn func(ctx context.Context, tx bun.Tx) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockSheet(ctx, tx, sheet); err != nil {
			return err
		}
		return fn(ctx, tx)
	})
}

func lockSheet(ctx context.Context, tx bun.Tx, sheet string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", sheet).Exec(ctx)
	return err
}

func rowAt(ctx context.Context, tx bun.Tx, sheet string, index int) (sheetRow, error) {
	var row sheetRow
	err := tx.NewSelect().
		Model(&row).
		Where("sheet = ?", sheet).
		OrderExpr("id ASC").
		Offset(index).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sheetRow{}, store.ErrNotFound
		}
		return sheetRow{}, err
	}
	return row, nil
}

func checkSheet(sheet string) error {
	if _, ok := store.Headers[sheet]; !ok {
		return store.ErrUnknownSheet
	}
	return nil
}
