// Package memstore is an in-memory RowStore for local runs and tests. A
// single mutex serializes all access, matching the one-request-at-a-time
// document model of the hosted spreadsheet backend.
package memstore

import (
	"context"
	"sync"

	"quedee/internal/store"
)

type Store struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

func New() *Store {
	sheets := make(map[string][][]string, len(store.Headers))
	for name := range store.Headers {
		sheets[name] = nil
	}
	return &Store{sheets: sheets}
}

func (s *Store) ScanRows(ctx context.Context, sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return nil, store.ErrUnknownSheet
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, sheet string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return store.ErrUnknownSheet
	}
	s.sheets[sheet] = append(rows, append([]string(nil), row...))
	return nil
}

func (s *Store) UpdateRow(ctx context.Context, sheet string, index int, cells map[int]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return store.ErrUnknownSheet
	}
	if index < 0 || index >= len(rows) {
		return store.ErrNotFound
	}

	row := rows[index]
	for col, value := range cells {
		for col >= len(row) {
			row = append(row, "")
		}
		row[col] = value
	}
	rows[index] = row
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, sheet string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.sheets[sheet]
	if !ok {
		return store.ErrUnknownSheet
	}
	if index < 0 || index >= len(rows) {
		return store.ErrNotFound
	}
	s.sheets[sheet] = append(rows[:index], rows[index+1:]...)
	return nil
}
