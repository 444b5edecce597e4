package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PUSHPAK-96/cartwise/internal/loader"
	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// ErrDatasetNotFound is returned when no dataset has the requested name.
var ErrDatasetNotFound = errors.New("dataset not found")

// SaveDataset stores txns under name, replacing any dataset already there.
func (s *SQLiteStorage) SaveDataset(ctx context.Context, name string, txns []model.Transaction) (*model.Dataset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDatasetName(name); err != nil {
		return nil, err
	}
	if err := validateTransactions(txns); err != nil {
		return nil, err
	}

	dataset := &model.Dataset{
		Name:        name,
		Fingerprint: model.Fingerprint(txns),
		BasketStats: loader.Stats(txns),
		ImportedAt:  time.Now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteDatasetTx(ctx, tx, name); err != nil && !errors.Is(err, ErrDatasetNotFound) {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (name, fingerprint, row_count, invoice_count, product_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, dataset.Name, dataset.Fingerprint, dataset.Rows, dataset.Invoices, dataset.Products, dataset.ImportedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dataset_rows (dataset, position, invoice_id, product)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, txn := range txns {
		if _, err := stmt.ExecContext(ctx, name, i, txn.InvoiceID, txn.Product); err != nil {
			return nil, fmt.Errorf("failed to save row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit dataset: %w", err)
	}
	return dataset, nil
}

// GetDataset loads a dataset's rows in their original order.
func (s *SQLiteStorage) GetDataset(ctx context.Context, name string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	if _, err := s.getDatasetInfo(ctx, s.db, name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT invoice_id, product
		FROM dataset_rows
		WHERE dataset = ?
		ORDER BY position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	txns := make([]model.Transaction, 0)
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.InvoiceID, &t.Product); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// DatasetInfo returns a dataset's summary without loading its rows.
func (s *SQLiteStorage) DatasetInfo(ctx context.Context, name string) (*model.Dataset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getDatasetInfo(ctx, s.db, name)
}

func (s *SQLiteStorage) getDatasetInfo(ctx context.Context, q queryable, name string) (*model.Dataset, error) {
	var d model.Dataset
	err := q.QueryRowContext(ctx, `
		SELECT name, fingerprint, row_count, invoice_count, product_count, imported_at
		FROM datasets
		WHERE name = ?
	`, name).Scan(&d.Name, &d.Fingerprint, &d.Rows, &d.Invoices, &d.Products, &d.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return &d, nil
}

// ListDatasets returns every dataset ordered by name.
func (s *SQLiteStorage) ListDatasets(ctx context.Context) ([]model.Dataset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, fingerprint, row_count, invoice_count, product_count, imported_at
		FROM datasets
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	datasets := make([]model.Dataset, 0)
	for rows.Next() {
		var d model.Dataset
		if err := rows.Scan(&d.Name, &d.Fingerprint, &d.Rows, &d.Invoices, &d.Products, &d.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, d)
	}
	return datasets, rows.Err()
}

// DeleteDataset removes a dataset and its rows.
func (s *SQLiteStorage) DeleteDataset(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteDatasetTx(ctx, tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteDatasetTx(ctx context.Context, tx *sql.Tx, name string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_rows WHERE dataset = ?`, name); err != nil {
		return fmt.Errorf("failed to delete dataset rows: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted dataset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return nil
}
