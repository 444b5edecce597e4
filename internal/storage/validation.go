package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrInvalidDatasetName = errors.New("invalid dataset name")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// maxDatasetName bounds dataset names so they stay usable as CLI arguments.
const maxDatasetName = 128

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateDatasetName(name string) error {
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidDatasetName, name)
	}
	if len(name) > maxDatasetName {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidDatasetName, maxDatasetName)
	}
	return nil
}

// validateTransactions requires both fields on every row. An empty slice
// is a valid (empty) dataset.
func validateTransactions(transactions []model.Transaction) error {
	for i, txn := range transactions {
		if strings.TrimSpace(txn.InvoiceID) == "" {
			return fmt.Errorf("%w at index %d: missing invoice id", ErrInvalidTransaction, i)
		}
		if strings.TrimSpace(txn.Product) == "" {
			return fmt.Errorf("%w at index %d: missing product", ErrInvalidTransaction, i)
		}
	}
	return nil
}
