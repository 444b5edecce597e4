// Package loader normalizes tabular input into canonical transaction records.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PUSHPAK-96/cartwise/internal/common"
	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// Semantic roles the loader must locate.
const (
	RoleInvoice = "invoice/transaction id"
	RoleProduct = "product/item"
)

var (
	invoiceVocabulary = []string{"invoice", "bill", "order", "basket", "transaction"}
	productVocabulary = []string{"product", "item", "sku"}
)

// Columns holds the header positions chosen for each role.
type Columns struct {
	Invoice int
	Product int
}

// DetectColumns matches normalized headers against the role vocabularies.
// The last matching header wins for each role.
func DetectColumns(headers []string) (Columns, error) {
	cols := Columns{Invoice: -1, Product: -1}
	normalized := NormalizeHeaders(headers)

	for i, h := range normalized {
		if containsAny(h, invoiceVocabulary) {
			cols.Invoice = i
		}
		if containsAny(h, productVocabulary) {
			cols.Product = i
		}
	}

	if cols.Invoice < 0 || cols.Product < 0 {
		return cols, common.NewSchemaError(normalized, RoleInvoice, RoleProduct)
	}
	return cols, nil
}

// NormalizeHeaders trims and lower-cases header names.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// LoadTransactions reads comma-separated transactions from r.
// A zero-byte input yields an empty relation.
func LoadTransactions(r io.Reader) ([]model.Transaction, error) {
	return loadDelimited(r, ',')
}

// LoadTransactionsFile loads transactions from a .csv, .tsv, .txt or .xlsx file.
func LoadTransactionsFile(path string) ([]model.Transaction, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return loadWorkbook(path)
	}

	var delim rune
	switch ext {
	case ".csv", ".txt", "":
		delim = ','
	case ".tsv":
		delim = '\t'
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidFile, ext)
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open transactions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	txns, err := loadDelimited(f, delim)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded transactions", "path", path, "rows", len(txns))
	return txns, nil
}

func loadDelimited(r io.Reader, delim rune) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []model.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols, err := DetectColumns(headers)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, readErr)
		}
		rows = append(rows, record)
	}

	return Normalize(rows, cols), nil
}

// Normalize projects raw rows onto the detected columns. Rows with a missing
// invoice or product are dropped; products are trimmed.
func Normalize(rows [][]string, cols Columns) []model.Transaction {
	txns := make([]model.Transaction, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		invoice := cell(row, cols.Invoice)
		product := cell(row, cols.Product)
		if invoice == "" || product == "" {
			dropped++
			continue
		}
		txns = append(txns, model.Transaction{InvoiceID: invoice, Product: product})
	}

	if dropped > 0 {
		slog.Debug("Dropped rows with missing values", "dropped", dropped)
	}
	return txns
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Stats counts distinct invoices, distinct products and rows.
func Stats(txns []model.Transaction) model.BasketStats {
	invoices := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, t := range txns {
		invoices[t.InvoiceID] = struct{}{}
		products[t.Product] = struct{}{}
	}
	return model.BasketStats{
		Invoices: len(invoices),
		Products: len(products),
		Rows:     len(txns),
	}
}

// TopProducts returns the n most frequent products by row count.
// Ties keep the order in which products first appear.
func TopProducts(txns []model.Transaction, n int) []model.ProductCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, t := range txns {
		if _, seen := counts[t.Product]; !seen {
			order = append(order, t.Product)
		}
		counts[t.Product]++
	}

	out := make([]model.ProductCount, 0, len(order))
	for _, p := range order {
		out = append(out, model.ProductCount{Product: p, Count: counts[p]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
