// Package basket encodes transactions into a one-hot invoice by product matrix.
package basket

import (
	"sort"

	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// Matrix is a boolean invoice by product matrix. Rows and columns are sorted
// ascending, the order a pivot table produces.
type Matrix struct {
	rowIndex map[string]int
	colIndex map[string]int
	rows     []string
	cols     []string
	// baskets holds the sorted column indices present in each row.
	baskets [][]int
	// colCount is the number of rows containing each column.
	colCount []int
}

// Encode pivots transactions into a matrix. Repeated (invoice, product) pairs
// count once. Empty input yields a 0x0 matrix.
func Encode(txns []model.Transaction) *Matrix {
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})
	for _, t := range txns {
		rowSet[t.InvoiceID] = struct{}{}
		colSet[t.Product] = struct{}{}
	}

	m := &Matrix{
		rows:     sortedKeys(rowSet),
		cols:     sortedKeys(colSet),
		rowIndex: make(map[string]int, len(rowSet)),
		colIndex: make(map[string]int, len(colSet)),
	}
	for i, r := range m.rows {
		m.rowIndex[r] = i
	}
	for j, c := range m.cols {
		m.colIndex[c] = j
	}

	present := make([]map[int]struct{}, len(m.rows))
	for i := range present {
		present[i] = make(map[int]struct{})
	}
	for _, t := range txns {
		present[m.rowIndex[t.InvoiceID]][m.colIndex[t.Product]] = struct{}{}
	}

	m.baskets = make([][]int, len(m.rows))
	m.colCount = make([]int, len(m.cols))
	for i, set := range present {
		items := make([]int, 0, len(set))
		for j := range set {
			items = append(items, j)
			m.colCount[j]++
		}
		sort.Ints(items)
		m.baskets[i] = items
	}

	return m
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Shape returns the number of rows and columns.
func (m *Matrix) Shape() (rows, cols int) {
	return len(m.rows), len(m.cols)
}

// Rows returns the invoice ids in row order.
func (m *Matrix) Rows() []string {
	return append([]string(nil), m.rows...)
}

// Columns returns the product names in column order.
func (m *Matrix) Columns() []string {
	return append([]string(nil), m.cols...)
}

// Column returns the product name of column j.
func (m *Matrix) Column(j int) string {
	return m.cols[j]
}

// ColumnIndex returns the column of a product, or -1.
func (m *Matrix) ColumnIndex(product string) int {
	if j, ok := m.colIndex[product]; ok {
		return j
	}
	return -1
}

// Cell returns 1 if row i contains column j, else 0.
func (m *Matrix) Cell(i, j int) uint8 {
	items := m.baskets[i]
	k := sort.SearchInts(items, j)
	if k < len(items) && items[k] == j {
		return 1
	}
	return 0
}

// Has reports whether an invoice contains a product.
func (m *Matrix) Has(invoice, product string) bool {
	i, ok := m.rowIndex[invoice]
	if !ok {
		return false
	}
	j, ok := m.colIndex[product]
	if !ok {
		return false
	}
	return m.Cell(i, j) == 1
}

// Basket returns the sorted column indices present in row i.
func (m *Matrix) Basket(i int) []int {
	return m.baskets[i]
}

// ColumnSupport is the fraction of rows containing column j.
func (m *Matrix) ColumnSupport(j int) float64 {
	if len(m.rows) == 0 {
		return 0
	}
	return float64(m.colCount[j]) / float64(len(m.rows))
}

// Support is the fraction of rows containing every item of set.
// Unknown products give zero support; the empty set has support 1.
func (m *Matrix) Support(set model.ItemSet) float64 {
	if len(m.rows) == 0 {
		return 0
	}
	cols := make([]int, 0, set.Len())
	for _, item := range set.Items() {
		j := m.ColumnIndex(item)
		if j < 0 {
			return 0
		}
		cols = append(cols, j)
	}
	sort.Ints(cols)

	count := 0
	for _, basket := range m.baskets {
		if ContainsAll(basket, cols) {
			count++
		}
	}
	return float64(count) / float64(len(m.rows))
}

// ContainsAll reports whether sorted haystack includes every sorted needle.
func ContainsAll(haystack, needles []int) bool {
	k := 0
	for _, n := range needles {
		for k < len(haystack) && haystack[k] < n {
			k++
		}
		if k == len(haystack) || haystack[k] != n {
			return false
		}
		k++
	}
	return true
}
