// Package model defines the core data structures for the cartwise application.
package model

import (
	"crypto/sha256"
	"fmt"
)

// Transaction is one product line of one invoice in canonical long format.
type Transaction struct {
	InvoiceID string `json:"invoice_id"`
	Product   string `json:"product"`
}

// Fingerprint creates a stable hash of a transaction relation.
// Two relations with the same rows in the same order share a fingerprint.
func Fingerprint(transactions []Transaction) string {
	h := sha256.New()
	for _, t := range transactions {
		// Unit separators keep "a,b"+"c" distinct from "a"+"b,c".
		_, _ = fmt.Fprintf(h, "%s\x1f%s\x1e", t.InvoiceID, t.Product)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// BasketStats summarises a transaction relation.
type BasketStats struct {
	Invoices int `json:"n_invoices"`
	Products int `json:"n_products"`
	Rows     int `json:"n_rows"`
}

// ProductCount is the number of rows a product appears in.
type ProductCount struct {
	Product string `json:"product"`
	Count   int    `json:"count"`
}
