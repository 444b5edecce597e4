package model

import "time"

// Dataset describes a stored transaction relation.
type Dataset struct {
	ImportedAt  time.Time `json:"imported_at"`
	Name        string    `json:"name"`
	Fingerprint string    `json:"fingerprint"`
	BasketStats
}
