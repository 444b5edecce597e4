package testutil

import (
	"strings"

	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// Fixture is a named transaction relation for tests.
type Fixture interface {
	Name() string
	Description() string
	Transactions() []model.Transaction
}

type fixture struct {
	name        string
	description string
	baskets     [][2]string
}

func (f *fixture) Name() string        { return f.name }
func (f *fixture) Description() string { return f.description }

func (f *fixture) Transactions() []model.Transaction {
	txns := make([]model.Transaction, len(f.baskets))
	for i, b := range f.baskets {
		txns[i] = model.Transaction{InvoiceID: b[0], Product: b[1]}
	}
	return txns
}

// Predefined fixtures.
var (
	// FixtureScenario has supports A=1.0, B=0.667, {A,B}=0.667.
	FixtureScenario Fixture = &fixture{
		name:        "scenario",
		description: "Three invoices over two products",
		baskets: [][2]string{
			{"I1", "A"}, {"I1", "B"},
			{"I2", "A"}, {"I2", "B"},
			{"I3", "A"},
		},
	}

	// FixtureGroceries is the classic five-basket beer and diapers example.
	FixtureGroceries Fixture = &fixture{
		name:        "groceries",
		description: "Five grocery baskets where beer implies diapers",
		baskets: [][2]string{
			{"1", "bread"}, {"1", "milk"},
			{"2", "bread"}, {"2", "diapers"}, {"2", "beer"}, {"2", "eggs"},
			{"3", "milk"}, {"3", "diapers"}, {"3", "beer"}, {"3", "cola"},
			{"4", "bread"}, {"4", "milk"}, {"4", "diapers"}, {"4", "beer"},
			{"5", "bread"}, {"5", "milk"}, {"5", "diapers"}, {"5", "cola"},
		},
	}
)

// CSV renders a fixture as an invoice_id,product upload.
func CSV(f Fixture) string {
	var b strings.Builder
	b.WriteString("invoice_id,product\n")
	for _, t := range f.Transactions() {
		b.WriteString(t.InvoiceID)
		b.WriteByte(',')
		b.WriteString(t.Product)
		b.WriteByte('\n')
	}
	return b.String()
}

// SurveyCSV is a small survey export with rating and segment columns.
const SurveyCSV = `free_text,rating,segment
Great support team,5,retail
Terrible delivery and rude support,1,retail
The package arrived,,wholesale
Love the new app! Great support,4,wholesale
`
