package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PUSHPAK-96/cartwise/internal/loader"
)

func TestSetupTestDB(t *testing.T) {
	db := SetupTestDB(t, FixtureScenario, FixtureGroceries)

	list, err := db.Storage.ListDatasets(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "groceries", list[0].Name)
	assert.Equal(t, 5, list[0].Invoices)
	assert.Equal(t, "scenario", list[1].Name)
}

func TestCSVRoundTrip(t *testing.T) {
	txns, err := loader.LoadTransactions(strings.NewReader(CSV(FixtureGroceries)))
	require.NoError(t, err)
	assert.Equal(t, FixtureGroceries.Transactions(), txns)
}
