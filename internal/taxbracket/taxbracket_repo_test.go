package taxbracket_test

import (
	"context"
	"testing"

	"go-hris-payroll/internal/shared/testdb"
	"go-hris-payroll/internal/taxbracket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_UpsertAndFindByScope(t *testing.T) {
	db, _ := testdb.Open(t, &taxbracket.TaxBracket{})
	repo := taxbracket.NewRepository(db)
	ctx := context.Background()

	for _, b := range []taxbracket.TaxBracket{
		bracket("low", "0", "1000", "0.05", "0"),
		bracket("high", "1000", "5000", "0.10", "50"),
	} {
		b := b
		require.NoError(t, repo.Upsert(ctx, &b))
	}
	other := bracket("low", "0", "1000", "0.07", "0")
	other.TaxYear = 2025
	require.NoError(t, repo.Upsert(ctx, &other))

	updated := bracket("high", "1000", "5000", "0.125", "50")
	require.NoError(t, repo.Upsert(ctx, &updated))

	got, err := repo.FindByScope(ctx, taxbracket.Scope{CountryCode: "us", CurrencyCode: "usd", TaxYear: 2026})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "high", got[0].BracketName)
	assert.Equal(t, "0.125", got[0].TaxRate.String())
	assert.Equal(t, "low", got[1].BracketName)
}
