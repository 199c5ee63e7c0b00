package patterns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/model"
)

func TestDetectSeasonal_TravelJulySpike(t *testing.T) {
	// Six month buckets averaging R$200 with a July spike to R$900.
	var txs []model.TransactionRecord
	for _, year := range []int{2023, 2024} {
		for m := time.February; m <= time.June; m++ {
			txs = append(txs, expense("30.00", "Travel", date(year, m, 15)))
		}
		txs = append(txs, expense("450.00", "Travel", date(year, time.July, 15)))
	}

	now := date(2024, 12, 20)
	found := DetectSeasonal(txs, now)
	require.Len(t, found, 1)

	p := found[0]
	assert.Equal(t, "Travel", p.Category)
	assert.Equal(t, "Yearly", p.PatternType)
	assert.Equal(t, []string{"July"}, p.PeakMonths)
	assert.InDelta(t, 350.0, p.AverageVariation, 0.01)
	assert.Equal(t, date(2025, 7, 1), p.NextPeakDate)
	assert.Contains(t, p.Recommendation, "July")
	assert.Contains(t, p.Recommendation, "Travel")
	assert.Contains(t, p.Recommendation, "700")
}

func TestDetectSeasonal_RequiresThreeMonths(t *testing.T) {
	txs := []model.TransactionRecord{
		expense("100.00", "Gifts", date(2024, 11, 10)),
		expense("900.00", "Gifts", date(2024, 12, 10)),
	}

	assert.Empty(t, DetectSeasonal(txs, date(2025, 1, 1)))
}

func TestDetectSeasonal_NoPeaks(t *testing.T) {
	txs := []model.TransactionRecord{
		expense("100.00", "Groceries", date(2024, 1, 10)),
		expense("110.00", "Groceries", date(2024, 2, 10)),
		expense("105.00", "Groceries", date(2024, 3, 10)),
	}

	assert.Empty(t, DetectSeasonal(txs, date(2024, 6, 1)))
}

func TestDetectSeasonal_PeakThisYear(t *testing.T) {
	var txs []model.TransactionRecord
	for m := time.January; m <= time.June; m++ {
		amount := "100.00"
		if m == time.May {
			amount = "800.00"
		}
		txs = append(txs, expense(amount, "Gifts", date(2025, m, 10)))
	}

	found := DetectSeasonal(txs, date(2025, 2, 1))
	require.Len(t, found, 1)
	assert.Equal(t, date(2025, 5, 1), found[0].NextPeakDate)
}

func TestDetectSeasonal_QuarterlyWhenManyPeaks(t *testing.T) {
	var txs []model.TransactionRecord
	for m := time.January; m <= time.December; m++ {
		amount := "10.00"
		switch m {
		case time.March, time.June, time.September, time.December:
			amount = "500.00"
		}
		txs = append(txs, expense(amount, "Taxes", date(2024, m, 10)))
	}

	found := DetectSeasonal(txs, date(2025, 1, 1))
	require.Len(t, found, 1)
	assert.Equal(t, "Quarterly", found[0].PatternType)
	assert.Len(t, found[0].PeakMonths, 4)
}
