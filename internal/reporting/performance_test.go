package reporting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

func TestBuildPerformanceQueryMonthlyBuckets(t *testing.T) {
	query, args, err := buildPerformanceQuery(provider.NameByBit, provider.TradingCategoryLinear, provider.AggregationPeriodMonth, nil)
	require.NoError(t, err)
	require.Len(t, args, 2)
	require.Equal(t, "BYBIT", args[0])
	require.Equal(t, "linear", args[1])

	require.Contains(t, query, "EXTRACT(YEAR FROM created_at)::int AS year")
	require.Contains(t, query, "EXTRACT(MONTH FROM created_at)::int AS month")
	require.Contains(t, query, "0 AS week")
	require.Contains(t, query, "0 AS day")
	require.Contains(t, query, "GROUP BY instrument_name, year, month")
	require.Contains(t, query, "ORDER BY instrument_name, year, month")
	require.NotContains(t, query, "ANY($3)")
}

func TestBuildPerformanceQueryYearlyBuckets(t *testing.T) {
	query, _, err := buildPerformanceQuery(provider.NameByBit, provider.TradingCategoryLinear, provider.AggregationPeriodYear, nil)
	require.NoError(t, err)
	require.Contains(t, query, "GROUP BY instrument_name, year\n")
	require.Contains(t, query, "0 AS month")
	require.NotContains(t, query, "EXTRACT(MONTH")
}

func TestBuildPerformanceQueryDailyBuckets(t *testing.T) {
	query, _, err := buildPerformanceQuery(provider.NameByBit, provider.TradingCategoryLinear, provider.AggregationPeriodDay, nil)
	require.NoError(t, err)
	require.Contains(t, query, "EXTRACT(DAY FROM created_at)::int AS day")
	require.Contains(t, query, "GROUP BY instrument_name, year, month, day")
}

func TestBuildPerformanceQueryFiltersSymbols(t *testing.T) {
	query, args, err := buildPerformanceQuery(provider.NameByBit, provider.TradingCategoryLinear, provider.AggregationPeriodWeek, []string{"BTCUSDT", "ETHUSDT"})
	require.NoError(t, err)
	require.Len(t, args, 3)
	require.Contains(t, query, "AND instrument_name = ANY($3)")
}

func TestBuildPerformanceQueryRejectsUnknownPeriod(t *testing.T) {
	_, _, err := buildPerformanceQuery(provider.NameByBit, provider.TradingCategoryLinear, provider.AggregationPeriod("quarter"), nil)
	require.Error(t, err)
}
