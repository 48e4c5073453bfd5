package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/cache"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// Service renders portfolio read models from the persisted import tables.
type Service struct {
	conn  sqlx.SqlConn
	redis *redis.Redis
	ttl   cache.TTLSet
}

// NewService constructs a reporting service. The redis client is optional;
// without one every report is computed from the database.
func NewService(conn sqlx.SqlConn, rds *redis.Redis, ttl cache.TTLSet) *Service {
	return &Service{
		conn:  conn,
		redis: rds,
		ttl:   ttl,
	}
}

// TradePositionPerformance rolls up closed PnL per instrument into time
// buckets of the requested aggregation period. An empty symbols slice covers
// every instrument of the provider and category.
func (s *Service) TradePositionPerformance(ctx context.Context, providerName provider.Name, category provider.TradingCategory, period provider.AggregationPeriod, symbols []string) ([]provider.TradePositionPerformance, error) {
	cacheKey := cache.PerformanceKey(providerName.String(), category.String(), period.String(), strings.Join(symbols, ","))
	if cached, ok := s.cachedReport(ctx, cacheKey); ok {
		return cached, nil
	}

	query, args, err := buildPerformanceQuery(providerName, category, period, symbols)
	if err != nil {
		return nil, err
	}

	var rows []performanceRow
	if err := s.conn.QueryRowsCtx(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("reporting.TradePositionPerformance query: %w", err)
	}

	report := make([]provider.TradePositionPerformance, 0, len(rows))
	for _, row := range rows {
		report = append(report, provider.TradePositionPerformance{
			InstrumentName:  row.InstrumentName,
			Provider:        providerName,
			TradingCategory: category,
			PnL:             row.PnL,
			Year:            row.Year,
			Month:           row.Month,
			Week:            row.Week,
			Day:             row.Day,
		})
	}

	s.storeReport(ctx, cacheKey, report)
	return report, nil
}

// buildPerformanceQuery assembles the rollup statement. Buckets the period
// does not reach are selected as constant zero so every period shares one row
// shape.
func buildPerformanceQuery(providerName provider.Name, category provider.TradingCategory, period provider.AggregationPeriod, symbols []string) (string, []any, error) {
	var selects, groups []string
	switch period {
	case provider.AggregationPeriodYear:
		selects = []string{yearExpr, "0 AS month", "0 AS week", "0 AS day"}
		groups = []string{"year"}
	case provider.AggregationPeriodMonth:
		selects = []string{yearExpr, monthExpr, "0 AS week", "0 AS day"}
		groups = []string{"year", "month"}
	case provider.AggregationPeriodWeek:
		selects = []string{yearExpr, "0 AS month", weekExpr, "0 AS day"}
		groups = []string{"year", "week"}
	case provider.AggregationPeriodDay:
		selects = []string{yearExpr, monthExpr, "0 AS week", dayExpr}
		groups = []string{"year", "month", "day"}
	default:
		return "", nil, fmt.Errorf("reporting: unsupported aggregation period %q", period)
	}

	args := []any{providerName.String(), category.String()}
	var symbolClause string
	if len(symbols) > 0 {
		symbolClause = "AND instrument_name = ANY($3)"
		args = append(args, pq.Array(symbols))
	}

	query := fmt.Sprintf(`
SELECT
    instrument_name,
    %s,
    SUM(closed_pnl) AS pnl
FROM trade_pnl_transactions
WHERE provider = $1 AND trading_category = $2
%s
GROUP BY instrument_name, %s
ORDER BY instrument_name, %s`,
		strings.Join(selects, ",\n    "),
		symbolClause,
		strings.Join(groups, ", "),
		strings.Join(groups, ", "))
	return query, args, nil
}

const (
	yearExpr  = "EXTRACT(YEAR FROM created_at)::int AS year"
	monthExpr = "EXTRACT(MONTH FROM created_at)::int AS month"
	weekExpr  = "EXTRACT(WEEK FROM created_at)::int AS week"
	dayExpr   = "EXTRACT(DAY FROM created_at)::int AS day"
)

type performanceRow struct {
	InstrumentName string          `db:"instrument_name"`
	Year           int             `db:"year"`
	Month          int             `db:"month"`
	Week           int             `db:"week"`
	Day            int             `db:"day"`
	PnL            decimal.Decimal `db:"pnl"`
}

func (s *Service) cachedReport(ctx context.Context, key string) ([]provider.TradePositionPerformance, bool) {
	if s.redis == nil {
		return nil, false
	}
	payload, err := s.redis.GetCtx(ctx, key)
	if err != nil || payload == "" {
		return nil, false
	}
	var report []provider.TradePositionPerformance
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		logx.WithContext(ctx).Errorf("unable to decode cached performance report (key=%s): %v", key, err)
		return nil, false
	}
	return report, true
}

func (s *Service) storeReport(ctx context.Context, key string, report []provider.TradePositionPerformance) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		logx.WithContext(ctx).Errorf("unable to encode performance report (key=%s): %v", key, err)
		return
	}
	ttl := cache.PerformanceTTL(s.ttl)
	if err := s.redis.SetexCtx(ctx, key, string(payload), int(ttl.Seconds())); err != nil {
		logx.WithContext(ctx).Errorf("unable to cache performance report (key=%s): %v", key, err)
	}
}
