package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ TradeExecutionsModel = (*defaultTradeExecutionsModel)(nil)

type (
	// TradeExecutionsModel manages the trade_execution_transactions table.
	TradeExecutionsModel interface {
		Insert(ctx context.Context, data *TradeExecution) (sql.Result, error)
		ExistsByExecutionId(ctx context.Context, executionId string) (bool, error)
		LatestCreatedAt(ctx context.Context, instrumentName, provider, executionType string) (*time.Time, error)
	}

	defaultTradeExecutionsModel struct {
		conn sqlx.SqlConn
	}

	// TradeExecution is one row of the trade_execution_transactions table.
	// TradeOrderId is null for executions the exchange does not attribute to
	// an order (funding fees, settlements).
	TradeExecution struct {
		Id              int64           `db:"id"`
		InstrumentName  string          `db:"instrument_name"`
		TradeOrderId    sql.NullInt64   `db:"trade_order_id"`
		ExecutionId     string          `db:"execution_id"`
		Provider        string          `db:"provider"`
		TradingCategory string          `db:"trading_category"`
		Side            string          `db:"side"`
		ExecutionFee    decimal.Decimal `db:"execution_fee"`
		ExecutionPrice  decimal.Decimal `db:"execution_price"`
		Quantity        decimal.Decimal `db:"quantity"`
		ExecutionType   string          `db:"execution_type"`
		ExecutionValue  decimal.Decimal `db:"execution_value"`
		IsMaker         bool            `db:"is_maker"`
		CreatedAt       time.Time       `db:"created_at"`
	}
)

// NewTradeExecutionsModel returns a model for the trade_execution_transactions table.
func NewTradeExecutionsModel(conn sqlx.SqlConn) TradeExecutionsModel {
	return &defaultTradeExecutionsModel{conn: conn}
}

func (m *defaultTradeExecutionsModel) Insert(ctx context.Context, data *TradeExecution) (sql.Result, error) {
	query := `INSERT INTO trade_execution_transactions
(instrument_name, trade_order_id, execution_id, provider, trading_category, side,
 execution_fee, execution_price, quantity, execution_type, execution_value, is_maker, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	result, err := m.conn.ExecCtx(ctx, query,
		data.InstrumentName, data.TradeOrderId, data.ExecutionId, data.Provider,
		data.TradingCategory, data.Side, data.ExecutionFee, data.ExecutionPrice,
		data.Quantity, data.ExecutionType, data.ExecutionValue, data.IsMaker, data.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("trade_execution_transactions.Insert: %w", err)
	}
	return result, nil
}

func (m *defaultTradeExecutionsModel) ExistsByExecutionId(ctx context.Context, executionId string) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM trade_execution_transactions WHERE execution_id = $1`
	if err := m.conn.QueryRowCtx(ctx, &count, query, executionId); err != nil {
		return false, fmt.Errorf("trade_execution_transactions.ExistsByExecutionId: %w", err)
	}
	return count > 0, nil
}

func (m *defaultTradeExecutionsModel) LatestCreatedAt(ctx context.Context, instrumentName, provider, executionType string) (*time.Time, error) {
	var latest sql.NullTime
	query := `SELECT MAX(created_at) FROM trade_execution_transactions
WHERE instrument_name = $1 AND provider = $2 AND execution_type = $3`
	if err := m.conn.QueryRowCtx(ctx, &latest, query, instrumentName, provider, executionType); err != nil {
		return nil, fmt.Errorf("trade_execution_transactions.LatestCreatedAt: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	value := latest.Time
	return &value, nil
}
