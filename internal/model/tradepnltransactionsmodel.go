package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ TradePnLTransactionsModel = (*defaultTradePnLTransactionsModel)(nil)

type (
	// TradePnLTransactionsModel manages the trade_pnl_transactions table.
	TradePnLTransactionsModel interface {
		Insert(ctx context.Context, data *TradePnLTransaction) (sql.Result, error)
		ExistsByOrderIdAndCreatedAt(ctx context.Context, orderId string, createdAt time.Time) (bool, error)
		LatestCreatedAt(ctx context.Context, instrumentName, provider string) (*time.Time, error)
	}

	defaultTradePnLTransactionsModel struct {
		conn sqlx.SqlConn
	}

	// TradePnLTransaction is one row of the trade_pnl_transactions table.
	// TradeOrderId references the owning order row.
	TradePnLTransaction struct {
		Id                int64           `db:"id"`
		InstrumentName    string          `db:"instrument_name"`
		TradeOrderId      int64           `db:"trade_order_id"`
		Provider          string          `db:"provider"`
		TradingCategory   string          `db:"trading_category"`
		Side              string          `db:"side"`
		Quantity          decimal.Decimal `db:"quantity"`
		OrderPrice        decimal.Decimal `db:"order_price"`
		OrderType         string          `db:"order_type"`
		ClosedSize        decimal.Decimal `db:"closed_size"`
		TotalEntryValue   decimal.Decimal `db:"total_entry_value"`
		AverageEntryPrice decimal.Decimal `db:"average_entry_price"`
		TotalExitValue    decimal.Decimal `db:"total_exit_value"`
		AverageExitPrice  decimal.Decimal `db:"average_exit_price"`
		ClosedPnL         decimal.Decimal `db:"closed_pnl"`
		CreatedAt         time.Time       `db:"created_at"`
	}
)

// NewTradePnLTransactionsModel returns a model for the trade_pnl_transactions table.
func NewTradePnLTransactionsModel(conn sqlx.SqlConn) TradePnLTransactionsModel {
	return &defaultTradePnLTransactionsModel{conn: conn}
}

func (m *defaultTradePnLTransactionsModel) Insert(ctx context.Context, data *TradePnLTransaction) (sql.Result, error) {
	query := `INSERT INTO trade_pnl_transactions
(instrument_name, trade_order_id, provider, trading_category, side, quantity, order_price,
 order_type, closed_size, total_entry_value, average_entry_price, total_exit_value,
 average_exit_price, closed_pnl, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	result, err := m.conn.ExecCtx(ctx, query,
		data.InstrumentName, data.TradeOrderId, data.Provider, data.TradingCategory, data.Side,
		data.Quantity, data.OrderPrice, data.OrderType, data.ClosedSize, data.TotalEntryValue,
		data.AverageEntryPrice, data.TotalExitValue, data.AverageExitPrice, data.ClosedPnL,
		data.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("trade_pnl_transactions.Insert: %w", err)
	}
	return result, nil
}

func (m *defaultTradePnLTransactionsModel) ExistsByOrderIdAndCreatedAt(ctx context.Context, orderId string, createdAt time.Time) (bool, error) {
	var count int
	query := `SELECT COUNT(1)
FROM trade_pnl_transactions pnl
JOIN trade_orders o ON o.id = pnl.trade_order_id
WHERE o.order_id = $1 AND pnl.created_at = $2`
	if err := m.conn.QueryRowCtx(ctx, &count, query, orderId, createdAt); err != nil {
		return false, fmt.Errorf("trade_pnl_transactions.ExistsByOrderIdAndCreatedAt: %w", err)
	}
	return count > 0, nil
}

func (m *defaultTradePnLTransactionsModel) LatestCreatedAt(ctx context.Context, instrumentName, provider string) (*time.Time, error) {
	var latest sql.NullTime
	query := `SELECT MAX(created_at) FROM trade_pnl_transactions WHERE instrument_name = $1 AND provider = $2`
	if err := m.conn.QueryRowCtx(ctx, &latest, query, instrumentName, provider); err != nil {
		return nil, fmt.Errorf("trade_pnl_transactions.LatestCreatedAt: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	value := latest.Time
	return &value, nil
}
