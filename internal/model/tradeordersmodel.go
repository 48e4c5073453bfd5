package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ TradeOrdersModel = (*defaultTradeOrdersModel)(nil)

type (
	// TradeOrdersModel manages the trade_orders table.
	TradeOrdersModel interface {
		Insert(ctx context.Context, data *TradeOrder) (sql.Result, error)
		ExistsByOrderId(ctx context.Context, orderId string) (bool, error)
		FindOneByOrderId(ctx context.Context, orderId string) (*TradeOrder, error)
		LatestCreatedAt(ctx context.Context, instrumentName, provider string) (*time.Time, error)
	}

	defaultTradeOrdersModel struct {
		conn sqlx.SqlConn
	}

	// TradeOrder is one row of the trade_orders table. CreatedAt and
	// UpdatedAt carry the exchange-reported timestamps.
	TradeOrder struct {
		Id                    int64           `db:"id"`
		InstrumentName        string          `db:"instrument_name"`
		OrderId               string          `db:"order_id"`
		Provider              string          `db:"provider"`
		TradingCategory       string          `db:"trading_category"`
		Side                  string          `db:"side"`
		Quantity              decimal.Decimal `db:"quantity"`
		Price                 decimal.Decimal `db:"price"`
		AveragePrice          decimal.Decimal `db:"average_price"`
		OrderType             string          `db:"order_type"`
		OrderStatus           string          `db:"order_status"`
		TotalExecutedValue    decimal.Decimal `db:"total_executed_value"`
		TotalExecutedQuantity decimal.Decimal `db:"total_executed_quantity"`
		TotalExecutedFee      decimal.Decimal `db:"total_executed_fee"`
		CreatedAt             time.Time       `db:"created_at"`
		UpdatedAt             time.Time       `db:"updated_at"`
	}
)

// NewTradeOrdersModel returns a model for the trade_orders table.
func NewTradeOrdersModel(conn sqlx.SqlConn) TradeOrdersModel {
	return &defaultTradeOrdersModel{conn: conn}
}

func (m *defaultTradeOrdersModel) Insert(ctx context.Context, data *TradeOrder) (sql.Result, error) {
	query := `INSERT INTO trade_orders
(instrument_name, order_id, provider, trading_category, side, quantity, price, average_price,
 order_type, order_status, total_executed_value, total_executed_quantity, total_executed_fee,
 created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	result, err := m.conn.ExecCtx(ctx, query,
		data.InstrumentName, data.OrderId, data.Provider, data.TradingCategory, data.Side,
		data.Quantity, data.Price, data.AveragePrice, data.OrderType, data.OrderStatus,
		data.TotalExecutedValue, data.TotalExecutedQuantity, data.TotalExecutedFee,
		data.CreatedAt, data.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("trade_orders.Insert: %w", err)
	}
	return result, nil
}

func (m *defaultTradeOrdersModel) ExistsByOrderId(ctx context.Context, orderId string) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM trade_orders WHERE order_id = $1`
	if err := m.conn.QueryRowCtx(ctx, &count, query, orderId); err != nil {
		return false, fmt.Errorf("trade_orders.ExistsByOrderId: %w", err)
	}
	return count > 0, nil
}

func (m *defaultTradeOrdersModel) FindOneByOrderId(ctx context.Context, orderId string) (*TradeOrder, error) {
	var row TradeOrder
	query := `SELECT id, instrument_name, order_id, provider, trading_category, side, quantity, price,
average_price, order_type, order_status, total_executed_value, total_executed_quantity,
total_executed_fee, created_at, updated_at
FROM trade_orders WHERE order_id = $1 LIMIT 1`
	err := m.conn.QueryRowCtx(ctx, &row, query, orderId)
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("trade_orders.FindOneByOrderId: %w", err)
	}
}

func (m *defaultTradeOrdersModel) LatestCreatedAt(ctx context.Context, instrumentName, provider string) (*time.Time, error) {
	var latest sql.NullTime
	query := `SELECT MAX(created_at) FROM trade_orders WHERE instrument_name = $1 AND provider = $2`
	if err := m.conn.QueryRowCtx(ctx, &latest, query, instrumentName, provider); err != nil {
		return nil, fmt.Errorf("trade_orders.LatestCreatedAt: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	value := latest.Time
	return &value, nil
}
