package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ MarketInstrumentsModel = (*defaultMarketInstrumentsModel)(nil)

type (
	// MarketInstrumentsModel manages the market_instruments table.
	MarketInstrumentsModel interface {
		Insert(ctx context.Context, data *MarketInstrument) (sql.Result, error)
		ExistsByNameAndProvider(ctx context.Context, name, provider string) (bool, error)
		FindAllByProviderAndCategory(ctx context.Context, provider, tradingCategory string) ([]MarketInstrument, error)
	}

	defaultMarketInstrumentsModel struct {
		conn sqlx.SqlConn
	}

	// MarketInstrument is one row of the market_instruments table.
	MarketInstrument struct {
		Id              int64     `db:"id"`
		Name            string    `db:"name"`
		Status          string    `db:"status"`
		Provider        string    `db:"provider"`
		TradingCategory string    `db:"trading_category"`
		CreatedAt       time.Time `db:"created_at"`
		UpdatedAt       time.Time `db:"updated_at"`
	}
)

// NewMarketInstrumentsModel returns a model for the market_instruments table.
func NewMarketInstrumentsModel(conn sqlx.SqlConn) MarketInstrumentsModel {
	return &defaultMarketInstrumentsModel{conn: conn}
}

func (m *defaultMarketInstrumentsModel) Insert(ctx context.Context, data *MarketInstrument) (sql.Result, error) {
	query := `INSERT INTO market_instruments (name, status, provider, trading_category, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())`
	result, err := m.conn.ExecCtx(ctx, query, data.Name, data.Status, data.Provider, data.TradingCategory)
	if err != nil {
		return nil, fmt.Errorf("market_instruments.Insert: %w", err)
	}
	return result, nil
}

func (m *defaultMarketInstrumentsModel) ExistsByNameAndProvider(ctx context.Context, name, provider string) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM market_instruments WHERE name = $1 AND provider = $2`
	if err := m.conn.QueryRowCtx(ctx, &count, query, name, provider); err != nil {
		return false, fmt.Errorf("market_instruments.ExistsByNameAndProvider: %w", err)
	}
	return count > 0, nil
}

func (m *defaultMarketInstrumentsModel) FindAllByProviderAndCategory(ctx context.Context, provider, tradingCategory string) ([]MarketInstrument, error) {
	var rows []MarketInstrument
	query := `SELECT id, name, status, provider, trading_category, created_at, updated_at
FROM market_instruments
WHERE provider = $1 AND trading_category = $2
ORDER BY name`
	if err := m.conn.QueryRowsCtx(ctx, &rows, query, provider, tradingCategory); err != nil {
		return nil, fmt.Errorf("market_instruments.FindAllByProviderAndCategory: %w", err)
	}
	return rows, nil
}
