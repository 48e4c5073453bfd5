package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ PortfolioTransfersModel = (*defaultPortfolioTransfersModel)(nil)

type (
	// PortfolioTransfersModel manages the portfolio_transfers table.
	PortfolioTransfersModel interface {
		Insert(ctx context.Context, data *PortfolioTransfer) (sql.Result, error)
		ExistsByTransferId(ctx context.Context, transferId string) (bool, error)
		LatestNetworkDatetime(ctx context.Context, provider string) (*time.Time, error)
	}

	defaultPortfolioTransfersModel struct {
		conn sqlx.SqlConn
	}

	// PortfolioTransfer is one row of the portfolio_transfers table.
	PortfolioTransfer struct {
		Id              int64           `db:"id"`
		TransferId      string          `db:"transfer_id"`
		Provider        string          `db:"provider"`
		Currency        string          `db:"currency"`
		Type            string          `db:"type"`
		Status          string          `db:"status"`
		FromWalletType  string          `db:"from_wallet_type"`
		ToWalletType    string          `db:"to_wallet_type"`
		Amount          decimal.Decimal `db:"amount"`
		NetworkDatetime time.Time       `db:"network_datetime"`
		CreatedAt       time.Time       `db:"created_at"`
	}
)

// NewPortfolioTransfersModel returns a model for the portfolio_transfers table.
func NewPortfolioTransfersModel(conn sqlx.SqlConn) PortfolioTransfersModel {
	return &defaultPortfolioTransfersModel{conn: conn}
}

func (m *defaultPortfolioTransfersModel) Insert(ctx context.Context, data *PortfolioTransfer) (sql.Result, error) {
	query := `INSERT INTO portfolio_transfers
(transfer_id, provider, currency, type, status, from_wallet_type, to_wallet_type, amount, network_datetime, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`
	result, err := m.conn.ExecCtx(ctx, query,
		data.TransferId, data.Provider, data.Currency, data.Type, data.Status,
		data.FromWalletType, data.ToWalletType, data.Amount, data.NetworkDatetime)
	if err != nil {
		return nil, fmt.Errorf("portfolio_transfers.Insert: %w", err)
	}
	return result, nil
}

func (m *defaultPortfolioTransfersModel) ExistsByTransferId(ctx context.Context, transferId string) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM portfolio_transfers WHERE transfer_id = $1`
	if err := m.conn.QueryRowCtx(ctx, &count, query, transferId); err != nil {
		return false, fmt.Errorf("portfolio_transfers.ExistsByTransferId: %w", err)
	}
	return count > 0, nil
}

func (m *defaultPortfolioTransfersModel) LatestNetworkDatetime(ctx context.Context, provider string) (*time.Time, error) {
	var latest sql.NullTime
	query := `SELECT MAX(network_datetime) FROM portfolio_transfers WHERE provider = $1`
	if err := m.conn.QueryRowCtx(ctx, &latest, query, provider); err != nil {
		return nil, fmt.Errorf("portfolio_transfers.LatestNetworkDatetime: %w", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	value := latest.Time
	return &value, nil
}
