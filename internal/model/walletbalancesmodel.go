package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ WalletBalancesModel = (*defaultWalletBalancesModel)(nil)

type (
	// WalletBalancesModel manages the wallet_balance_snapshots table. The
	// table is append-only; every import adds a new snapshot row.
	WalletBalancesModel interface {
		Insert(ctx context.Context, data *WalletBalanceSnapshot) (sql.Result, error)
		FindLatestByWallet(ctx context.Context, provider, walletType, currency string) (*WalletBalanceSnapshot, error)
	}

	defaultWalletBalancesModel struct {
		conn sqlx.SqlConn
	}

	// WalletBalanceSnapshot is one row of the wallet_balance_snapshots table.
	WalletBalanceSnapshot struct {
		Id         int64           `db:"id"`
		Provider   string          `db:"provider"`
		WalletType string          `db:"wallet_type"`
		Currency   string          `db:"currency"`
		Amount     decimal.Decimal `db:"amount"`
		CreatedAt  time.Time       `db:"created_at"`
	}
)

// NewWalletBalancesModel returns a model for the wallet_balance_snapshots table.
func NewWalletBalancesModel(conn sqlx.SqlConn) WalletBalancesModel {
	return &defaultWalletBalancesModel{conn: conn}
}

func (m *defaultWalletBalancesModel) Insert(ctx context.Context, data *WalletBalanceSnapshot) (sql.Result, error) {
	query := `INSERT INTO wallet_balance_snapshots (provider, wallet_type, currency, amount, created_at)
VALUES ($1, $2, $3, $4, NOW())`
	result, err := m.conn.ExecCtx(ctx, query, data.Provider, data.WalletType, data.Currency, data.Amount)
	if err != nil {
		return nil, fmt.Errorf("wallet_balance_snapshots.Insert: %w", err)
	}
	return result, nil
}

func (m *defaultWalletBalancesModel) FindLatestByWallet(ctx context.Context, provider, walletType, currency string) (*WalletBalanceSnapshot, error) {
	var row WalletBalanceSnapshot
	query := `SELECT id, provider, wallet_type, currency, amount, created_at
FROM wallet_balance_snapshots
WHERE provider = $1 AND wallet_type = $2 AND currency = $3
ORDER BY created_at DESC LIMIT 1`
	err := m.conn.QueryRowCtx(ctx, &row, query, provider, walletType, currency)
	if err != nil {
		if err == sqlx.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("wallet_balance_snapshots.FindLatestByWallet: %w", err)
	}
	return &row, nil
}
