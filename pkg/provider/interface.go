package provider

import (
	"context"
	"time"
)

// Provider exposes exchange data capabilities in a provider-agnostic fashion.
// Implementations translate canonical enums to their own wire values, call
// their signed REST client, validate responses and map them to canonical
// messages. All failures surface as *Error (or *UnsupportedCategoryError for
// capability restrictions).
type Provider interface {
	Name() Name

	GetMarketInstruments(ctx context.Context, query MarketInstrumentsQuery) ([]MarketInstrument, error)
	GetTradePositions(ctx context.Context, query TradePositionsQuery) ([]TradePosition, error)
	GetTradePositionsPnL(ctx context.Context, query TradePnLQuery) ([]TradePnLPosition, error)
	GetTradeOrders(ctx context.Context, query TradeOrdersQuery) ([]TradeOrder, error)
	GetTradeExecutions(ctx context.Context, query TradeExecutionsQuery) ([]TradeExecution, error)
	GetWalletBalances(ctx context.Context, query WalletBalancesQuery) ([]WalletBalance, error)
	GetWalletInternalTransfers(ctx context.Context, query WalletTransfersQuery) ([]WalletTransfer, error)
}

// MarketInstrumentsQuery filters the instrument catalog. Symbol is optional.
type MarketInstrumentsQuery struct {
	TradingCategory TradingCategory
	Symbol          string
	Depth           int
	Limit           int
}

// TradePositionsQuery filters open positions for one instrument.
type TradePositionsQuery struct {
	TradingCategory TradingCategory
	Symbol          string
	Depth           int
	Limit           int
}

// TradePnLQuery filters closed-position PnL records. From and To bound the
// record creation time; both are optional but travel together.
type TradePnLQuery struct {
	TradingCategory TradingCategory
	Symbol          string
	Depth           int
	Limit           int
	From            *time.Time
	To              *time.Time
}

// TradeOrdersQuery filters historical orders. OrderID and Status are optional.
type TradeOrdersQuery struct {
	TradingCategory TradingCategory
	Symbol          string
	OrderID         string
	Status          *OrderStatus
	Depth           int
	Limit           int
}

// TradeExecutionsQuery filters executions. ExecutionType, OrderID and the
// time bounds are optional.
type TradeExecutionsQuery struct {
	TradingCategory TradingCategory
	Symbol          string
	OrderID         string
	ExecutionType   *ExecutionType
	Depth           int
	Limit           int
	From            *time.Time
	To              *time.Time
}

// WalletBalancesQuery selects one wallet, optionally narrowed to a currency.
type WalletBalancesQuery struct {
	WalletType WalletType
	Currency   string
}

// WalletTransfersQuery filters internal transfers. The provider returns
// transfers for the whole account; wallet-type scoping happens downstream.
type WalletTransfersQuery struct {
	Currency string
	Depth    int
	Limit    int
	From     *time.Time
	To       *time.Time
}
