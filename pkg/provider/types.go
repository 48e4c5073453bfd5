package provider

// Canonical domain messages produced by provider implementations and consumed
// by the importer. Shapes stay provider-agnostic so additional venues can be
// added without touching the persistence side. Monetary fields are
// arbitrary-precision decimals end to end; shopspring/decimal serializes them
// as JSON strings, which keeps the front-end wire format float-free.

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketInstrument is one tradeable symbol in a provider's catalog.
type MarketInstrument struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// TradePosition is an open derivative position.
type TradePosition struct {
	InstrumentName string          `json:"instrument_name"`
	Side           OrderSide       `json:"side"`
	Size           decimal.Decimal `json:"size"`
	Value          decimal.Decimal `json:"value"`
	UnrealisedPnL  decimal.Decimal `json:"unrealised_pnl"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TradeOrder is a historical order as reported by the provider.
type TradeOrder struct {
	InstrumentName        string          `json:"instrument_name"`
	OrderID               string          `json:"order_id"`
	Side                  OrderSide       `json:"side"`
	Quantity              decimal.Decimal `json:"quantity"`
	Price                 decimal.Decimal `json:"price"`
	AveragePrice          decimal.Decimal `json:"average_price"`
	Type                  string          `json:"type"`
	Status                OrderStatus     `json:"status"`
	TotalExecutedValue    decimal.Decimal `json:"total_executed_value"`
	TotalExecutedQuantity decimal.Decimal `json:"total_executed_quantity"`
	TotalExecutedFee      decimal.Decimal `json:"total_executed_fee"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// TradeExecution is a single fill (or funding/settlement event) against an
// order. OrderID may be empty for events the provider does not attribute.
type TradeExecution struct {
	InstrumentName string          `json:"instrument_name"`
	OrderID        string          `json:"order_id,omitempty"`
	ExecutionID    string          `json:"execution_id"`
	Side           OrderSide       `json:"side"`
	Fee            decimal.Decimal `json:"fee"`
	Price          decimal.Decimal `json:"price"`
	Quantity       decimal.Decimal `json:"quantity"`
	Type           ExecutionType   `json:"type"`
	Value          decimal.Decimal `json:"value"`
	IsMaker        bool            `json:"is_maker"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TradePnLPosition is the realized result of a closed position.
type TradePnLPosition struct {
	InstrumentName    string          `json:"instrument_name"`
	OrderID           string          `json:"order_id"`
	Side              OrderSide       `json:"side"`
	Quantity          decimal.Decimal `json:"quantity"`
	OrderPrice        decimal.Decimal `json:"order_price"`
	OrderType         string          `json:"order_type"`
	ClosedSize        decimal.Decimal `json:"closed_size"`
	TotalEntryValue   decimal.Decimal `json:"total_entry_value"`
	AverageEntryPrice decimal.Decimal `json:"average_entry_price"`
	TotalExitValue    decimal.Decimal `json:"total_exit_value"`
	AverageExitPrice  decimal.Decimal `json:"average_exit_price"`
	ClosedPnL         decimal.Decimal `json:"closed_pnl"`
	CreatedAt         time.Time       `json:"created_at"`
}

// WalletBalance is the balance of one currency inside one wallet.
type WalletBalance struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// WalletTransfer is a movement of funds between account wallets.
type WalletTransfer struct {
	TransferID      string          `json:"transfer_id"`
	Currency        string          `json:"currency"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	FromWalletType  WalletType      `json:"from_wallet_type"`
	ToWalletType    WalletType      `json:"to_wallet_type"`
	Amount          decimal.Decimal `json:"amount"`
	NetworkDatetime time.Time       `json:"network_datetime"`
}

// TradePositionPerformance is the reporting read model: closed PnL rolled up
// by time bucket for one instrument. Bucket fields are zero when the
// aggregation period does not reach that granularity.
type TradePositionPerformance struct {
	InstrumentName  string          `json:"instrument_name"`
	Provider        Name            `json:"provider"`
	TradingCategory TradingCategory `json:"trading_category"`
	PnL             decimal.Decimal `json:"pnl"`
	Year            int             `json:"year,omitempty"`
	Month           int             `json:"month,omitempty"`
	Week            int             `json:"week,omitempty"`
	Day             int             `json:"day,omitempty"`
}
