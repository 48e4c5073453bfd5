package provider

import (
	"fmt"
	"strings"
)

// Name identifies a supported crypto provider.
type Name string

const (
	// NameByBit is the ByBit exchange.
	NameByBit Name = "BYBIT"
)

// Names lists every known provider identifier.
func Names() []Name {
	return []Name{NameByBit}
}

// ParseName resolves a case-insensitive provider identifier.
func ParseName(raw string) (Name, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(NameByBit):
		return NameByBit, nil
	default:
		return "", fmt.Errorf("provider: unknown provider %q", raw)
	}
}

func (n Name) String() string { return string(n) }

// TradingCategory is the canonical product category of an instrument.
type TradingCategory string

const (
	TradingCategorySpot    TradingCategory = "spot"
	TradingCategoryLinear  TradingCategory = "linear"
	TradingCategoryInverse TradingCategory = "inverse"
	TradingCategoryOption  TradingCategory = "option"
)

// TradingCategories lists every canonical trading category.
func TradingCategories() []TradingCategory {
	return []TradingCategory{
		TradingCategorySpot,
		TradingCategoryLinear,
		TradingCategoryInverse,
		TradingCategoryOption,
	}
}

// ParseTradingCategory resolves a case-insensitive trading category.
func ParseTradingCategory(raw string) (TradingCategory, error) {
	for _, category := range TradingCategories() {
		if strings.EqualFold(strings.TrimSpace(raw), string(category)) {
			return category, nil
		}
	}
	return "", fmt.Errorf("provider: unknown trading category %q", raw)
}

func (c TradingCategory) String() string { return string(c) }

// OrderSide is the canonical direction of an order or execution.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

func (s OrderSide) String() string { return string(s) }

// OrderStatus is the canonical lifecycle state of a trade order.
type OrderStatus string

const (
	OrderStatusCreated                 OrderStatus = "created"
	OrderStatusNew                     OrderStatus = "new"
	OrderStatusRejected                OrderStatus = "rejected"
	OrderStatusPartiallyFilled         OrderStatus = "partially_filled"
	OrderStatusPartiallyFilledCanceled OrderStatus = "partially_filled_cancelled"
	OrderStatusFilled                  OrderStatus = "filled"
	OrderStatusCancelled               OrderStatus = "cancelled"
	OrderStatusUntriggered             OrderStatus = "untriggered"
	OrderStatusTriggered               OrderStatus = "triggered"
	OrderStatusDeactivated             OrderStatus = "deactivated"
)

// OrderStatuses lists every canonical order status.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusCreated,
		OrderStatusNew,
		OrderStatusRejected,
		OrderStatusPartiallyFilled,
		OrderStatusPartiallyFilledCanceled,
		OrderStatusFilled,
		OrderStatusCancelled,
		OrderStatusUntriggered,
		OrderStatusTriggered,
		OrderStatusDeactivated,
	}
}

// ParseOrderStatus resolves a case-insensitive order status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	for _, status := range OrderStatuses() {
		if strings.EqualFold(strings.TrimSpace(raw), string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("provider: unknown order status %q", raw)
}

func (s OrderStatus) String() string { return string(s) }

// IsTerminal reports whether the order can no longer change.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFilled || s == OrderStatusCancelled
}

// ExecutionType is the canonical type of a trade execution.
type ExecutionType string

const (
	ExecutionTypeTrade     ExecutionType = "trade"
	ExecutionTypeFunding   ExecutionType = "funding"
	ExecutionTypeADLTrade  ExecutionType = "adl_trade"
	ExecutionTypeSettle    ExecutionType = "settle"
	ExecutionTypeBustTrade ExecutionType = "bust_trade"
)

// ExecutionTypes lists every canonical execution type.
func ExecutionTypes() []ExecutionType {
	return []ExecutionType{
		ExecutionTypeTrade,
		ExecutionTypeFunding,
		ExecutionTypeADLTrade,
		ExecutionTypeSettle,
		ExecutionTypeBustTrade,
	}
}

// ParseExecutionType resolves a case-insensitive execution type.
func ParseExecutionType(raw string) (ExecutionType, error) {
	for _, executionType := range ExecutionTypes() {
		if strings.EqualFold(strings.TrimSpace(raw), string(executionType)) {
			return executionType, nil
		}
	}
	return "", fmt.Errorf("provider: unknown execution type %q", raw)
}

func (t ExecutionType) String() string { return string(t) }

// AggregationPeriod is the reporting rollup granularity.
type AggregationPeriod string

const (
	AggregationPeriodDay   AggregationPeriod = "day"
	AggregationPeriodWeek  AggregationPeriod = "week"
	AggregationPeriodMonth AggregationPeriod = "month"
	AggregationPeriodYear  AggregationPeriod = "year"
)

// AggregationPeriods lists every supported rollup granularity.
func AggregationPeriods() []AggregationPeriod {
	return []AggregationPeriod{
		AggregationPeriodDay,
		AggregationPeriodWeek,
		AggregationPeriodMonth,
		AggregationPeriodYear,
	}
}

// ParseAggregationPeriod resolves a case-insensitive aggregation period.
func ParseAggregationPeriod(raw string) (AggregationPeriod, error) {
	for _, period := range AggregationPeriods() {
		if strings.EqualFold(strings.TrimSpace(raw), string(period)) {
			return period, nil
		}
	}
	return "", fmt.Errorf("provider: unknown aggregation period %q", raw)
}

func (p AggregationPeriod) String() string { return string(p) }

// WalletType is the canonical account wallet an asset lives in.
type WalletType string

const (
	WalletTypeDerivative WalletType = "DERIVATIVE"
	WalletTypeSpot       WalletType = "SPOT"
	WalletTypeFunding    WalletType = "FUNDING"
	WalletTypeOption     WalletType = "OPTION"
	WalletTypeUnified    WalletType = "UNIFIED"
)

// WalletTypes lists every canonical wallet type.
func WalletTypes() []WalletType {
	return []WalletType{
		WalletTypeDerivative,
		WalletTypeSpot,
		WalletTypeFunding,
		WalletTypeOption,
		WalletTypeUnified,
	}
}

// ParseWalletType resolves a case-insensitive wallet type.
func ParseWalletType(raw string) (WalletType, error) {
	for _, walletType := range WalletTypes() {
		if strings.EqualFold(strings.TrimSpace(raw), string(walletType)) {
			return walletType, nil
		}
	}
	return "", fmt.Errorf("provider: unknown wallet type %q", raw)
}

func (t WalletType) String() string { return string(t) }
