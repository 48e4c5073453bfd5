package bybit

import (
	"fmt"

	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// Bidirectional mapping tables between canonical enums and ByBit wire values.
// Every canonical value must appear in its table; a missing entry is a
// programming error surfaced as a loud lookup failure, never a silent
// passthrough.

var orderSideToWire = map[provider.OrderSide]string{
	provider.OrderSideBuy:  "Buy",
	provider.OrderSideSell: "Sell",
}

var orderSideFromWire = map[string]provider.OrderSide{
	"Buy":  provider.OrderSideBuy,
	"Sell": provider.OrderSideSell,
}

var orderStatusToWire = map[provider.OrderStatus]string{
	provider.OrderStatusCreated:                 "Created",
	provider.OrderStatusNew:                     "New",
	provider.OrderStatusRejected:                "Rejected",
	provider.OrderStatusPartiallyFilled:         "PartiallyFilled",
	provider.OrderStatusPartiallyFilledCanceled: "PartiallyFilledCanceled",
	provider.OrderStatusFilled:                  "Filled",
	provider.OrderStatusCancelled:               "Cancelled",
	provider.OrderStatusUntriggered:             "Untriggered",
	provider.OrderStatusTriggered:               "Triggered",
	provider.OrderStatusDeactivated:             "Deactivated",
}

var orderStatusFromWire = map[string]provider.OrderStatus{
	"Created":                 provider.OrderStatusCreated,
	"New":                     provider.OrderStatusNew,
	"Rejected":                provider.OrderStatusRejected,
	"PartiallyFilled":         provider.OrderStatusPartiallyFilled,
	"PartiallyFilledCanceled": provider.OrderStatusPartiallyFilledCanceled,
	"Filled":                  provider.OrderStatusFilled,
	"Cancelled":               provider.OrderStatusCancelled,
	"Untriggered":             provider.OrderStatusUntriggered,
	"Triggered":               provider.OrderStatusTriggered,
	"Deactivated":             provider.OrderStatusDeactivated,
}

var executionTypeToWire = map[provider.ExecutionType]string{
	provider.ExecutionTypeTrade:     "Trade",
	provider.ExecutionTypeFunding:   "Funding",
	provider.ExecutionTypeADLTrade:  "AdlTrade",
	provider.ExecutionTypeSettle:    "Settle",
	provider.ExecutionTypeBustTrade: "BustTrade",
}

var executionTypeFromWire = map[string]provider.ExecutionType{
	"Trade":     provider.ExecutionTypeTrade,
	"Funding":   provider.ExecutionTypeFunding,
	"AdlTrade":  provider.ExecutionTypeADLTrade,
	"Settle":    provider.ExecutionTypeSettle,
	"BustTrade": provider.ExecutionTypeBustTrade,
}

var walletTypeToWire = map[provider.WalletType]string{
	provider.WalletTypeDerivative: "CONTRACT",
	provider.WalletTypeSpot:       "SPOT",
	provider.WalletTypeFunding:    "FUND",
	provider.WalletTypeOption:     "OPTION",
	provider.WalletTypeUnified:    "UNIFIED",
}

var walletTypeFromWire = map[string]provider.WalletType{
	"CONTRACT": provider.WalletTypeDerivative,
	"SPOT":     provider.WalletTypeSpot,
	"FUND":     provider.WalletTypeFunding,
	"OPTION":   provider.WalletTypeOption,
	"UNIFIED":  provider.WalletTypeUnified,
}

// Trading categories travel unchanged: canonical values equal wire values.
func categoryToWire(category provider.TradingCategory) (string, error) {
	for _, known := range provider.TradingCategories() {
		if category == known {
			return string(category), nil
		}
	}
	return "", fmt.Errorf("bybit: no wire mapping for trading category %q", category)
}

func sideToWire(side provider.OrderSide) (string, error) {
	wire, ok := orderSideToWire[side]
	if !ok {
		return "", fmt.Errorf("bybit: no wire mapping for order side %q", side)
	}
	return wire, nil
}

func sideFromWire(wire string) (provider.OrderSide, error) {
	side, ok := orderSideFromWire[wire]
	if !ok {
		return "", fmt.Errorf("bybit: unknown wire order side %q", wire)
	}
	return side, nil
}

func statusToWire(status provider.OrderStatus) (string, error) {
	wire, ok := orderStatusToWire[status]
	if !ok {
		return "", fmt.Errorf("bybit: no wire mapping for order status %q", status)
	}
	return wire, nil
}

func statusFromWire(wire string) (provider.OrderStatus, error) {
	status, ok := orderStatusFromWire[wire]
	if !ok {
		return "", fmt.Errorf("bybit: unknown wire order status %q", wire)
	}
	return status, nil
}

func execTypeToWire(executionType provider.ExecutionType) (string, error) {
	wire, ok := executionTypeToWire[executionType]
	if !ok {
		return "", fmt.Errorf("bybit: no wire mapping for execution type %q", executionType)
	}
	return wire, nil
}

func execTypeFromWire(wire string) (provider.ExecutionType, error) {
	executionType, ok := executionTypeFromWire[wire]
	if !ok {
		return "", fmt.Errorf("bybit: unknown wire execution type %q", wire)
	}
	return executionType, nil
}

func walletToWire(walletType provider.WalletType) (string, error) {
	wire, ok := walletTypeToWire[walletType]
	if !ok {
		return "", fmt.Errorf("bybit: no wire mapping for wallet type %q", walletType)
	}
	return wire, nil
}

func walletFromWire(wire string) (provider.WalletType, error) {
	walletType, ok := walletTypeFromWire[wire]
	if !ok {
		return "", fmt.Errorf("bybit: unknown wire wallet type %q", wire)
	}
	return walletType, nil
}
