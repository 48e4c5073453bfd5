package bybit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

func TestOrderSideMappingIsTotal(t *testing.T) {
	for _, side := range []provider.OrderSide{provider.OrderSideBuy, provider.OrderSideSell} {
		wire, err := sideToWire(side)
		require.NoError(t, err)
		roundTripped, err := sideFromWire(wire)
		require.NoError(t, err)
		require.Equal(t, side, roundTripped)
	}
}

func TestOrderStatusMappingIsTotal(t *testing.T) {
	for _, status := range provider.OrderStatuses() {
		wire, err := statusToWire(status)
		require.NoError(t, err)
		roundTripped, err := statusFromWire(wire)
		require.NoError(t, err)
		require.Equal(t, status, roundTripped)
	}
	require.Len(t, orderStatusToWire, len(provider.OrderStatuses()))
	require.Len(t, orderStatusFromWire, len(provider.OrderStatuses()))
}

func TestExecutionTypeMappingIsTotal(t *testing.T) {
	for _, executionType := range provider.ExecutionTypes() {
		wire, err := execTypeToWire(executionType)
		require.NoError(t, err)
		roundTripped, err := execTypeFromWire(wire)
		require.NoError(t, err)
		require.Equal(t, executionType, roundTripped)
	}
	require.Len(t, executionTypeToWire, len(provider.ExecutionTypes()))
	require.Len(t, executionTypeFromWire, len(provider.ExecutionTypes()))
}

func TestWalletTypeMappingIsTotal(t *testing.T) {
	for _, walletType := range provider.WalletTypes() {
		wire, err := walletToWire(walletType)
		require.NoError(t, err)
		roundTripped, err := walletFromWire(wire)
		require.NoError(t, err)
		require.Equal(t, walletType, roundTripped)
	}
	require.Len(t, walletTypeToWire, len(provider.WalletTypes()))
	require.Len(t, walletTypeFromWire, len(provider.WalletTypes()))
}

func TestWalletTypeDerivativeUsesContractWireValue(t *testing.T) {
	wire, err := walletToWire(provider.WalletTypeDerivative)
	require.NoError(t, err)
	require.Equal(t, "CONTRACT", wire)
}

func TestCategoryMappingRejectsUnknown(t *testing.T) {
	for _, category := range provider.TradingCategories() {
		wire, err := categoryToWire(category)
		require.NoError(t, err)
		require.Equal(t, string(category), wire)
	}
	_, err := categoryToWire(provider.TradingCategory("margin"))
	require.Error(t, err)
}

func TestStatusFromWireRejectsUnknown(t *testing.T) {
	_, err := statusFromWire("Expired")
	require.Error(t, err)
}
