package bybit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Provider) {
	t.Helper()
	server := httptest.NewServer(handler)
	p := NewProvider("test-api-key", "test-secret", WithBaseURL(server.URL))
	return server, p
}

func TestGetTradeOrdersMapsWireRecords(t *testing.T) {
	server, p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5/order/history", r.URL.Path)
		require.Equal(t, "linear", r.URL.Query().Get("category"))
		require.Equal(t, "Filled", r.URL.Query().Get("orderStatus"))
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"list": []map[string]any{
					{
						"symbol":       "BTCUSDT",
						"orderId":      "order-1",
						"side":         "Buy",
						"qty":          "0.5",
						"price":        "30000.1",
						"avgPrice":     "30000.05",
						"orderType":    "Limit",
						"orderStatus":  "Filled",
						"cumExecValue": "15000.025",
						"cumExecQty":   "0.5",
						"cumExecFee":   "1.2",
						"createdTime":  "1672217748277",
						"updatedTime":  "1672217749911",
					},
				},
			},
		})
	})
	defer server.Close()

	status := provider.OrderStatusFilled
	orders, err := p.GetTradeOrders(context.Background(), provider.TradeOrdersQuery{
		TradingCategory: provider.TradingCategoryLinear,
		Symbol:          "BTCUSDT",
		Status:          &status,
		Depth:           1,
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	require.Equal(t, "BTCUSDT", order.InstrumentName)
	require.Equal(t, "order-1", order.OrderID)
	require.Equal(t, provider.OrderSideBuy, order.Side)
	require.Equal(t, provider.OrderStatusFilled, order.Status)
	require.True(t, order.Quantity.Equal(decimal.RequireFromString("0.5")))
	require.True(t, order.AveragePrice.Equal(decimal.RequireFromString("30000.05")))
	require.True(t, order.TotalExecutedFee.Equal(decimal.RequireFromString("1.2")))
	require.Equal(t, time.UnixMilli(1672217748000).UTC(), order.CreatedAt)
	require.Equal(t, time.UnixMilli(1672217749000).UTC(), order.UpdatedAt)
}

func TestBatchValidationIsAllOrNothing(t *testing.T) {
	server, p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"list": []map[string]any{
					{
						"symbol":      "BTCUSDT",
						"orderId":     "order-1",
						"side":        "Buy",
						"orderStatus": "Filled",
						"createdTime": "1672217748277",
					},
					{
						"symbol":      "BTCUSDT",
						"side":        "Buy",
						"orderStatus": "Filled",
						"createdTime": "1672217748277",
					},
				},
			},
		})
	})
	defer server.Close()

	_, err := p.GetTradeOrders(context.Background(), provider.TradeOrdersQuery{
		TradingCategory: provider.TradingCategoryLinear,
		Symbol:          "BTCUSDT",
	})
	var providerErr *provider.Error
	require.ErrorAs(t, err, &providerErr)
	var validationErr *provider.DataValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestGetTradePositionsPnLRejectsNonLinear(t *testing.T) {
	calls := 0
	server, p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	defer server.Close()

	_, err := p.GetTradePositionsPnL(context.Background(), provider.TradePnLQuery{
		TradingCategory: provider.TradingCategorySpot,
		Symbol:          "BTCUSDT",
	})
	var unsupported *provider.UnsupportedCategoryError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, provider.TradingCategorySpot, unsupported.Category)
	require.Equal(t, 0, calls)
}

func TestGetTradePositionsPnLMapsRecords(t *testing.T) {
	server, p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5/position/closed-pnl", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"list": []map[string]any{
					{
						"symbol":        "ETHUSDT",
						"orderId":       "order-9",
						"side":          "Sell",
						"qty":           "2",
						"orderPrice":    "2000",
						"orderType":     "Market",
						"closedSize":    "2",
						"cumEntryValue": "3900",
						"avgEntryPrice": "1950",
						"cumExitValue":  "4000",
						"avgExitPrice":  "2000",
						"closedPnl":     "98.5",
						"createdTime":   "1672217748277",
					},
				},
			},
		})
	})
	defer server.Close()

	records, err := p.GetTradePositionsPnL(context.Background(), provider.TradePnLQuery{
		TradingCategory: provider.TradingCategoryLinear,
		Symbol:          "ETHUSDT",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, provider.OrderSideSell, records[0].Side)
	require.True(t, records[0].ClosedPnL.Equal(decimal.RequireFromString("98.5")))
}

func TestGetTradeExecutionsMapsRecords(t *testing.T) {
	server, p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5/execution/list", r.URL.Path)
		require.Equal(t, "Trade", r.URL.Query().Get("execType"))
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"list": []map[string]any{
					{
						"symbol":    "BTCUSDT",
						"orderId":   "",
						"execId":    "exec-1",
						"side":      "Buy",
						"execFee":   "0.05",
						"execPrice": "30000",
						"execQty":   "0.1",
						"execType":  "Trade",
						"execValue": "3000",
						"isMaker":   true,
						"execTime":  "1672217748277",
					},
				},
			},
		})
	})
	defer server.Close()

	executionType := provider.ExecutionTypeTrade
	executions, err := p.GetTradeExecutions(context.Background(), provider.TradeExecutionsQuery{
		TradingCategory: provider.TradingCategoryLinear,
		Symbol:          "BTCUSDT",
		ExecutionType:   &executionType,
	})
	require.NoError(t, err)
	require.Len(t, executions, 1)
	require.Empty(t, executions[0].OrderID)
	require.Equal(t, "exec-1", executions[0].ExecutionID)
	require.Equal(t, provider.ExecutionTypeTrade, executions[0].Type)
	require.True(t, executions[0].IsMaker)
	require.True(t, executions[0].Price.Equal(decimal.RequireFromString("30000")))
}

func TestGetWalletBalancesMapsWalletType(t *testing.T) {
	server, p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "CONTRACT", r.URL.Query().Get("accountType"))
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"balance": []map[string]any{
					{"coin": "USDT", "walletBalance": "1520.25"},
				},
			},
		})
	})
	defer server.Close()

	balances, err := p.GetWalletBalances(context.Background(), provider.WalletBalancesQuery{
		WalletType: provider.WalletTypeDerivative,
		Currency:   "USDT",
	})
	require.NoError(t, err)
	require.Len(t, balances, 1)
	require.Equal(t, "USDT", balances[0].Currency)
	require.True(t, balances[0].Amount.Equal(decimal.RequireFromString("1520.25")))
}

func TestGetWalletInternalTransfersMapsRecords(t *testing.T) {
	server, p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5/asset/transfer/query-inter-transfer-list", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"list": []map[string]any{
					{
						"transferId":      "transfer-1",
						"coin":            "USDT",
						"fromAccountType": "SPOT",
						"toAccountType":   "CONTRACT",
						"amount":          "250",
						"status":          "SUCCESS",
						"timestamp":       "1672217748277",
					},
				},
			},
		})
	})
	defer server.Close()

	transfers, err := p.GetWalletInternalTransfers(context.Background(), provider.WalletTransfersQuery{Currency: "USDT"})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, provider.WalletTypeSpot, transfers[0].FromWalletType)
	require.Equal(t, provider.WalletTypeDerivative, transfers[0].ToWalletType)
	require.True(t, transfers[0].Amount.Equal(decimal.RequireFromString("250")))
	require.Equal(t, time.UnixMilli(1672217748000).UTC(), transfers[0].NetworkDatetime)
}

func TestGetWalletInternalTransfersUnknownAccountType(t *testing.T) {
	server, p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"list": []map[string]any{
					{
						"transferId":      "transfer-1",
						"coin":            "USDT",
						"fromAccountType": "INVESTMENT",
						"toAccountType":   "CONTRACT",
						"amount":          "250",
						"status":          "SUCCESS",
						"timestamp":       "1672217748277",
					},
				},
			},
		})
	})
	defer server.Close()

	_, err := p.GetWalletInternalTransfers(context.Background(), provider.WalletTransfersQuery{Currency: "USDT"})
	var providerErr *provider.Error
	require.ErrorAs(t, err, &providerErr)
	require.Contains(t, err.Error(), "INVESTMENT")
}

func TestGetMarketInstruments(t *testing.T) {
	server, p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5/market/instruments-info", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"list": []map[string]any{
					{"symbol": "BTCUSDT", "status": "Trading"},
					{"symbol": "ETHUSDT", "status": "Trading"},
				},
			},
		})
	})
	defer server.Close()

	instruments, err := p.GetMarketInstruments(context.Background(), provider.MarketInstrumentsQuery{
		TradingCategory: provider.TradingCategoryLinear,
	})
	require.NoError(t, err)
	require.Len(t, instruments, 2)
	require.Equal(t, "BTCUSDT", instruments[0].Name)
	require.Equal(t, "Trading", instruments[0].Status)
}
