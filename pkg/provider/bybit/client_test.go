package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient("test-api-key", "test-secret",
		WithBaseURL(server.URL),
		WithClock(func() time.Time { return time.UnixMilli(1672217748277) }),
	)
	return server, client
}

func writeJSON(t *testing.T, w http.ResponseWriter, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func TestSignPayload(t *testing.T) {
	signature := signPayload(
		"test-secret",
		"1672217748277",
		"test-api-key",
		"5000",
		"category=linear&symbol=BTCUSDT",
	)
	require.Equal(t, "fac239a5df36118845414b191e04290112b1b6483d641c85a5deb5adb2d0e498", signature)
}

func TestClientSignsRequests(t *testing.T) {
	var captured http.Header
	var capturedQuery string
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		capturedQuery = r.URL.RawQuery
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result":  map[string]any{"list": []any{}},
		})
	})
	defer server.Close()

	_, err := client.GetTradeOrders(context.Background(), "linear", "BTCUSDT", "", "", 1, 50)
	require.NoError(t, err)

	require.Equal(t, "test-api-key", captured.Get("X-BAPI-API-KEY"))
	require.Equal(t, "2", captured.Get("X-BAPI-SIGN-TYPE"))
	require.Equal(t, "1672217748277", captured.Get("X-BAPI-TIMESTAMP"))
	require.Equal(t, "5000", captured.Get("X-BAPI-RECV-WINDOW"))
	require.Equal(t, "application/json", captured.Get("Content-Type"))
	require.Equal(t,
		signPayload("test-secret", "1672217748277", "test-api-key", "5000", capturedQuery),
		captured.Get("X-BAPI-SIGN"),
	)
}

func TestPaginationStopsWithoutCursor(t *testing.T) {
	calls := 0
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"list": []map[string]any{{"symbol": "BTCUSDT"}},
			},
		})
	})
	defer server.Close()

	records, err := client.GetTradeOrders(context.Background(), "linear", "BTCUSDT", "", "", 10, 50)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 1, calls)
}

func TestPaginationHonoursDepth(t *testing.T) {
	calls := 0
	var cursors []string
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		cursors = append(cursors, r.URL.Query().Get("cursor"))
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"nextPageCursor": fmt.Sprintf("cursor-%d", calls),
				"list":           []map[string]any{{"symbol": "BTCUSDT"}},
			},
		})
	})
	defer server.Close()

	records, err := client.GetTradeOrders(context.Background(), "linear", "BTCUSDT", "", "", 3, 50)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, 3, calls)
	require.Equal(t, []string{"", "cursor-1", "cursor-2"}, cursors)
}

func TestBadStatusError(t *testing.T) {
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.GetTradeOrders(context.Background(), "linear", "BTCUSDT", "", "", 1, 50)
	var badStatus *BadStatusError
	require.ErrorAs(t, err, &badStatus)
	require.Equal(t, http.StatusBadGateway, badStatus.StatusCode)
}

func TestRetCodeErrorIsInvalidContent(t *testing.T) {
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"retCode": 10003,
			"retMsg":  "API key is invalid",
		})
	})
	defer server.Close()

	_, err := client.GetTradeOrders(context.Background(), "linear", "BTCUSDT", "", "", 1, 50)
	var invalid *InvalidContentError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, 10003, invalid.RetCode)
}

func TestMissingResultIsInvalidContent(t *testing.T) {
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"retCode": 0, "retMsg": "OK"})
	})
	defer server.Close()

	_, err := client.GetTradeOrders(context.Background(), "linear", "BTCUSDT", "", "", 1, 50)
	var invalid *InvalidContentError
	require.ErrorAs(t, err, &invalid)
}

func TestTransportError(t *testing.T) {
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.GetTradeOrders(context.Background(), "linear", "BTCUSDT", "", "", 1, 50)
	var transport *TransportError
	require.ErrorAs(t, err, &transport)
}

func TestGetAccountCoinBalances(t *testing.T) {
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/asset/v3/private/transfer/account-coins/balance/query", r.URL.Path)
		require.Equal(t, "CONTRACT", r.URL.Query().Get("accountType"))
		require.Equal(t, "USDT", r.URL.Query().Get("coin"))
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

	records, err := client.GetAccountCoinBalances(context.Background(), "CONTRACT", "USDT")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestGetDepositRecordsUsesRowsField(t *testing.T) {
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5/asset/deposit/query-record", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result": map[string]any{
				"rows": []map[string]any{{"coin": "USDT", "amount": "100"}},
			},
		})
	})
	defer server.Close()

	records, err := client.GetDepositRecords(context.Background(), "USDT", nil, nil, 1, 50)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestTimeWindowParameters(t *testing.T) {
	var query map[string][]string
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(t, w, map[string]any{
			"retCode": 0,
			"retMsg":  "OK",
			"result":  map[string]any{"list": []any{}},
		})
	})
	defer server.Close()

	from := time.UnixMilli(1672000000000).UTC()
	to := time.UnixMilli(1672100000000).UTC()
	_, err := client.GetTradePositionsPnL(context.Background(), "linear", "BTCUSDT", &from, &to, 1, 50)
	require.NoError(t, err)
	require.Equal(t, "1672000000000", query["startTime"][0])
	require.Equal(t, "1672100000000", query["endTime"][0])
}
