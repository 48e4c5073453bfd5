package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL     = "https://api.bybit.com"
	testnetBaseURL     = "https://api-testnet.bybit.com"
	defaultHTTPTimeout = 10 * time.Second
	defaultRecvWindow  = "5000"
	defaultPageSize    = 50
	defaultDepth       = 1
)

// Client wraps signed access to the ByBit v5 REST API. It decodes the
// response envelope and hands raw result records to the caller; schema
// validation lives one layer up.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	recvWindow string
	httpClient *http.Client
	now        func() time.Time
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default API host.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTestnet points the client at the testnet host.
func WithTestnet() Option {
	return func(c *Client) {
		c.baseURL = testnetBaseURL
	}
}

// WithTimeout adjusts the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithClock injects a timestamp source for request signing.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs a ByBit API client.
func NewClient(apiKey, apiSecret string, opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: defaultRecvWindow,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// apiResponse is the envelope every v5 endpoint wraps its payload in.
type apiResponse struct {
	RetCode int              `json:"retCode"`
	RetMsg  string           `json:"retMsg"`
	Result  *json.RawMessage `json:"result"`
}

// get performs a signed GET request and returns the raw result envelope.
// statusAllowed defaults to 200-only when empty.
func (c *Client) get(ctx context.Context, path string, query url.Values, statusAllowed ...int) (json.RawMessage, error) {
	if query == nil {
		query = url.Values{}
	}
	encoded := query.Encode()

	requestURL := c.baseURL + path
	if encoded != "" {
		requestURL += "?" + encoded
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}

	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	httpReq.Header.Set("X-BAPI-API-KEY", c.apiKey)
	httpReq.Header.Set("X-BAPI-SIGN", signPayload(c.apiSecret, timestamp, c.apiKey, c.recvWindow, encoded))
	httpReq.Header.Set("X-BAPI-SIGN-TYPE", "2")
	httpReq.Header.Set("X-BAPI-TIMESTAMP", timestamp)
	httpReq.Header.Set("X-BAPI-RECV-WINDOW", c.recvWindow)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TransportError{Err: ctx.Err()}
		}
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	if !statusIsAllowed(resp.StatusCode, statusAllowed) {
		return nil, &BadStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &InvalidContentError{Message: fmt.Sprintf("malformed json: %v", err)}
	}
	if envelope.RetCode != 0 {
		return nil, &InvalidContentError{RetCode: envelope.RetCode, Message: envelope.RetMsg}
	}
	if envelope.Result == nil {
		return nil, &InvalidContentError{Message: "result envelope missing"}
	}
	return *envelope.Result, nil
}

func statusIsAllowed(status int, allowed []int) bool {
	if len(allowed) == 0 {
		return status == http.StatusOK
	}
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

// getPaginated walks a cursor-paginated endpoint and concatenates the raw
// records under dataField. depth caps the number of pages fetched; the walk
// stops early as soon as the exchange returns an empty cursor.
func (c *Client) getPaginated(ctx context.Context, path, dataField string, query url.Values, depth, limit int) ([]json.RawMessage, error) {
	if depth <= 0 {
		depth = defaultDepth
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("limit", strconv.Itoa(limit))

	var records []json.RawMessage
	cursor := ""
	for fetched := 0; fetched < depth; fetched++ {
		if cursor != "" {
			query.Set("cursor", cursor)
		}
		result, err := c.get(ctx, path, query)
		if err != nil {
			return nil, err
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(result, &fields); err != nil {
			return nil, &InvalidContentError{Message: fmt.Sprintf("malformed result: %v", err)}
		}
		nextCursor := ""
		if raw, ok := fields["nextPageCursor"]; ok {
			if err := json.Unmarshal(raw, &nextCursor); err != nil {
				return nil, &InvalidContentError{Message: fmt.Sprintf("malformed cursor: %v", err)}
			}
		}
		raw, ok := fields[dataField]
		if !ok {
			return nil, &InvalidContentError{Message: fmt.Sprintf("data field %q missing", dataField)}
		}
		var pageRecords []json.RawMessage
		if err := json.Unmarshal(raw, &pageRecords); err != nil {
			return nil, &InvalidContentError{Message: fmt.Sprintf("data field %q is not a list: %v", dataField, err)}
		}
		records = append(records, pageRecords...)

		cursor = nextCursor
		if cursor == "" {
			break
		}
	}
	return records, nil
}

// timeWindow stamps optional millisecond bounds onto a query.
func timeWindow(query url.Values, from, to *time.Time) {
	if from != nil {
		query.Set("startTime", strconv.FormatInt(from.UnixMilli(), 10))
	}
	if to != nil {
		query.Set("endTime", strconv.FormatInt(to.UnixMilli(), 10))
	}
}

// GetMarketInstruments fetches the instrument catalog for a category.
func (c *Client) GetMarketInstruments(ctx context.Context, category, symbol string, depth, limit int) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("category", category)
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	return c.getPaginated(ctx, "/v5/market/instruments-info", "list", query, depth, limit)
}

// GetTradeOrders fetches historical orders.
func (c *Client) GetTradeOrders(ctx context.Context, category, symbol, orderID, orderStatus string, depth, limit int) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("category", category)
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	if orderID != "" {
		query.Set("orderId", orderID)
	}
	if orderStatus != "" {
		query.Set("orderStatus", orderStatus)
	}
	return c.getPaginated(ctx, "/v5/order/history", "list", query, depth, limit)
}

// GetTradePositions fetches open positions.
func (c *Client) GetTradePositions(ctx context.Context, category, symbol string, depth, limit int) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("category", category)
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	return c.getPaginated(ctx, "/v5/position/list", "list", query, depth, limit)
}

// GetTradeExecutions fetches executions, optionally narrowed to one order,
// execution type or time window.
func (c *Client) GetTradeExecutions(ctx context.Context, category, symbol, orderID, execType string, from, to *time.Time, depth, limit int) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("category", category)
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	if orderID != "" {
		query.Set("orderId", orderID)
	}
	if execType != "" {
		query.Set("execType", execType)
	}
	timeWindow(query, from, to)
	return c.getPaginated(ctx, "/v5/execution/list", "list", query, depth, limit)
}

// GetTradePositionsPnL fetches closed-position PnL records.
func (c *Client) GetTradePositionsPnL(ctx context.Context, category, symbol string, from, to *time.Time, depth, limit int) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("category", category)
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	timeWindow(query, from, to)
	return c.getPaginated(ctx, "/v5/position/closed-pnl", "list", query, depth, limit)
}

// GetTransactionLog fetches unified account transaction log entries.
func (c *Client) GetTransactionLog(ctx context.Context, category, currency string, from, to *time.Time, depth, limit int) ([]json.RawMessage, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if currency != "" {
		query.Set("currency", currency)
	}
	timeWindow(query, from, to)
	return c.getPaginated(ctx, "/v5/account/transaction-log", "list", query, depth, limit)
}

// GetAccountCoinBalances fetches per-coin balances of one account wallet.
// The endpoint is not paginated; records arrive under result.balance.
func (c *Client) GetAccountCoinBalances(ctx context.Context, accountType, coin string) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("accountType", accountType)
	if coin != "" {
		query.Set("coin", coin)
	}
	result, err := c.get(ctx, "/asset/v3/private/transfer/account-coins/balance/query", query)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Balance []json.RawMessage `json:"balance"`
	}
	if err := json.Unmarshal(result, &envelope); err != nil {
		return nil, &InvalidContentError{Message: fmt.Sprintf("malformed balance result: %v", err)}
	}
	return envelope.Balance, nil
}

// GetInternalTransfers fetches transfers between account wallets.
func (c *Client) GetInternalTransfers(ctx context.Context, coin string, from, to *time.Time, depth, limit int) ([]json.RawMessage, error) {
	query := url.Values{}
	if coin != "" {
		query.Set("coin", coin)
	}
	timeWindow(query, from, to)
	return c.getPaginated(ctx, "/v5/asset/transfer/query-inter-transfer-list", "list", query, depth, limit)
}

// GetDepositRecords fetches on-chain deposit records. The endpoint reports
// its records under "rows" rather than "list".
func (c *Client) GetDepositRecords(ctx context.Context, coin string, from, to *time.Time, depth, limit int) ([]json.RawMessage, error) {
	query := url.Values{}
	if coin != "" {
		query.Set("coin", coin)
	}
	timeWindow(query, from, to)
	return c.getPaginated(ctx, "/v5/asset/deposit/query-record", "rows", query, depth, limit)
}

// GetWithdrawalRecords fetches on-chain withdrawal records.
func (c *Client) GetWithdrawalRecords(ctx context.Context, coin string, from, to *time.Time, depth, limit int) ([]json.RawMessage, error) {
	query := url.Values{}
	if coin != "" {
		query.Set("coin", coin)
	}
	timeWindow(query, from, to)
	return c.getPaginated(ctx, "/v5/asset/withdraw/query-record", "rows", query, depth, limit)
}
