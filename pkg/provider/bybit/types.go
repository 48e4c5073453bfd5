package bybit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// msTime is a millisecond epoch carried as a JSON string. Decoding truncates
// to second granularity so equal wall-clock seconds compare equal regardless
// of the exchange's sub-second jitter.
type msTime struct {
	time.Time
}

func (t *msTime) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid millisecond timestamp %q: %w", raw, err)
	}
	t.Time = time.UnixMilli(millis).UTC().Truncate(time.Second)
	return nil
}

// wireDecimal is a decimal that tolerates the exchange's habit of sending
// empty strings for absent numeric fields.
type wireDecimal struct {
	decimal.Decimal
}

func (d *wireDecimal) UnmarshalJSON(data []byte) error {
	if string(data) == `""` || string(data) == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	return d.Decimal.UnmarshalJSON(data)
}

// parseBatch decodes and validates a raw record batch all-or-nothing: a
// single malformed record rejects the whole response.
func parseBatch[T any, PT interface {
	*T
	validate() error
}](resource string, records []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, raw := range records {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, &provider.DataValidationError{
				Resource: resource,
				Err:      fmt.Errorf("record %d: %w", i, err),
			}
		}
		if err := PT(&record).validate(); err != nil {
			return nil, &provider.DataValidationError{
				Resource: resource,
				Err:      fmt.Errorf("record %d: %w", i, err),
			}
		}
		out = append(out, record)
	}
	return out, nil
}

type instrumentRecord struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`
}

func (r *instrumentRecord) validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("instrument: symbol is required")
	}
	if r.Status == "" {
		return fmt.Errorf("instrument %s: status is required", r.Symbol)
	}
	return nil
}

type positionRecord struct {
	Symbol        string      `json:"symbol"`
	Side          string      `json:"side"`
	Size          wireDecimal `json:"size"`
	PositionValue wireDecimal `json:"positionValue"`
	UnrealisedPnL wireDecimal `json:"unrealisedPnl"`
	CreatedTime   msTime      `json:"createdTime"`
	UpdatedTime   msTime      `json:"updatedTime"`
}

func (r *positionRecord) validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("position: symbol is required")
	}
	if r.Side == "" {
		return fmt.Errorf("position %s: side is required", r.Symbol)
	}
	if r.CreatedTime.IsZero() {
		return fmt.Errorf("position %s: createdTime is required", r.Symbol)
	}
	return nil
}

type orderRecord struct {
	Symbol       string      `json:"symbol"`
	OrderID      string      `json:"orderId"`
	Side         string      `json:"side"`
	Quantity     wireDecimal `json:"qty"`
	Price        wireDecimal `json:"price"`
	AveragePrice wireDecimal `json:"avgPrice"`
	OrderType    string      `json:"orderType"`
	OrderStatus  string      `json:"orderStatus"`
	CumExecValue wireDecimal `json:"cumExecValue"`
	CumExecQty   wireDecimal `json:"cumExecQty"`
	CumExecFee   wireDecimal `json:"cumExecFee"`
	CreatedTime  msTime      `json:"createdTime"`
	UpdatedTime  msTime      `json:"updatedTime"`
}

func (r *orderRecord) validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("order: symbol is required")
	}
	if r.OrderID == "" {
		return fmt.Errorf("order %s: orderId is required", r.Symbol)
	}
	if r.Side == "" {
		return fmt.Errorf("order %s: side is required", r.OrderID)
	}
	if r.OrderStatus == "" {
		return fmt.Errorf("order %s: orderStatus is required", r.OrderID)
	}
	if r.CreatedTime.IsZero() {
		return fmt.Errorf("order %s: createdTime is required", r.OrderID)
	}
	return nil
}

type executionRecord struct {
	Symbol      string      `json:"symbol"`
	OrderID     string      `json:"orderId"`
	ExecutionID string      `json:"execId"`
	Side        string      `json:"side"`
	ExecFee     wireDecimal `json:"execFee"`
	ExecPrice   wireDecimal `json:"execPrice"`
	ExecQty     wireDecimal `json:"execQty"`
	ExecType    string      `json:"execType"`
	ExecValue   wireDecimal `json:"execValue"`
	IsMaker     bool        `json:"isMaker"`
	ExecTime    msTime      `json:"execTime"`
}

func (r *executionRecord) validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("execution: symbol is required")
	}
	if r.ExecutionID == "" {
		return fmt.Errorf("execution %s: execId is required", r.Symbol)
	}
	if r.Side == "" {
		return fmt.Errorf("execution %s: side is required", r.ExecutionID)
	}
	if r.ExecType == "" {
		return fmt.Errorf("execution %s: execType is required", r.ExecutionID)
	}
	if r.ExecTime.IsZero() {
		return fmt.Errorf("execution %s: execTime is required", r.ExecutionID)
	}
	return nil
}

type pnlRecord struct {
	Symbol            string      `json:"symbol"`
	OrderID           string      `json:"orderId"`
	Side              string      `json:"side"`
	Quantity          wireDecimal `json:"qty"`
	OrderPrice        wireDecimal `json:"orderPrice"`
	OrderType         string      `json:"orderType"`
	ClosedSize        wireDecimal `json:"closedSize"`
	CumEntryValue     wireDecimal `json:"cumEntryValue"`
	AverageEntryPrice wireDecimal `json:"avgEntryPrice"`
	CumExitValue      wireDecimal `json:"cumExitValue"`
	AverageExitPrice  wireDecimal `json:"avgExitPrice"`
	ClosedPnL         wireDecimal `json:"closedPnl"`
	CreatedTime       msTime      `json:"createdTime"`
}

func (r *pnlRecord) validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("pnl: symbol is required")
	}
	if r.OrderID == "" {
		return fmt.Errorf("pnl %s: orderId is required", r.Symbol)
	}
	if r.Side == "" {
		return fmt.Errorf("pnl %s: side is required", r.OrderID)
	}
	if r.CreatedTime.IsZero() {
		return fmt.Errorf("pnl %s: createdTime is required", r.OrderID)
	}
	return nil
}

type balanceRecord struct {
	Coin          string      `json:"coin"`
	WalletBalance wireDecimal `json:"walletBalance"`
}

func (r *balanceRecord) validate() error {
	if r.Coin == "" {
		return fmt.Errorf("balance: coin is required")
	}
	return nil
}

type transferRecord struct {
	TransferID      string      `json:"transferId"`
	Coin            string      `json:"coin"`
	FromAccountType string      `json:"fromAccountType"`
	ToAccountType   string      `json:"toAccountType"`
	Amount          wireDecimal `json:"amount"`
	Status          string      `json:"status"`
	Timestamp       msTime      `json:"timestamp"`
}

func (r *transferRecord) validate() error {
	if r.TransferID == "" {
		return fmt.Errorf("transfer: transferId is required")
	}
	if r.Coin == "" {
		return fmt.Errorf("transfer %s: coin is required", r.TransferID)
	}
	if r.FromAccountType == "" || r.ToAccountType == "" {
		return fmt.Errorf("transfer %s: account types are required", r.TransferID)
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("transfer %s: timestamp is required", r.TransferID)
	}
	return nil
}
