package bybit

import (
	"context"
	"net/http"

	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// Provider adapts Client to the provider.Provider interface: canonical
// filters in, validated canonical messages out, every failure wrapped into a
// *provider.Error carrying the inputs of the failed operation.
type Provider struct {
	client *Client
}

// NewProvider constructs a ByBit provider.
func NewProvider(apiKey, apiSecret string, opts ...Option) *Provider {
	return &Provider{client: NewClient(apiKey, apiSecret, opts...)}
}

func init() {
	provider.RegisterProvider(string(provider.NameByBit), func(name string, cfg *provider.ProviderConfig) (provider.Provider, error) {
		opts := []Option{}
		if cfg.Timeout > 0 {
			opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		} else if cfg.Testnet {
			opts = append(opts, WithTestnet())
		}
		return NewProvider(cfg.APIKey, cfg.APISecret, opts...), nil
	})
}

// Name identifies this provider.
func (p *Provider) Name() provider.Name { return provider.NameByBit }

// GetMarketInstruments returns the instrument catalog for a trading category.
func (p *Provider) GetMarketInstruments(ctx context.Context, query provider.MarketInstrumentsQuery) ([]provider.MarketInstrument, error) {
	const op = "GetMarketInstruments"

	category, err := categoryToWire(query.TradingCategory)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s", query.TradingCategory)
	}
	raw, err := p.client.GetMarketInstruments(ctx, category, query.Symbol, query.Depth, query.Limit)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
	}
	records, err := parseBatch[instrumentRecord]("market instruments", raw)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
	}

	instruments := make([]provider.MarketInstrument, 0, len(records))
	for _, record := range records {
		instruments = append(instruments, provider.MarketInstrument{
			Name:   record.Symbol,
			Status: record.Status,
		})
	}
	return instruments, nil
}

// GetTradePositions returns open positions for one instrument.
func (p *Provider) GetTradePositions(ctx context.Context, query provider.TradePositionsQuery) ([]provider.TradePosition, error) {
	const op = "GetTradePositions"

	category, err := categoryToWire(query.TradingCategory)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s", query.TradingCategory)
	}
	raw, err := p.client.GetTradePositions(ctx, category, query.Symbol, query.Depth, query.Limit)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
	}
	records, err := parseBatch[positionRecord]("trade positions", raw)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
	}

	positions := make([]provider.TradePosition, 0, len(records))
	for _, record := range records {
		side, err := sideFromWire(record.Side)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "symbol=%s", record.Symbol)
		}
		positions = append(positions, provider.TradePosition{
			InstrumentName: record.Symbol,
			Side:           side,
			Size:           record.Size.Decimal,
			Value:          record.PositionValue.Decimal,
			UnrealisedPnL:  record.UnrealisedPnL.Decimal,
			CreatedAt:      record.CreatedTime.Time,
			UpdatedAt:      record.UpdatedTime.Time,
		})
	}
	return positions, nil
}

// GetTradePositionsPnL returns closed-position PnL records. The endpoint is
// only offered for linear instruments; other categories fail before any
// network call.
func (p *Provider) GetTradePositionsPnL(ctx context.Context, query provider.TradePnLQuery) ([]provider.TradePnLPosition, error) {
	const op = "GetTradePositionsPnL"

	if query.TradingCategory != provider.TradingCategoryLinear {
		return nil, &provider.UnsupportedCategoryError{
			Provider: p.Name(),
			Op:       op,
			Category: query.TradingCategory,
		}
	}
	category, err := categoryToWire(query.TradingCategory)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s", query.TradingCategory)
	}
	raw, err := p.client.GetTradePositionsPnL(ctx, category, query.Symbol, query.From, query.To, query.Depth, query.Limit)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
	}
	records, err := parseBatch[pnlRecord]("trade positions pnl", raw)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
	}

	pnlPositions := make([]provider.TradePnLPosition, 0, len(records))
	for _, record := range records {
		side, err := sideFromWire(record.Side)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "symbol=%s order_id=%s", record.Symbol, record.OrderID)
		}
		pnlPositions = append(pnlPositions, provider.TradePnLPosition{
			InstrumentName:    record.Symbol,
			OrderID:           record.OrderID,
			Side:              side,
			Quantity:          record.Quantity.Decimal,
			OrderPrice:        record.OrderPrice.Decimal,
			OrderType:         record.OrderType,
			ClosedSize:        record.ClosedSize.Decimal,
			TotalEntryValue:   record.CumEntryValue.Decimal,
			AverageEntryPrice: record.AverageEntryPrice.Decimal,
			TotalExitValue:    record.CumExitValue.Decimal,
			AverageExitPrice:  record.AverageExitPrice.Decimal,
			ClosedPnL:         record.ClosedPnL.Decimal,
			CreatedAt:         record.CreatedTime.Time,
		})
	}
	return pnlPositions, nil
}

// GetTradeOrders returns historical orders for one instrument.
func (p *Provider) GetTradeOrders(ctx context.Context, query provider.TradeOrdersQuery) ([]provider.TradeOrder, error) {
	const op = "GetTradeOrders"

	category, err := categoryToWire(query.TradingCategory)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s", query.TradingCategory)
	}
	wireStatus := ""
	if query.Status != nil {
		wireStatus, err = statusToWire(*query.Status)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
		}
	}
	raw, err := p.client.GetTradeOrders(ctx, category, query.Symbol, query.OrderID, wireStatus, query.Depth, query.Limit)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s order_id=%s", category, query.Symbol, query.OrderID)
	}
	records, err := parseBatch[orderRecord]("trade orders", raw)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
	}

	orders := make([]provider.TradeOrder, 0, len(records))
	for _, record := range records {
		side, err := sideFromWire(record.Side)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "order_id=%s", record.OrderID)
		}
		status, err := statusFromWire(record.OrderStatus)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "order_id=%s", record.OrderID)
		}
		orders = append(orders, provider.TradeOrder{
			InstrumentName:        record.Symbol,
			OrderID:               record.OrderID,
			Side:                  side,
			Quantity:              record.Quantity.Decimal,
			Price:                 record.Price.Decimal,
			AveragePrice:          record.AveragePrice.Decimal,
			Type:                  record.OrderType,
			Status:                status,
			TotalExecutedValue:    record.CumExecValue.Decimal,
			TotalExecutedQuantity: record.CumExecQty.Decimal,
			TotalExecutedFee:      record.CumExecFee.Decimal,
			CreatedAt:             record.CreatedTime.Time,
			UpdatedAt:             record.UpdatedTime.Time,
		})
	}
	return orders, nil
}

// GetTradeExecutions returns executions for one instrument.
func (p *Provider) GetTradeExecutions(ctx context.Context, query provider.TradeExecutionsQuery) ([]provider.TradeExecution, error) {
	const op = "GetTradeExecutions"

	category, err := categoryToWire(query.TradingCategory)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s", query.TradingCategory)
	}
	wireExecType := ""
	if query.ExecutionType != nil {
		wireExecType, err = execTypeToWire(*query.ExecutionType)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
		}
	}
	raw, err := p.client.GetTradeExecutions(ctx, category, query.Symbol, query.OrderID, wireExecType, query.From, query.To, query.Depth, query.Limit)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s order_id=%s", category, query.Symbol, query.OrderID)
	}
	records, err := parseBatch[executionRecord]("trade executions", raw)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "category=%s symbol=%s", category, query.Symbol)
	}

	executions := make([]provider.TradeExecution, 0, len(records))
	for _, record := range records {
		side, err := sideFromWire(record.Side)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "execution_id=%s", record.ExecutionID)
		}
		executionType, err := execTypeFromWire(record.ExecType)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "execution_id=%s", record.ExecutionID)
		}
		executions = append(executions, provider.TradeExecution{
			InstrumentName: record.Symbol,
			OrderID:        record.OrderID,
			ExecutionID:    record.ExecutionID,
			Side:           side,
			Fee:            record.ExecFee.Decimal,
			Price:          record.ExecPrice.Decimal,
			Quantity:       record.ExecQty.Decimal,
			Type:           executionType,
			Value:          record.ExecValue.Decimal,
			IsMaker:        record.IsMaker,
			CreatedAt:      record.ExecTime.Time,
		})
	}
	return executions, nil
}

// GetWalletBalances returns per-currency balances of one account wallet.
func (p *Provider) GetWalletBalances(ctx context.Context, query provider.WalletBalancesQuery) ([]provider.WalletBalance, error) {
	const op = "GetWalletBalances"

	accountType, err := walletToWire(query.WalletType)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "wallet_type=%s", query.WalletType)
	}
	raw, err := p.client.GetAccountCoinBalances(ctx, accountType, query.Currency)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "wallet_type=%s currency=%s", accountType, query.Currency)
	}
	records, err := parseBatch[balanceRecord]("wallet balances", raw)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "wallet_type=%s currency=%s", accountType, query.Currency)
	}

	balances := make([]provider.WalletBalance, 0, len(records))
	for _, record := range records {
		balances = append(balances, provider.WalletBalance{
			Currency: record.Coin,
			Amount:   record.WalletBalance.Decimal,
		})
	}
	return balances, nil
}

// GetWalletInternalTransfers returns transfers between account wallets.
func (p *Provider) GetWalletInternalTransfers(ctx context.Context, query provider.WalletTransfersQuery) ([]provider.WalletTransfer, error) {
	const op = "GetWalletInternalTransfers"

	raw, err := p.client.GetInternalTransfers(ctx, query.Currency, query.From, query.To, query.Depth, query.Limit)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "currency=%s", query.Currency)
	}
	records, err := parseBatch[transferRecord]("wallet transfers", raw)
	if err != nil {
		return nil, provider.NewError(p.Name(), op, err, "currency=%s", query.Currency)
	}

	transfers := make([]provider.WalletTransfer, 0, len(records))
	for _, record := range records {
		fromWallet, err := walletFromWire(record.FromAccountType)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "transfer_id=%s", record.TransferID)
		}
		toWallet, err := walletFromWire(record.ToAccountType)
		if err != nil {
			return nil, provider.NewError(p.Name(), op, err, "transfer_id=%s", record.TransferID)
		}
		transfers = append(transfers, provider.WalletTransfer{
			TransferID:      record.TransferID,
			Currency:        record.Coin,
			Type:            "internal",
			Status:          record.Status,
			FromWalletType:  fromWallet,
			ToWalletType:    toWallet,
			Amount:          record.Amount.Decimal,
			NetworkDatetime: record.Timestamp.Time,
		})
	}
	return transfers, nil
}
