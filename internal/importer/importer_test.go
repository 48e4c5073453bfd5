package importer

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/model"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// fakeProvider returns canned results and records the queries it receives.
type fakeProvider struct {
	instruments    []provider.MarketInstrument
	instrumentsErr error

	orders    []provider.TradeOrder
	ordersErr error

	pnl          []provider.TradePnLPosition
	pnlErr       error
	lastPnLQuery *provider.TradePnLQuery

	executions         []provider.TradeExecution
	executionsErr      error
	lastExecutionQuery *provider.TradeExecutionsQuery

	balances    []provider.WalletBalance
	balancesErr error

	transfers         []provider.WalletTransfer
	transfersErr      error
	lastTransferQuery *provider.WalletTransfersQuery

	calls int
}

func (f *fakeProvider) Name() provider.Name { return provider.NameByBit }

func (f *fakeProvider) GetMarketInstruments(ctx context.Context, query provider.MarketInstrumentsQuery) ([]provider.MarketInstrument, error) {
	f.calls++
	return f.instruments, f.instrumentsErr
}

func (f *fakeProvider) GetTradePositions(ctx context.Context, query provider.TradePositionsQuery) ([]provider.TradePosition, error) {
	f.calls++
	return nil, nil
}

func (f *fakeProvider) GetTradePositionsPnL(ctx context.Context, query provider.TradePnLQuery) ([]provider.TradePnLPosition, error) {
	f.calls++
	f.lastPnLQuery = &query
	return f.pnl, f.pnlErr
}

func (f *fakeProvider) GetTradeOrders(ctx context.Context, query provider.TradeOrdersQuery) ([]provider.TradeOrder, error) {
	f.calls++
	return f.orders, f.ordersErr
}

func (f *fakeProvider) GetTradeExecutions(ctx context.Context, query provider.TradeExecutionsQuery) ([]provider.TradeExecution, error) {
	f.calls++
	f.lastExecutionQuery = &query
	return f.executions, f.executionsErr
}

func (f *fakeProvider) GetWalletBalances(ctx context.Context, query provider.WalletBalancesQuery) ([]provider.WalletBalance, error) {
	f.calls++
	return f.balances, f.balancesErr
}

func (f *fakeProvider) GetWalletInternalTransfers(ctx context.Context, query provider.WalletTransfersQuery) ([]provider.WalletTransfer, error) {
	f.calls++
	f.lastTransferQuery = &query
	return f.transfers, f.transfersErr
}

type fakeInstrumentsModel struct {
	existing  map[string]bool
	existsErr map[string]error
	inserted  []model.MarketInstrument
}

func (m *fakeInstrumentsModel) Insert(ctx context.Context, data *model.MarketInstrument) (sql.Result, error) {
	m.inserted = append(m.inserted, *data)
	return nil, nil
}

func (m *fakeInstrumentsModel) ExistsByNameAndProvider(ctx context.Context, name, providerName string) (bool, error) {
	if err := m.existsErr[name]; err != nil {
		return false, err
	}
	return m.existing[name], nil
}

func (m *fakeInstrumentsModel) FindAllByProviderAndCategory(ctx context.Context, providerName, tradingCategory string) ([]model.MarketInstrument, error) {
	return nil, nil
}

type fakeOrdersModel struct {
	existing  map[string]*model.TradeOrder
	existsErr map[string]error
	inserted  []model.TradeOrder
	latest    *time.Time
}

func (m *fakeOrdersModel) Insert(ctx context.Context, data *model.TradeOrder) (sql.Result, error) {
	m.inserted = append(m.inserted, *data)
	return nil, nil
}

func (m *fakeOrdersModel) ExistsByOrderId(ctx context.Context, orderId string) (bool, error) {
	if err := m.existsErr[orderId]; err != nil {
		return false, err
	}
	_, ok := m.existing[orderId]
	return ok, nil
}

func (m *fakeOrdersModel) FindOneByOrderId(ctx context.Context, orderId string) (*model.TradeOrder, error) {
	if order, ok := m.existing[orderId]; ok {
		return order, nil
	}
	return nil, model.ErrNotFound
}

func (m *fakeOrdersModel) LatestCreatedAt(ctx context.Context, instrumentName, providerName string) (*time.Time, error) {
	return m.latest, nil
}

type fakePnLModel struct {
	existing map[string]bool
	inserted []model.TradePnLTransaction
	latest   *time.Time
}

func (m *fakePnLModel) Insert(ctx context.Context, data *model.TradePnLTransaction) (sql.Result, error) {
	m.inserted = append(m.inserted, *data)
	return nil, nil
}

func (m *fakePnLModel) ExistsByOrderIdAndCreatedAt(ctx context.Context, orderId string, createdAt time.Time) (bool, error) {
	return m.existing[orderId], nil
}

func (m *fakePnLModel) LatestCreatedAt(ctx context.Context, instrumentName, providerName string) (*time.Time, error) {
	return m.latest, nil
}

type fakeExecutionsModel struct {
	existing map[string]bool
	inserted []model.TradeExecution
	latest   *time.Time
}

func (m *fakeExecutionsModel) Insert(ctx context.Context, data *model.TradeExecution) (sql.Result, error) {
	m.inserted = append(m.inserted, *data)
	return nil, nil
}

func (m *fakeExecutionsModel) ExistsByExecutionId(ctx context.Context, executionId string) (bool, error) {
	return m.existing[executionId], nil
}

func (m *fakeExecutionsModel) LatestCreatedAt(ctx context.Context, instrumentName, providerName, executionType string) (*time.Time, error) {
	return m.latest, nil
}

type fakeBalancesModel struct {
	inserted []model.WalletBalanceSnapshot
}

func (m *fakeBalancesModel) Insert(ctx context.Context, data *model.WalletBalanceSnapshot) (sql.Result, error) {
	m.inserted = append(m.inserted, *data)
	return nil, nil
}

func (m *fakeBalancesModel) FindLatestByWallet(ctx context.Context, providerName, walletType, currency string) (*model.WalletBalanceSnapshot, error) {
	return nil, model.ErrNotFound
}

type fakeTransfersModel struct {
	existing map[string]bool
	inserted []model.PortfolioTransfer
	latest   *time.Time
}

func (m *fakeTransfersModel) Insert(ctx context.Context, data *model.PortfolioTransfer) (sql.Result, error) {
	m.inserted = append(m.inserted, *data)
	return nil, nil
}

func (m *fakeTransfersModel) ExistsByTransferId(ctx context.Context, transferId string) (bool, error) {
	return m.existing[transferId], nil
}

func (m *fakeTransfersModel) LatestNetworkDatetime(ctx context.Context, providerName string) (*time.Time, error) {
	return m.latest, nil
}

type fixture struct {
	provider    *fakeProvider
	instruments *fakeInstrumentsModel
	orders      *fakeOrdersModel
	pnl         *fakePnLModel
	executions  *fakeExecutionsModel
	balances    *fakeBalancesModel
	transfers   *fakeTransfersModel
}

func newFixture(opts Options) (*Importer, *fixture) {
	f := &fixture{
		provider:    &fakeProvider{},
		instruments: &fakeInstrumentsModel{existing: map[string]bool{}, existsErr: map[string]error{}},
		orders:      &fakeOrdersModel{existing: map[string]*model.TradeOrder{}, existsErr: map[string]error{}},
		pnl:         &fakePnLModel{existing: map[string]bool{}},
		executions:  &fakeExecutionsModel{existing: map[string]bool{}},
		balances:    &fakeBalancesModel{},
		transfers:   &fakeTransfersModel{existing: map[string]bool{}},
	}
	imp := New(f.provider, Models{
		MarketInstruments:    f.instruments,
		TradeOrders:          f.orders,
		TradePnLTransactions: f.pnl,
		TradeExecutions:      f.executions,
		WalletBalances:       f.balances,
		PortfolioTransfers:   f.transfers,
	}, opts)
	return imp, f
}

func tradeOrder(orderID string, status provider.OrderStatus) provider.TradeOrder {
	return provider.TradeOrder{
		InstrumentName: "BTCUSDT",
		OrderID:        orderID,
		Side:           provider.OrderSideBuy,
		Quantity:       decimal.RequireFromString("1"),
		Status:         status,
		CreatedAt:      time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2023, 4, 1, 10, 0, 1, 0, time.UTC),
	}
}

func TestImportMarketInstrumentsSkipsExisting(t *testing.T) {
	imp, f := newFixture(Options{})
	f.provider.instruments = []provider.MarketInstrument{
		{Name: "BTCUSDT", Status: "Trading"},
		{Name: "ETHUSDT", Status: "Trading"},
	}
	f.instruments.existing["BTCUSDT"] = true

	require.NoError(t, imp.ImportMarketInstruments(context.Background(), provider.TradingCategoryLinear))
	require.Len(t, f.instruments.inserted, 1)
	require.Equal(t, "ETHUSDT", f.instruments.inserted[0].Name)
	require.Equal(t, "BYBIT", f.instruments.inserted[0].Provider)
	require.Equal(t, "linear", f.instruments.inserted[0].TradingCategory)
}

func TestImportTradeOrdersIsIdempotent(t *testing.T) {
	imp, f := newFixture(Options{})
	f.provider.orders = []provider.TradeOrder{
		tradeOrder("order-1", provider.OrderStatusFilled),
		tradeOrder("order-2", provider.OrderStatusFilled),
	}
	f.orders.existing["order-1"] = &model.TradeOrder{Id: 1, OrderId: "order-1"}

	require.NoError(t, imp.ImportTradeOrders(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", "", nil))
	require.Len(t, f.orders.inserted, 1)
	require.Equal(t, "order-2", f.orders.inserted[0].OrderId)

	// A second run against the now-complete table inserts nothing.
	f.orders.existing["order-2"] = &model.TradeOrder{Id: 2, OrderId: "order-2"}
	f.orders.inserted = nil
	require.NoError(t, imp.ImportTradeOrders(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", "", nil))
	require.Empty(t, f.orders.inserted)
}

func TestImportTradeOrdersIsolatesRecordFailures(t *testing.T) {
	imp, f := newFixture(Options{})
	f.provider.orders = []provider.TradeOrder{
		tradeOrder("order-1", provider.OrderStatusFilled),
		tradeOrder("order-2", provider.OrderStatusFilled),
		tradeOrder("order-3", provider.OrderStatusFilled),
	}
	f.orders.existsErr["order-2"] = errors.New("connection reset")

	require.NoError(t, imp.ImportTradeOrders(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", "", nil))
	require.Len(t, f.orders.inserted, 2)
	require.Equal(t, "order-1", f.orders.inserted[0].OrderId)
	require.Equal(t, "order-3", f.orders.inserted[1].OrderId)
}

func TestImportTradeOrdersProviderErrorAbortsQuietly(t *testing.T) {
	imp, f := newFixture(Options{})
	f.provider.ordersErr = provider.NewError(provider.NameByBit, "GetTradeOrders", errors.New("boom"), "symbol=%s", "BTCUSDT")

	require.NoError(t, imp.ImportTradeOrders(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", "", nil))
	require.Empty(t, f.orders.inserted)
}

func TestImportTradePnLRejectsPartialWindow(t *testing.T) {
	imp, f := newFixture(Options{})
	from := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)

	err := imp.ImportTradePnLTransactions(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", &from, nil)
	require.ErrorIs(t, err, ErrPartialWindow)
	require.Zero(t, f.provider.calls)
}

func TestImportTradePnLDerivesWindowFromLatest(t *testing.T) {
	imp, f := newFixture(Options{})
	latest := time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC)
	f.pnl.latest = &latest

	require.NoError(t, imp.ImportTradePnLTransactions(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", nil, nil))
	require.NotNil(t, f.provider.lastPnLQuery)
	require.NotNil(t, f.provider.lastPnLQuery.From)
	require.Equal(t, latest, *f.provider.lastPnLQuery.From)
	require.Nil(t, f.provider.lastPnLQuery.To)
}

func TestImportTradePnLFetchesUnboundedWhenTableEmpty(t *testing.T) {
	imp, f := newFixture(Options{})

	require.NoError(t, imp.ImportTradePnLTransactions(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", nil, nil))
	require.NotNil(t, f.provider.lastPnLQuery)
	require.Nil(t, f.provider.lastPnLQuery.From)
	require.Nil(t, f.provider.lastPnLQuery.To)
}

func TestImportTradePnLRequiresTerminalOrder(t *testing.T) {
	imp, f := newFixture(Options{})
	f.provider.pnl = []provider.TradePnLPosition{
		{InstrumentName: "BTCUSDT", OrderID: "order-open", Side: provider.OrderSideBuy, CreatedAt: time.Now().UTC()},
		{InstrumentName: "BTCUSDT", OrderID: "order-missing", Side: provider.OrderSideBuy, CreatedAt: time.Now().UTC()},
		{InstrumentName: "BTCUSDT", OrderID: "order-filled", Side: provider.OrderSideBuy, CreatedAt: time.Now().UTC()},
	}
	f.orders.existing["order-open"] = &model.TradeOrder{Id: 1, OrderId: "order-open", OrderStatus: "new"}
	f.orders.existing["order-filled"] = &model.TradeOrder{Id: 2, OrderId: "order-filled", OrderStatus: "filled"}

	require.NoError(t, imp.ImportTradePnLTransactions(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", nil, nil))
	require.Len(t, f.pnl.inserted, 1)
	require.Equal(t, int64(2), f.pnl.inserted[0].TradeOrderId)
}

func TestImportTradeExecutionsPersistsNullOrderReference(t *testing.T) {
	imp, f := newFixture(Options{})
	f.provider.executions = []provider.TradeExecution{
		{
			InstrumentName: "BTCUSDT",
			ExecutionID:    "exec-funding",
			Side:           provider.OrderSideBuy,
			Type:           provider.ExecutionTypeFunding,
			CreatedAt:      time.Now().UTC(),
		},
		{
			InstrumentName: "BTCUSDT",
			OrderID:        "order-1",
			ExecutionID:    "exec-trade",
			Side:           provider.OrderSideBuy,
			Type:           provider.ExecutionTypeTrade,
			CreatedAt:      time.Now().UTC(),
		},
	}
	f.orders.existing["order-1"] = &model.TradeOrder{Id: 7, OrderId: "order-1", OrderStatus: "filled"}

	require.NoError(t, imp.ImportTradeExecutions(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", provider.ExecutionTypeTrade, nil, nil))
	require.Len(t, f.executions.inserted, 2)
	require.False(t, f.executions.inserted[0].TradeOrderId.Valid)
	require.True(t, f.executions.inserted[1].TradeOrderId.Valid)
	require.Equal(t, int64(7), f.executions.inserted[1].TradeOrderId.Int64)
}

func TestImportTradeExecutionsSkipsExisting(t *testing.T) {
	imp, f := newFixture(Options{})
	f.provider.executions = []provider.TradeExecution{
		{InstrumentName: "BTCUSDT", ExecutionID: "exec-1", Side: provider.OrderSideBuy, Type: provider.ExecutionTypeTrade, CreatedAt: time.Now().UTC()},
	}
	f.executions.existing["exec-1"] = true

	require.NoError(t, imp.ImportTradeExecutions(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", provider.ExecutionTypeTrade, nil, nil))
	require.Empty(t, f.executions.inserted)
}

func TestImportWalletBalancesAppendsSnapshots(t *testing.T) {
	imp, f := newFixture(Options{})
	f.provider.balances = []provider.WalletBalance{
		{Currency: "USDT", Amount: decimal.RequireFromString("1520.25")},
		{Currency: "BTC", Amount: decimal.RequireFromString("0.2")},
	}

	require.NoError(t, imp.ImportWalletBalances(context.Background(), provider.WalletTypeDerivative, ""))
	require.Len(t, f.balances.inserted, 2)
	require.Equal(t, "DERIVATIVE", f.balances.inserted[0].WalletType)
}

func TestImportWalletTransfersFiltersByWalletType(t *testing.T) {
	imp, f := newFixture(Options{})
	f.provider.transfers = []provider.WalletTransfer{
		{
			TransferID:      "transfer-1",
			Currency:        "USDT",
			FromWalletType:  provider.WalletTypeSpot,
			ToWalletType:    provider.WalletTypeDerivative,
			Amount:          decimal.RequireFromString("100"),
			NetworkDatetime: time.Now().UTC(),
		},
		{
			TransferID:      "transfer-2",
			Currency:        "USDT",
			FromWalletType:  provider.WalletTypeSpot,
			ToWalletType:    provider.WalletTypeFunding,
			Amount:          decimal.RequireFromString("50"),
			NetworkDatetime: time.Now().UTC(),
		},
	}

	require.NoError(t, imp.ImportWalletInternalTransfers(context.Background(), provider.WalletTypeDerivative, "USDT", nil, nil))
	require.Len(t, f.transfers.inserted, 1)
	require.Equal(t, "transfer-1", f.transfers.inserted[0].TransferId)
}

func TestImportWalletTransfersRejectsPartialWindow(t *testing.T) {
	imp, f := newFixture(Options{})
	to := time.Now().UTC()

	err := imp.ImportWalletInternalTransfers(context.Background(), provider.WalletTypeDerivative, "USDT", nil, &to)
	require.ErrorIs(t, err, ErrPartialWindow)
	require.Zero(t, f.provider.calls)
}

func TestDryRunChecksButNeverWrites(t *testing.T) {
	imp, f := newFixture(Options{DryRun: true})
	f.provider.orders = []provider.TradeOrder{tradeOrder("order-1", provider.OrderStatusFilled)}
	f.provider.pnl = []provider.TradePnLPosition{
		{InstrumentName: "BTCUSDT", OrderID: "order-1", Side: provider.OrderSideBuy, CreatedAt: time.Now().UTC()},
	}

	require.NoError(t, imp.ImportTradeOrders(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", "", nil))
	require.NoError(t, imp.ImportTradePnLTransactions(context.Background(), provider.TradingCategoryLinear, "BTCUSDT", nil, nil))
	require.Empty(t, f.orders.inserted)
	require.Empty(t, f.pnl.inserted)
}
