package svc

import (
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/cache"
	"github.com/gmuwork/sailfish-investment-portfolio/internal/config"
	"github.com/gmuwork/sailfish-investment-portfolio/internal/model"
	providerpkg "github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
	_ "github.com/gmuwork/sailfish-investment-portfolio/pkg/provider/bybit"
)

type ServiceContext struct {
	Config config.Config

	ProviderFactory *providerpkg.Factory

	Redis *redis.Redis
	TTL   cache.TTLSet

	DBConn                    sqlx.SqlConn
	MarketInstrumentsModel    model.MarketInstrumentsModel
	TradeOrdersModel          model.TradeOrdersModel
	TradePnLTransactionsModel model.TradePnLTransactionsModel
	TradeExecutionsModel      model.TradeExecutionsModel
	WalletBalancesModel       model.WalletBalancesModel
	PortfolioTransfersModel   model.PortfolioTransfersModel
}

func NewServiceContext(c config.Config) *ServiceContext {
	svc := &ServiceContext{
		Config: c,
		TTL:    cache.NewTTLSet(c.TTL),
	}

	if c.Provider.Value != nil {
		// Test environments always talk to testnet endpoints, regardless of
		// what the provider config says.
		if c.IsTestEnv() {
			for _, providerCfg := range c.Provider.Value.Providers {
				providerCfg.Testnet = true
			}
		}
		svc.ProviderFactory = providerpkg.NewFactory(c.Provider.Value)
	}

	if c.Redis.Host != "" {
		svc.Redis = redis.MustNewRedis(c.Redis)
	}

	if c.Postgres.DSN != "" {
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		svc.DBConn = conn
		svc.MarketInstrumentsModel = model.NewMarketInstrumentsModel(conn)
		svc.TradeOrdersModel = model.NewTradeOrdersModel(conn)
		svc.TradePnLTransactionsModel = model.NewTradePnLTransactionsModel(conn)
		svc.TradeExecutionsModel = model.NewTradeExecutionsModel(conn)
		svc.WalletBalancesModel = model.NewWalletBalancesModel(conn)
		svc.PortfolioTransfersModel = model.NewPortfolioTransfersModel(conn)
	}
	return svc
}
