package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/cli"
	"github.com/gmuwork/sailfish-investment-portfolio/internal/config"
	"github.com/gmuwork/sailfish-investment-portfolio/internal/importer"
	"github.com/gmuwork/sailfish-investment-portfolio/internal/svc"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"

	// Import for side-effects: registers the ByBit provider builder
	_ "github.com/gmuwork/sailfish-investment-portfolio/pkg/provider/bybit"
)

var configFile = flag.String("f", "etc/sailfish.yaml", "path to the application config file")

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg := config.MustLoad(*configFile)
	logx.DisableStat()
	cli.LogConfigSummary(cfg)

	// Fall back to the standalone provider config when the main file does
	// not reference one.
	if cfg.Provider.Value == nil {
		cfg.Provider.Value = config.MustLoadProvider()
	}

	svcCtx := svc.NewServiceContext(*cfg)
	if svcCtx.ProviderFactory == nil {
		fatalf("no provider configuration loaded; set the provider section in %s", *configFile)
	}
	if svcCtx.DBConn == nil {
		fatalf("no postgres DSN configured; set postgres.dsn in %s", *configFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch command := args[0]; command {
	case "trading-data":
		err = runTradingData(ctx, svcCtx, args[1:])
	case "wallet-balances":
		err = runWalletBalances(ctx, svcCtx, args[1:])
	case "account-transfers":
		err = runAccountTransfers(ctx, svcCtx, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: importer [-f config.yaml] <command> [flags]

Commands:
  trading-data       import instrument catalog, orders, pnl and executions
  wallet-balances    snapshot per-currency balances of one account wallet
  account-transfers  import transfers between account wallets

Run "importer <command> -h" for command flags.
`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "importer: "+format+"\n", args...)
	os.Exit(1)
}

// newImporter resolves the requested provider and binds it to the persistence
// models. The page depth override comes from the -pages flag; zero keeps the
// configured default.
func newImporter(svcCtx *svc.ServiceContext, name provider.Name, pages int, dryRun bool) (*importer.Importer, error) {
	p, err := svcCtx.ProviderFactory.Create(name)
	if err != nil {
		return nil, err
	}
	depth := svcCtx.Config.Importer.PageDepth
	if pages > 0 {
		depth = pages
	}
	return importer.New(p, importer.Models{
		MarketInstruments:    svcCtx.MarketInstrumentsModel,
		TradeOrders:          svcCtx.TradeOrdersModel,
		TradePnLTransactions: svcCtx.TradePnLTransactionsModel,
		TradeExecutions:      svcCtx.TradeExecutionsModel,
		WalletBalances:       svcCtx.WalletBalancesModel,
		PortfolioTransfers:   svcCtx.PortfolioTransfersModel,
	}, importer.Options{
		DryRun: dryRun,
		Depth:  depth,
		Limit:  svcCtx.Config.Importer.PageSize,
	}), nil
}
