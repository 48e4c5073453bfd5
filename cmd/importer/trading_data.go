package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/importer"
	"github.com/gmuwork/sailfish-investment-portfolio/internal/model"
	"github.com/gmuwork/sailfish-investment-portfolio/internal/svc"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// runTradingData imports the instrument catalog, then walks every persisted
// instrument of the category and imports its orders, closed PnL and
// executions. Instruments are paced apart to stay inside provider rate
// limits; a failing instrument is logged and the walk continues.
func runTradingData(ctx context.Context, svcCtx *svc.ServiceContext, args []string) error {
	fs := flag.NewFlagSet("trading-data", flag.ExitOnError)
	providerFlag := fs.String("provider", "BYBIT", "provider name")
	categoryFlag := fs.String("trading-category", "", "trading category (LINEAR, SPOT, OPTION, INVERSE)")
	pages := fs.Int("pages", 0, "page depth per fetch, overrides the configured default")
	fromFlag := fs.String("from-datetime", "", "window lower bound, RFC 3339")
	toFlag := fs.String("to-datetime", "", "window upper bound, RFC 3339")
	symbolFlag := fs.String("symbol", "", "restrict the import to one instrument")
	dryRun := fs.Bool("dry-run", false, "fetch and check but do not write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	name, err := provider.ParseName(*providerFlag)
	if err != nil {
		return err
	}
	category, err := provider.ParseTradingCategory(*categoryFlag)
	if err != nil {
		return err
	}
	from, to, err := parseWindowFlags(*fromFlag, *toFlag)
	if err != nil {
		return err
	}

	imp, err := newImporter(svcCtx, name, *pages, *dryRun)
	if err != nil {
		return err
	}

	if err := imp.ImportMarketInstruments(ctx, category); err != nil {
		return err
	}

	instruments, err := svcCtx.MarketInstrumentsModel.FindAllByProviderAndCategory(ctx, name.String(), category.String())
	if err != nil {
		return fmt.Errorf("list persisted instruments: %w", err)
	}
	if *symbolFlag != "" {
		instruments = filterInstruments(instruments, *symbolFlag)
		if len(instruments) == 0 {
			return fmt.Errorf("instrument %q is not persisted for provider %s", *symbolFlag, name)
		}
	}

	logger := logx.WithContext(ctx)
	logger.Infof("importing trading data for %d instruments (provider=%s, category=%s)", len(instruments), name, category)

	delay := time.Duration(svcCtx.Config.Importer.InstrumentDelayMs) * time.Millisecond
	for idx, instrument := range instruments {
		if err := importInstrument(ctx, imp, category, instrument.Name, from, to); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Errorf("unable to import trading data (symbol=%s): %v", instrument.Name, err)
		}
		if idx < len(instruments)-1 && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil
}

func importInstrument(ctx context.Context, imp *importer.Importer, category provider.TradingCategory, symbol string, from, to *time.Time) error {
	if err := imp.ImportTradeOrders(ctx, category, symbol, "", nil); err != nil {
		return err
	}
	if err := imp.ImportTradePnLTransactions(ctx, category, symbol, from, to); err != nil {
		return err
	}
	return imp.ImportTradeExecutions(ctx, category, symbol, provider.ExecutionTypeTrade, from, to)
}

func filterInstruments(instruments []model.MarketInstrument, symbol string) []model.MarketInstrument {
	for _, instrument := range instruments {
		if instrument.Name == symbol {
			return []model.MarketInstrument{instrument}
		}
	}
	return nil
}
