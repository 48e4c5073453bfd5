package importer

import (
	"context"
	"errors"
	"time"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/model"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// ErrPartialWindow is returned when only one bound of an import window is
// provided. Windows are both-or-neither; the check runs before any network
// call.
var ErrPartialWindow = errors.New("importer: from and to datetimes must be provided together")

// Models bundles the persistence collaborators the importer reconciles
// against.
type Models struct {
	MarketInstruments    model.MarketInstrumentsModel
	TradeOrders          model.TradeOrdersModel
	TradePnLTransactions model.TradePnLTransactionsModel
	TradeExecutions      model.TradeExecutionsModel
	WalletBalances       model.WalletBalancesModel
	PortfolioTransfers   model.PortfolioTransfersModel
}

// Options tunes importer behaviour.
type Options struct {
	// DryRun runs every fetch and idempotency check but skips writes.
	DryRun bool
	// Depth caps how many pages each provider fetch walks.
	Depth int
	// Limit is the per-page record limit requested from the provider.
	Limit int
}

// Importer drives idempotent, incrementally resuming imports of provider
// data into the local store. Fetch failures abort only the category being
// imported; individual record failures are logged and skipped.
type Importer struct {
	provider provider.Provider
	models   Models
	opts     Options
}

// New constructs an Importer for one provider instance.
func New(p provider.Provider, models Models, opts Options) *Importer {
	return &Importer{
		provider: p,
		models:   models,
		opts:     opts,
	}
}

func (i *Importer) providerName() string {
	return i.provider.Name().String()
}

// resolveWindow validates the requested import window and derives the lower
// bound from the latest persisted record when no window is given. A table
// with no matching rows yields an unbounded fetch.
func resolveWindow(ctx context.Context, from, to *time.Time, latest func(context.Context) (*time.Time, error)) (*time.Time, *time.Time, error) {
	if (from == nil) != (to == nil) {
		return nil, nil, ErrPartialWindow
	}
	if from != nil {
		return from, to, nil
	}
	persisted, err := latest(ctx)
	if err != nil {
		return nil, nil, err
	}
	return persisted, nil, nil
}
