package importer

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/model"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// ImportMarketInstruments resyncs the full instrument catalog for one
// trading category. The catalog has no import window; already persisted
// instruments are recognised by name and provider and left untouched.
func (i *Importer) ImportMarketInstruments(ctx context.Context, category provider.TradingCategory) error {
	logger := logx.WithContext(ctx)

	instruments, err := i.provider.GetMarketInstruments(ctx, provider.MarketInstrumentsQuery{
		TradingCategory: category,
		Depth:           i.opts.Depth,
		Limit:           i.opts.Limit,
	})
	if err != nil {
		logger.Errorf("unable to import market instruments (provider=%s, category=%s): %v",
			i.providerName(), category, err)
		return nil
	}
	if len(instruments) == 0 {
		logger.Infof("no market instruments fetched (provider=%s, category=%s)", i.providerName(), category)
		return nil
	}

	imported := 0
	for _, instrument := range instruments {
		exists, err := i.models.MarketInstruments.ExistsByNameAndProvider(ctx, instrument.Name, i.providerName())
		if err != nil {
			logger.Errorf("unable to check market instrument (provider=%s, name=%s): %v",
				i.providerName(), instrument.Name, err)
			continue
		}
		if exists {
			continue
		}
		if i.opts.DryRun {
			logger.Infof("[dry-run] would insert market instrument (provider=%s, name=%s)",
				i.providerName(), instrument.Name)
			continue
		}
		if _, err := i.models.MarketInstruments.Insert(ctx, &model.MarketInstrument{
			Name:            instrument.Name,
			Status:          instrument.Status,
			Provider:        i.providerName(),
			TradingCategory: category.String(),
		}); err != nil {
			logger.Errorf("unable to insert market instrument (provider=%s, name=%s): %v",
				i.providerName(), instrument.Name, err)
			continue
		}
		imported++
	}
	logger.Infof("imported %d market instruments (provider=%s, category=%s)", imported, i.providerName(), category)
	return nil
}
