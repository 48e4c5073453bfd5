package importer

import (
	"context"
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/model"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// ImportTradePnLTransactions imports closed-position PnL records for one
// instrument. Without an explicit window the import resumes from the latest
// persisted PnL record of the same instrument and provider; an empty table
// fetches without a lower bound. Every PnL record must reference an already
// imported order in a terminal state.
func (i *Importer) ImportTradePnLTransactions(ctx context.Context, category provider.TradingCategory, symbol string, from, to *time.Time) error {
	logger := logx.WithContext(ctx)

	from, to, err := resolveWindow(ctx, from, to, func(ctx context.Context) (*time.Time, error) {
		return i.models.TradePnLTransactions.LatestCreatedAt(ctx, symbol, i.providerName())
	})
	if err != nil {
		return err
	}

	pnlTransactions, err := i.provider.GetTradePositionsPnL(ctx, provider.TradePnLQuery{
		TradingCategory: category,
		Symbol:          symbol,
		From:            from,
		To:              to,
		Depth:           i.opts.Depth,
		Limit:           i.opts.Limit,
	})
	if err != nil {
		logger.Errorf("unable to import pnl transactions (provider=%s, category=%s, symbol=%s): %v",
			i.providerName(), category, symbol, err)
		return nil
	}
	if len(pnlTransactions) == 0 {
		logger.Infof("no pnl transactions fetched (provider=%s, symbol=%s)", i.providerName(), symbol)
		return nil
	}
	logger.Infof("fetched %d pnl transactions to import (provider=%s, symbol=%s)",
		len(pnlTransactions), i.providerName(), symbol)

	imported := 0
	for _, pnl := range pnlTransactions {
		if err := i.importPnLTransaction(ctx, category, pnl); err != nil {
			logger.Errorf("unable to import pnl transaction (provider=%s, symbol=%s, order_id=%s): %v",
				i.providerName(), pnl.InstrumentName, pnl.OrderID, err)
			continue
		}
		imported++
	}
	logger.Infof("imported %d pnl transactions (provider=%s, symbol=%s)", imported, i.providerName(), symbol)
	return nil
}

func (i *Importer) importPnLTransaction(ctx context.Context, category provider.TradingCategory, pnl provider.TradePnLPosition) error {
	logger := logx.WithContext(ctx)

	exists, err := i.models.TradePnLTransactions.ExistsByOrderIdAndCreatedAt(ctx, pnl.OrderID, pnl.CreatedAt)
	if err != nil {
		return err
	}
	if exists {
		logger.Infof("pnl transaction already exists (provider=%s, symbol=%s, order_id=%s)",
			i.providerName(), pnl.InstrumentName, pnl.OrderID)
		return nil
	}
	if i.opts.DryRun {
		logger.Infof("[dry-run] would insert pnl transaction (provider=%s, symbol=%s, order_id=%s)",
			i.providerName(), pnl.InstrumentName, pnl.OrderID)
		return nil
	}

	order, err := i.models.TradeOrders.FindOneByOrderId(ctx, pnl.OrderID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return errors.New("no owning trade order found")
		}
		return err
	}
	status, err := provider.ParseOrderStatus(order.OrderStatus)
	if err != nil {
		return err
	}
	if !status.IsTerminal() {
		return errors.New("owning trade order is not filled or cancelled")
	}

	if _, err := i.models.TradePnLTransactions.Insert(ctx, &model.TradePnLTransaction{
		InstrumentName:    pnl.InstrumentName,
		TradeOrderId:      order.Id,
		Provider:          i.providerName(),
		TradingCategory:   category.String(),
		Side:              pnl.Side.String(),
		Quantity:          pnl.Quantity,
		OrderPrice:        pnl.OrderPrice,
		OrderType:         pnl.OrderType,
		ClosedSize:        pnl.ClosedSize,
		TotalEntryValue:   pnl.TotalEntryValue,
		AverageEntryPrice: pnl.AverageEntryPrice,
		TotalExitValue:    pnl.TotalExitValue,
		AverageExitPrice:  pnl.AverageExitPrice,
		ClosedPnL:         pnl.ClosedPnL,
		CreatedAt:         pnl.CreatedAt,
	}); err != nil {
		return err
	}

	logger.Infof("created pnl transaction (provider=%s, symbol=%s, order_id=%s)",
		i.providerName(), pnl.InstrumentName, pnl.OrderID)
	return nil
}
