package importer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/model"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// ImportTradeExecutions imports executions for one instrument. Without an
// explicit window the import resumes from the latest persisted execution of
// the same instrument, provider and execution type. Executions the provider
// does not attribute to an order persist with a null order reference.
func (i *Importer) ImportTradeExecutions(ctx context.Context, category provider.TradingCategory, symbol string, executionType provider.ExecutionType, from, to *time.Time) error {
	logger := logx.WithContext(ctx)

	from, to, err := resolveWindow(ctx, from, to, func(ctx context.Context) (*time.Time, error) {
		return i.models.TradeExecutions.LatestCreatedAt(ctx, symbol, i.providerName(), executionType.String())
	})
	if err != nil {
		return err
	}

	executions, err := i.provider.GetTradeExecutions(ctx, provider.TradeExecutionsQuery{
		TradingCategory: category,
		Symbol:          symbol,
		ExecutionType:   &executionType,
		From:            from,
		To:              to,
		Depth:           i.opts.Depth,
		Limit:           i.opts.Limit,
	})
	if err != nil {
		logger.Errorf("unable to import trade executions (provider=%s, category=%s, symbol=%s): %v",
			i.providerName(), category, symbol, err)
		return nil
	}
	if len(executions) == 0 {
		logger.Infof("no trade executions fetched (provider=%s, symbol=%s)", i.providerName(), symbol)
		return nil
	}
	logger.Infof("fetched %d trade executions to import (provider=%s, symbol=%s)",
		len(executions), i.providerName(), symbol)

	imported := 0
	for _, execution := range executions {
		if err := i.importExecution(ctx, category, execution); err != nil {
			logger.Errorf("unable to import trade execution (provider=%s, symbol=%s, execution_id=%s): %v",
				i.providerName(), execution.InstrumentName, execution.ExecutionID, err)
			continue
		}
		imported++
	}
	logger.Infof("imported %d trade executions (provider=%s, symbol=%s)", imported, i.providerName(), symbol)
	return nil
}

func (i *Importer) importExecution(ctx context.Context, category provider.TradingCategory, execution provider.TradeExecution) error {
	logger := logx.WithContext(ctx)

	exists, err := i.models.TradeExecutions.ExistsByExecutionId(ctx, execution.ExecutionID)
	if err != nil {
		return err
	}
	if exists {
		logger.Infof("trade execution already exists (provider=%s, symbol=%s, execution_id=%s)",
			i.providerName(), execution.InstrumentName, execution.ExecutionID)
		return nil
	}
	if i.opts.DryRun {
		logger.Infof("[dry-run] would insert trade execution (provider=%s, symbol=%s, execution_id=%s)",
			i.providerName(), execution.InstrumentName, execution.ExecutionID)
		return nil
	}

	var orderRef sql.NullInt64
	if execution.OrderID != "" {
		order, err := i.models.TradeOrders.FindOneByOrderId(ctx, execution.OrderID)
		switch {
		case err == nil:
			orderRef = sql.NullInt64{Int64: order.Id, Valid: true}
		case errors.Is(err, model.ErrNotFound):
			logger.Infof("no owning trade order found, persisting without reference (provider=%s, execution_id=%s, order_id=%s)",
				i.providerName(), execution.ExecutionID, execution.OrderID)
		default:
			return err
		}
	}

	if _, err := i.models.TradeExecutions.Insert(ctx, &model.TradeExecution{
		InstrumentName:  execution.InstrumentName,
		TradeOrderId:    orderRef,
		ExecutionId:     execution.ExecutionID,
		Provider:        i.providerName(),
		TradingCategory: category.String(),
		Side:            execution.Side.String(),
		ExecutionFee:    execution.Fee,
		ExecutionPrice:  execution.Price,
		Quantity:        execution.Quantity,
		ExecutionType:   execution.Type.String(),
		ExecutionValue:  execution.Value,
		IsMaker:         execution.IsMaker,
		CreatedAt:       execution.CreatedAt,
	}); err != nil {
		return err
	}

	logger.Infof("created trade execution (provider=%s, symbol=%s, execution_id=%s)",
		i.providerName(), execution.InstrumentName, execution.ExecutionID)
	return nil
}
