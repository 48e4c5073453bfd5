package importer

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/model"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// ImportTradeOrders imports historical orders for one instrument. Orders are
// recognised by their provider order id; existing rows are left untouched.
func (i *Importer) ImportTradeOrders(ctx context.Context, category provider.TradingCategory, symbol, orderID string, status *provider.OrderStatus) error {
	logger := logx.WithContext(ctx)

	orders, err := i.provider.GetTradeOrders(ctx, provider.TradeOrdersQuery{
		TradingCategory: category,
		Symbol:          symbol,
		OrderID:         orderID,
		Status:          status,
		Depth:           i.opts.Depth,
		Limit:           i.opts.Limit,
	})
	if err != nil {
		logger.Errorf("unable to import trade orders (provider=%s, category=%s, symbol=%s): %v",
			i.providerName(), category, symbol, err)
		return nil
	}
	if len(orders) == 0 {
		logger.Infof("no trade orders fetched (provider=%s, symbol=%s)", i.providerName(), symbol)
		return nil
	}
	logger.Infof("fetched %d trade orders to import (provider=%s, symbol=%s)", len(orders), i.providerName(), symbol)

	imported := 0
	for _, order := range orders {
		exists, err := i.models.TradeOrders.ExistsByOrderId(ctx, order.OrderID)
		if err != nil {
			logger.Errorf("unable to check trade order (provider=%s, symbol=%s, order_id=%s): %v",
				i.providerName(), symbol, order.OrderID, err)
			continue
		}
		if exists {
			continue
		}
		if i.opts.DryRun {
			logger.Infof("[dry-run] would insert trade order (provider=%s, symbol=%s, order_id=%s)",
				i.providerName(), symbol, order.OrderID)
			continue
		}
		if _, err := i.models.TradeOrders.Insert(ctx, &model.TradeOrder{
			InstrumentName:        order.InstrumentName,
			OrderId:               order.OrderID,
			Provider:              i.providerName(),
			TradingCategory:       category.String(),
			Side:                  order.Side.String(),
			Quantity:              order.Quantity,
			Price:                 order.Price,
			AveragePrice:          order.AveragePrice,
			OrderType:             order.Type,
			OrderStatus:           order.Status.String(),
			TotalExecutedValue:    order.TotalExecutedValue,
			TotalExecutedQuantity: order.TotalExecutedQuantity,
			TotalExecutedFee:      order.TotalExecutedFee,
			CreatedAt:             order.CreatedAt,
			UpdatedAt:             order.UpdatedAt,
		}); err != nil {
			logger.Errorf("unable to insert trade order (provider=%s, symbol=%s, order_id=%s): %v",
				i.providerName(), symbol, order.OrderID, err)
			continue
		}
		imported++
	}
	logger.Infof("imported %d trade orders (provider=%s, symbol=%s)", imported, i.providerName(), symbol)
	return nil
}
