package importer

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/model"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// ImportWalletBalances snapshots the current per-currency balances of one
// account wallet. Snapshots are append-only; every run adds a new row per
// currency.
func (i *Importer) ImportWalletBalances(ctx context.Context, walletType provider.WalletType, currency string) error {
	logger := logx.WithContext(ctx)

	balances, err := i.provider.GetWalletBalances(ctx, provider.WalletBalancesQuery{
		WalletType: walletType,
		Currency:   currency,
	})
	if err != nil {
		logger.Errorf("unable to import wallet balances (provider=%s, wallet_type=%s, currency=%s): %v",
			i.providerName(), walletType, currency, err)
		return nil
	}
	if len(balances) == 0 {
		logger.Infof("no wallet balances fetched (provider=%s, wallet_type=%s, currency=%s)",
			i.providerName(), walletType, currency)
		return nil
	}

	imported := 0
	for _, balance := range balances {
		if i.opts.DryRun {
			logger.Infof("[dry-run] would insert wallet balance snapshot (provider=%s, wallet_type=%s, currency=%s)",
				i.providerName(), walletType, balance.Currency)
			continue
		}
		if _, err := i.models.WalletBalances.Insert(ctx, &model.WalletBalanceSnapshot{
			Provider:   i.providerName(),
			WalletType: walletType.String(),
			Currency:   balance.Currency,
			Amount:     balance.Amount,
		}); err != nil {
			logger.Errorf("unable to insert wallet balance snapshot (provider=%s, wallet_type=%s, currency=%s): %v",
				i.providerName(), walletType, balance.Currency, err)
			continue
		}
		imported++
	}
	logger.Infof("imported %d wallet balance snapshots (provider=%s, wallet_type=%s)",
		imported, i.providerName(), walletType)
	return nil
}

// ImportWalletInternalTransfers imports transfers between account wallets.
// Only transfers touching the requested wallet type are persisted; the rest
// are logged and discarded. Without an explicit window the import resumes
// from the latest persisted transfer of the provider.
func (i *Importer) ImportWalletInternalTransfers(ctx context.Context, walletType provider.WalletType, currency string, from, to *time.Time) error {
	logger := logx.WithContext(ctx)

	from, to, err := resolveWindow(ctx, from, to, func(ctx context.Context) (*time.Time, error) {
		return i.models.PortfolioTransfers.LatestNetworkDatetime(ctx, i.providerName())
	})
	if err != nil {
		return err
	}

	transfers, err := i.provider.GetWalletInternalTransfers(ctx, provider.WalletTransfersQuery{
		Currency: currency,
		From:     from,
		To:       to,
		Depth:    i.opts.Depth,
		Limit:    i.opts.Limit,
	})
	if err != nil {
		logger.Errorf("unable to import wallet transfers (provider=%s, wallet_type=%s, currency=%s): %v",
			i.providerName(), walletType, currency, err)
		return nil
	}
	if len(transfers) == 0 {
		logger.Infof("no wallet transfers fetched (provider=%s, wallet_type=%s, currency=%s)",
			i.providerName(), walletType, currency)
		return nil
	}

	imported := 0
	for _, transfer := range transfers {
		if transfer.FromWalletType != walletType && transfer.ToWalletType != walletType {
			logger.Infof("wallet transfer does not touch requested wallet, discarding (provider=%s, transfer_id=%s, from=%s, to=%s)",
				i.providerName(), transfer.TransferID, transfer.FromWalletType, transfer.ToWalletType)
			continue
		}
		exists, err := i.models.PortfolioTransfers.ExistsByTransferId(ctx, transfer.TransferID)
		if err != nil {
			logger.Errorf("unable to check wallet transfer (provider=%s, transfer_id=%s): %v",
				i.providerName(), transfer.TransferID, err)
			continue
		}
		if exists {
			continue
		}
		if i.opts.DryRun {
			logger.Infof("[dry-run] would insert wallet transfer (provider=%s, transfer_id=%s)",
				i.providerName(), transfer.TransferID)
			continue
		}
		if _, err := i.models.PortfolioTransfers.Insert(ctx, &model.PortfolioTransfer{
			TransferId:      transfer.TransferID,
			Provider:        i.providerName(),
			Currency:        transfer.Currency,
			Type:            transfer.Type,
			Status:          transfer.Status,
			FromWalletType:  transfer.FromWalletType.String(),
			ToWalletType:    transfer.ToWalletType.String(),
			Amount:          transfer.Amount,
			NetworkDatetime: transfer.NetworkDatetime,
		}); err != nil {
			logger.Errorf("unable to insert wallet transfer (provider=%s, transfer_id=%s): %v",
				i.providerName(), transfer.TransferID, err)
			continue
		}
		imported++
	}
	logger.Infof("imported %d wallet transfers (provider=%s, wallet_type=%s)", imported, i.providerName(), walletType)
	return nil
}
