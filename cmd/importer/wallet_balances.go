package main

import (
	"context"
	"flag"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/svc"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// runWalletBalances snapshots the per-currency balances of one account
// wallet.
func runWalletBalances(ctx context.Context, svcCtx *svc.ServiceContext, args []string) error {
	fs := flag.NewFlagSet("wallet-balances", flag.ExitOnError)
	providerFlag := fs.String("provider", "BYBIT", "provider name")
	walletFlag := fs.String("wallet-type", "", "wallet type (DERIVATIVE, SPOT, FUNDING, OPTION, UNIFIED)")
	currencyFlag := fs.String("currency", "", "restrict the snapshot to one currency")
	if err := fs.Parse(args); err != nil {
		return err
	}

	name, err := provider.ParseName(*providerFlag)
	if err != nil {
		return err
	}
	walletType, err := provider.ParseWalletType(*walletFlag)
	if err != nil {
		return err
	}

	imp, err := newImporter(svcCtx, name, 0, false)
	if err != nil {
		return err
	}
	return imp.ImportWalletBalances(ctx, walletType, *currencyFlag)
}
