package main

import (
	"context"
	"flag"

	"github.com/gmuwork/sailfish-investment-portfolio/internal/svc"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// runAccountTransfers imports internal transfers touching one account
// wallet.
func runAccountTransfers(ctx context.Context, svcCtx *svc.ServiceContext, args []string) error {
	fs := flag.NewFlagSet("account-transfers", flag.ExitOnError)
	providerFlag := fs.String("provider", "BYBIT", "provider name")
	walletFlag := fs.String("wallet-type", "", "wallet type (DERIVATIVE, SPOT, FUNDING, OPTION, UNIFIED)")
	currencyFlag := fs.String("currency", "", "transfer currency, e.g. USDT")
	fromFlag := fs.String("from-datetime", "", "window lower bound, RFC 3339")
	toFlag := fs.String("to-datetime", "", "window upper bound, RFC 3339")
	dryRun := fs.Bool("dry-run", false, "fetch and check but do not write")
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
	from, to, err := parseWindowFlags(*fromFlag, *toFlag)
	if err != nil {
		return err
	}

	imp, err := newImporter(svcCtx, name, 0, *dryRun)
	if err != nil {
		return err
	}
	return imp.ImportWalletInternalTransfers(ctx, walletType, *currencyFlag, from, to)
}
