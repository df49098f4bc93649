package gate

import (
	"context"
	"net/url"
	"strings"

	"fundarb/internal/domain/model"
)

// WalletBalance returns the account total for the settle currency with
// the spot portion broken out.
func (c *Client) WalletBalance(ctx context.Context) (*model.Balance, error) {
	const op = "wallet.total_balance"
	params := url.Values{"currency": {strings.ToUpper(c.settle)}}
	var resp walletTotalResp
	if err := c.signedGet(ctx, op, "/api/v4/wallet/total_balance", params, &resp); err != nil {
		return nil, err
	}
	b := resp.toModel()
	return &b, nil
}
