package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// HandleOrder settles access to one asset and returns the transaction id to
// hand to the Provider.
//
// When the provider fee carries a non-zero amount the datatoken is first
// approved to pull it from the payer. Then:
//
//	valid order, no provider fee  -> the prior order id, no transaction
//	valid order, provider fee     -> reuseOrder
//	no valid order                -> startOrder
func HandleOrder(ctx context.Context, payer Payer, o Order) (string, error) {
	if o.Payer == nil {
		return "", errors.New("payer account required")
	}
	if o.Init == nil {
		return "", errors.New("initialize answer required")
	}

	if fee := o.Init.ProviderFee; fee.Owed() {
		token := common.HexToAddress(fee.ProviderFeeToken)
		if _, err := payer.ApproveWei(ctx, token, o.Payer, o.Datatoken, fee.ProviderFeeAmount.Big()); err != nil {
			return "", fmt.Errorf("approve provider fee: %w", err)
		}
	}

	s := NewStrategy(payer, o)
	zap.L().Debug("resolving order",
		zap.String("datatoken", o.Datatoken.Hex()),
		zap.Stringer("state", s.State()))
	return s.Pay(ctx)
}
