package payment

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/shamank/ocean-c2d-go/pkg/blockchain"
	"github.com/shamank/ocean-c2d-go/pkg/model"
)

// ValidStrategy reuses a still-valid prior order without any transaction.
type ValidStrategy struct {
	order Order
}

func (s *ValidStrategy) State() OrderState { return OrderValid }

func (s *ValidStrategy) Pay(_ context.Context) (string, error) {
	zap.L().Debug("order still valid",
		zap.String("datatoken", s.order.Datatoken.Hex()),
		zap.String("order", s.order.Init.ValidOrder))
	return s.order.Init.ValidOrder, nil
}

// ReuseStrategy pays a fresh provider fee against a prior order.
type ReuseStrategy struct {
	payer Payer
	order Order
}

func (s *ReuseStrategy) State() OrderState { return OrderReuseWithFee }

func (s *ReuseStrategy) Pay(ctx context.Context) (string, error) {
	orderID, err := parseOrderID(s.order.Init.ValidOrder)
	if err != nil {
		return "", err
	}
	fee, err := blockchain.ProviderFeeFromModel(s.order.Init.ProviderFee)
	if err != nil {
		return "", err
	}
	tx, err := s.payer.ReuseOrder(ctx, s.order.Datatoken, s.order.Payer, orderID, fee)
	if err != nil {
		return "", fmt.Errorf("reuse order: %w", err)
	}
	zap.L().Info("order reused",
		zap.String("datatoken", s.order.Datatoken.Hex()),
		zap.String("tx", tx.Hex()))
	return tx.Hex(), nil
}

// StartStrategy starts a new order for the consumer.
type StartStrategy struct {
	payer Payer
	order Order
}

func (s *StartStrategy) State() OrderState { return OrderFresh }

func (s *StartStrategy) Pay(ctx context.Context) (string, error) {
	var quote *model.ProviderFees
	if s.order.Init != nil {
		quote = s.order.Init.ProviderFee
	}
	fee, err := blockchain.ProviderFeeFromModel(quote)
	if err != nil {
		return "", err
	}
	market := blockchain.ConsumeMarketFeeFromModel(s.order.MarketFee)

	tx, err := s.payer.StartOrder(ctx, s.order.Datatoken, s.order.Payer, s.order.Consumer,
		big.NewInt(int64(s.order.ServiceIndex)), fee, market)
	if err != nil {
		return "", fmt.Errorf("start order: %w", err)
	}
	zap.L().Info("order started",
		zap.String("datatoken", s.order.Datatoken.Hex()),
		zap.String("consumer", s.order.Consumer.Hex()),
		zap.String("tx", tx.Hex()))
	return tx.Hex(), nil
}
