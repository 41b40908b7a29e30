// Package payment resolves how access to a compute asset is paid for.
//
// The Provider's initialize answer for an asset carries an optional prior
// order (validOrder) and an optional signed fee quote (providerFee).
// Classify turns that pair into an OrderState and NewStrategy picks the
// matching Strategy:
//
//   - ValidStrategy: the prior order is still valid and nothing is owed
//   - ReuseStrategy: the prior order is reused with a new provider fee
//   - StartStrategy: a new order is started on the datatoken
//
// HandleOrder wraps the full sequence, approving the fee token first when the
// quote carries a non-zero amount:
//
//	tx, err := payment.HandleOrder(ctx, evm, payment.Order{
//		Init:      init.Algorithm,
//		Datatoken: common.HexToAddress(init.Algorithm.Datatoken),
//		Payer:     consumer,
//		Consumer:  common.HexToAddress(env.ConsumerAddress),
//	})
//
// The returned id is passed to the Provider as transferTxId.
package payment
