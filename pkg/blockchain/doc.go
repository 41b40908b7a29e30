// Package blockchain provides low-level Ethereum interaction for Ocean
// Protocol assets.
//
// This package contains a client and utilities for interacting with:
//   - ERC721Factory, which deploys a data NFT together with its datatoken
//   - ERC721Template (data NFT), which stores encrypted asset metadata
//   - ERC20Template (datatoken), which is minted, transferred and spent on orders
//   - the OCEAN token, used for funding and provider fees
//
// # Client
//
// InitEvm dials the node and records its chain id; every transaction is
// signed locally for that chain (EIP-155) and waited for with
// WaitForTransaction:
//
//	evm, err := blockchain.InitEvm(ctx, "http://127.0.0.1:8545", 5*time.Second, 12*time.Second, 90*time.Second)
//	if err != nil {
//		return err
//	}
//	defer evm.Close()
//
// Accounts are local keys:
//
//	publisher, err := blockchain.NewAccount(os.Getenv("PUBLISHER_PRIVATE_KEY"))
//
// # Contracts
//
// The contract ABIs are embedded (abi/*.json) and bound at call time with
// bind.NewBoundContract, so one EVMClient serves every NFT and datatoken
// address the workflow creates:
//
//	created, err := evm.CreateNftWithDatatoken(ctx, factory, publisher,
//		blockchain.DefaultNftCreateData("D1Min", "D1M", publisher.Address),
//		blockchain.DefaultErcCreateData("Datatoken D1Min", "D1MDT", publisher.Address))
//
// The deployed addresses come from the NFTCreated and TokenCreated events of
// the receipt; ErrEventNotFound reports a receipt without them.
//
// # Orders
//
// StartOrder and ReuseOrder take the on-chain fee tuples. Provider quotes are
// converted with ProviderFeeFromModel; a nil quote is the zero fee.
//
// # Amounts
//
// ToWei and FromWei convert between token amounts and base units using
// shopspring/decimal, so no precision is lost for 18-decimal tokens:
//
//	wei, _ := blockchain.ToWei("1000", 18) // 1000 * 10^18
//
// # Signatures
//
// GetSignature signs keccak256(message) with the Ethereum personal-sign
// prefix. SignHash returns the same signature hex-encoded with V in {27, 28},
// which is what the Provider verifies on compute requests.
package blockchain
