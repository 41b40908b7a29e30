package sdk

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shamank/ocean-c2d-go/pkg/aquarius"
	"github.com/shamank/ocean-c2d-go/pkg/blockchain"
	"github.com/shamank/ocean-c2d-go/pkg/config"
	"github.com/shamank/ocean-c2d-go/pkg/model"
	"github.com/shamank/ocean-c2d-go/pkg/payment"
	"github.com/shamank/ocean-c2d-go/pkg/provider"
	"github.com/shamank/ocean-c2d-go/pkg/storage"
)

// Chain is the on-chain surface of the workflow. *blockchain.EVMClient
// implements it.
type Chain interface {
	payment.Payer
	ChainID() *big.Int
	CreateNftWithDatatoken(ctx context.Context, factory common.Address, owner *blockchain.Account, nft blockchain.NftCreateData, erc blockchain.ErcCreateData) (*blockchain.CreatedAsset, error)
	SetMetadata(ctx context.Context, nft common.Address, owner *blockchain.Account, md blockchain.MetadataUpdate) (common.Hash, error)
	Mint(ctx context.Context, token common.Address, minter *blockchain.Account, to common.Address, amount *big.Int) (common.Hash, error)
	Transfer(ctx context.Context, token common.Address, from *blockchain.Account, to common.Address, amount *big.Int) (common.Hash, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	IsMinter(ctx context.Context, datatoken, account common.Address) (bool, error)
	Close()
}

// Provider is the Ocean Provider surface. *provider.Client implements it.
type Provider interface {
	URL() string
	Info(ctx context.Context) (*provider.Info, error)
	Ping(ctx context.Context) error
	Encrypt(ctx context.Context, payload any, chainID *big.Int) (string, error)
	GetComputeEnvironments(ctx context.Context, chainID *big.Int) ([]model.ComputeEnvironment, error)
	InitializeCompute(ctx context.Context, assets []model.ComputeAsset, algorithm model.ComputeAlgorithm, envID string, validUntil int64, consumer common.Address) (*model.ProviderComputeInitializeResults, error)
	ComputeStart(ctx context.Context, consumer *blockchain.Account, envID string, dataset model.ComputeAsset, algorithm model.ComputeAlgorithm) ([]model.ComputeJob, error)
	ComputeStatus(ctx context.Context, consumer common.Address, jobID, documentID string) ([]model.ComputeJob, error)
	GetComputeResultURL(ctx context.Context, consumer *blockchain.Account, jobID string, index int) (string, error)
}

// Aquarius is the metadata cache surface. *aquarius.Client implements it.
type Aquarius interface {
	URL() string
	Ping(ctx context.Context) error
	Validate(ctx context.Context, ddo *model.DDO) (*aquarius.ValidationResult, error)
	Resolve(ctx context.Context, did string) (*model.DDO, error)
	WaitForAqua(ctx context.Context, did, txID string) (*model.DDO, error)
}

var logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            logLevel,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// SetDebug switches the default logger between info and debug level.
func SetDebug(on bool) {
	if on {
		logLevel.SetLevel(zapcore.DebugLevel)
		return
	}
	logLevel.SetLevel(zapcore.InfoLevel)
}

// Core is one compute-to-data session: the connected chain, the remote
// services and the two accounts taking part.
type Core struct {
	cfg       *config.Config
	chain     Chain
	provider  Provider
	aquarius  Aquarius
	storage   storage.Storage
	addresses *config.Addresses
	chainID   *big.Int
	publisher *blockchain.Account
	consumer  *blockchain.Account
	log       *zap.Logger
}

// Deps are the collaborators of a Core. Storage is optional.
type Deps struct {
	Chain     Chain
	Provider  Provider
	Aquarius  Aquarius
	Storage   storage.Storage
	Addresses *config.Addresses
	Publisher *blockchain.Account
	Consumer  *blockchain.Account
}

// New builds a Core from already constructed collaborators.
func New(cfg *config.Config, d Deps) (*Core, error) {
	if d.Chain == nil || d.Provider == nil || d.Aquarius == nil {
		return nil, fmt.Errorf("chain, provider and aquarius are required")
	}
	if d.Addresses == nil {
		return nil, fmt.Errorf("contract addresses are required")
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()
	chainID := d.Chain.ChainID()
	return &Core{
		cfg:       cfg,
		chain:     d.Chain,
		provider:  d.Provider,
		aquarius:  d.Aquarius,
		storage:   d.Storage,
		addresses: d.Addresses,
		chainID:   chainID,
		publisher: d.Publisher,
		consumer:  d.Consumer,
		log:       zap.L().With(zap.String("run", uuid.NewString()), zap.String("chain", chainID.String())),
	}, nil
}

// NewSDK validates cfg, loads the contract address file, parses the account
// keys, connects to the node and points the Provider and Aquarius clients at
// the endpoints of the connected chain. Configuration problems are reported
// before any network access.
func NewSDK(ctx context.Context, cfg *config.Config) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	SetDebug(cfg.Debug)

	addresses, err := config.LoadAddresses(cfg.AddressFile, cfg.AddressNetwork)
	if err != nil {
		return nil, err
	}

	var publisher, consumer *blockchain.Account
	if cfg.PublisherKey != "" {
		if publisher, err = blockchain.NewAccount(cfg.PublisherKey); err != nil {
			return nil, fmt.Errorf("publisher key: %w", err)
		}
	}
	if cfg.ConsumerKey != "" {
		if consumer, err = blockchain.NewAccount(cfg.ConsumerKey); err != nil {
			return nil, fmt.Errorf("consumer key: %w", err)
		}
	}

	evm, err := blockchain.InitEvm(ctx, cfg.NodeURI, cfg.Timeouts.Dial, cfg.Timeouts.ChainRead, cfg.Timeouts.ReceiptWait)
	if err != nil {
		return nil, fmt.Errorf("init ethereum client: %w", err)
	}
	cfg.ApplyNetwork(evm.ChainID().String())
	if cfg.ProviderURL == "" || cfg.AquariusURL == "" {
		evm.Close()
		return nil, fmt.Errorf("no provider or aquarius url known for chain %s", evm.ChainID())
	}

	var store storage.Storage
	if cfg.IpfsURL != "" {
		ipfs, err := storage.NewStorage(cfg.IpfsURL, cfg.Timeouts.HTTP)
		if err != nil {
			zap.L().Warn("ipfs storage disabled", zap.Error(err))
		} else {
			store = ipfs
		}
	}

	core, err := New(cfg, Deps{
		Chain:     evm,
		Provider:  provider.New(cfg.ProviderURL, cfg.Timeouts.HTTP, provider.WithRateLimit(cfg.ProviderRPS, 1)),
		Aquarius:  aquarius.New(cfg.AquariusURL, cfg.Timeouts.HTTP, aquarius.WithPolling(cfg.Timeouts.PollInterval, cfg.Timeouts.IndexWait)),
		Storage:   store,
		Addresses: addresses,
		Publisher: publisher,
		Consumer:  consumer,
	})
	if err != nil {
		evm.Close()
		return nil, err
	}

	fields := []zap.Field{
		zap.String("node", cfg.NodeURI),
		zap.String("provider", cfg.ProviderURL),
		zap.String("aquarius", cfg.AquariusURL),
		zap.String("factory", addresses.ERC721Factory.Hex()),
		zap.String("ocean", addresses.Ocean.Hex()),
	}
	if publisher != nil {
		fields = append(fields, zap.String("publisher", publisher.Address.Hex()))
	}
	if consumer != nil {
		fields = append(fields, zap.String("consumer", consumer.Address.Hex()))
	}
	core.log.Debug("sdk initialized", fields...)
	return core, nil
}

// ChainID returns the chain id of the connected node.
func (c *Core) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

// Publisher returns the publishing account, or nil when none is configured.
func (c *Core) Publisher() *blockchain.Account { return c.publisher }

// Consumer returns the consuming account, or nil when none is configured.
func (c *Core) Consumer() *blockchain.Account { return c.consumer }

// Addresses returns the loaded contract addresses.
func (c *Core) Addresses() *config.Addresses { return c.addresses }

// Close shuts down underlying network clients (e.g., Ethereum RPC).
func (c *Core) Close() {
	c.chain.Close()
}

func (c *Core) requirePublisher() error {
	if c.publisher == nil {
		return fmt.Errorf("publisher private key not configured")
	}
	return nil
}

func (c *Core) requireConsumer() error {
	if c.consumer == nil {
		return fmt.Errorf("consumer private key not configured")
	}
	return nil
}
