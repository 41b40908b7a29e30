package sdk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/shamank/ocean-c2d-go/pkg/blockchain"
	"github.com/shamank/ocean-c2d-go/pkg/compute"
	"github.com/shamank/ocean-c2d-go/pkg/model"
	"github.com/shamank/ocean-c2d-go/pkg/payment"
)

var (
	// ErrNoComputeJob is returned when the Provider accepts a compute start but
	// reports no job.
	ErrNoComputeJob = errors.New("provider returned no compute job")
	// ErrNotMinter is returned when the publisher may not mint a datatoken.
	ErrNotMinter = errors.New("publisher is not a datatoken minter")
)

// Amounts moved by the workflow, in whole tokens.
const (
	PublisherOceanMint    = "1000"
	ConsumerOceanTransfer = "100"
	ConsumerDatatokenMint = "10"
	orderValidity         = 5 * time.Minute
	datatokenDecimals     = 18
	oceanDecimals         = 18
	resultIndex           = 0
	defaultServiceIndex   = 0
)

// RunOptions customizes RunCompute. Nil fields fall back to the defaults:
// the public test dataset URL for both assets and the default templates.
type RunOptions struct {
	DatasetFiles   *model.Files
	AlgorithmFiles *model.Files
	DatasetDDO     *model.DDO
	AlgorithmDDO   *model.DDO
	// SkipFunding skips minting and transferring OCEAN.
	SkipFunding bool
	// NoWait returns right after the first status query.
	NoWait bool
}

// ComputeResult summarizes one RunCompute.
type ComputeResult struct {
	DatasetDID         string
	AlgorithmDID       string
	DatasetDatatoken   common.Address
	AlgorithmDatatoken common.Address
	Environment        string
	JobID              string
	Status             model.JobStatus
	ResultURL          string
}

// Fund mints OCEAN to the publisher and transfers part of it to the consumer.
// It only works where the publisher may mint OCEAN, e.g. a local Barge chain.
func (c *Core) Fund(ctx context.Context) error {
	if err := c.requirePublisher(); err != nil {
		return err
	}
	if err := c.requireConsumer(); err != nil {
		return err
	}

	mint, err := blockchain.ToWei(PublisherOceanMint, oceanDecimals)
	if err != nil {
		return err
	}
	if _, err := c.chain.Mint(ctx, c.addresses.Ocean, c.publisher, c.publisher.Address, mint); err != nil {
		return fmt.Errorf("mint ocean: %w", err)
	}

	transfer, err := blockchain.ToWei(ConsumerOceanTransfer, oceanDecimals)
	if err != nil {
		return err
	}
	if _, err := c.chain.Transfer(ctx, c.addresses.Ocean, c.publisher, c.consumer.Address, transfer); err != nil {
		return fmt.Errorf("transfer ocean: %w", err)
	}
	c.log.Info("accounts funded",
		zap.String("publisher", c.publisher.Address.Hex()),
		zap.String("consumer", c.consumer.Address.Hex()))
	c.logBalance(ctx, c.addresses.Ocean, "publisher", c.publisher.Address)
	c.logBalance(ctx, c.addresses.Ocean, "consumer", c.consumer.Address)
	return nil
}

// logBalance logs the token balance of account. Read failures only warn.
func (c *Core) logBalance(ctx context.Context, token common.Address, role string, account common.Address) {
	decimals, err := c.chain.Decimals(ctx, token)
	if err != nil {
		c.log.Warn("token decimals unavailable", zap.String("token", token.Hex()), zap.Error(err))
		return
	}
	bal, err := c.chain.BalanceOf(ctx, token, account)
	if err != nil {
		c.log.Warn("token balance unavailable", zap.String(role, account.Hex()), zap.Error(err))
		return
	}
	c.log.Info("token balance",
		zap.String(role, account.Hex()),
		zap.String("token", token.Hex()),
		zap.String("balance", blockchain.FromWei(bal, decimals).String()))
}

// ComputeEnvironments lists the Provider's environments for the connected chain.
func (c *Core) ComputeEnvironments(ctx context.Context) ([]model.ComputeEnvironment, error) {
	envs, err := c.provider.GetComputeEnvironments(ctx, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("compute environments: %w", err)
	}
	return envs, nil
}

// JobStatus queries a job of the consumer once.
func (c *Core) JobStatus(ctx context.Context, jobID, documentID string) (*model.ComputeJob, error) {
	if err := c.requireConsumer(); err != nil {
		return nil, err
	}
	return compute.Status(ctx, c.provider, compute.JobRef{Consumer: c.consumer.Address, JobID: jobID, DocumentID: documentID})
}

// ResultURL returns the signed download URL of result index of a job.
func (c *Core) ResultURL(ctx context.Context, jobID string, index int) (string, error) {
	if err := c.requireConsumer(); err != nil {
		return "", err
	}
	return c.provider.GetComputeResultURL(ctx, c.consumer, jobID, index)
}

// WaitForAsset waits until Aquarius has indexed did and checks that its first
// service carries a datatoken.
func (c *Core) WaitForAsset(ctx context.Context, did string) (*model.DDO, error) {
	ddo, err := c.aquarius.WaitForAqua(ctx, did, "")
	if err != nil {
		return nil, err
	}
	if ddo.FirstService() == nil {
		return nil, fmt.Errorf("indexed asset %s has no service", did)
	}
	if ddo.GetDatatokenAddress() == (common.Address{}) {
		return nil, fmt.Errorf("indexed asset %s has no datatoken", did)
	}
	return ddo, nil
}

// Healthcheck returns the reachability checks of the session's services.
func (c *Core) Healthcheck() Healthcheck {
	return newHealthcheckClient(c.provider, c.aquarius, c.cfg)
}

// RunCompute runs the whole compute-to-data flow: fund the accounts, publish
// a dataset and an algorithm, wait for Aquarius to index them, give the
// consumer datatokens, pick a free environment, pay for every asset, start
// the job, wait for it and fetch the first result URL.
func (c *Core) RunCompute(ctx context.Context, opts RunOptions) (*ComputeResult, error) {
	if err := c.requirePublisher(); err != nil {
		return nil, err
	}
	if err := c.requireConsumer(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	c.Healthcheck().Log(ctx)

	if !opts.SkipFunding {
		if err := c.Fund(ctx); err != nil {
			return nil, fmt.Errorf("fund: %w", err)
		}
	}

	datasetDID, err := c.CreateAsset(ctx, DefaultDatasetName, DefaultDatasetSymbol, c.publisher, opts.DatasetFiles, opts.DatasetDDO)
	if err != nil {
		return nil, fmt.Errorf("publish dataset: %w", err)
	}
	algoDID, err := c.CreateAsset(ctx, DefaultAlgoName, DefaultAlgoSymbol, c.publisher, opts.AlgorithmFiles, opts.AlgorithmDDO)
	if err != nil {
		return nil, fmt.Errorf("publish algorithm: %w", err)
	}

	dataset, err := c.WaitForAsset(ctx, datasetDID)
	if err != nil {
		return nil, fmt.Errorf("wait for dataset: %w", err)
	}
	algo, err := c.WaitForAsset(ctx, algoDID)
	if err != nil {
		return nil, fmt.Errorf("wait for algorithm: %w", err)
	}

	res := &ComputeResult{
		DatasetDID:         datasetDID,
		AlgorithmDID:       algoDID,
		DatasetDatatoken:   dataset.GetDatatokenAddress(),
		AlgorithmDatatoken: algo.GetDatatokenAddress(),
	}
	if err := c.mintDatatokens(ctx, res.DatasetDatatoken, res.AlgorithmDatatoken); err != nil {
		return nil, err
	}

	envs, err := c.ComputeEnvironments(ctx)
	if err != nil {
		return nil, err
	}
	env, err := compute.SelectFreeEnvironment(envs)
	if err != nil {
		return nil, fmt.Errorf("select environment: %w", err)
	}
	res.Environment = env.ID
	c.log.Info("compute environment selected", zap.String("env", env.ID), zap.String("consumer", env.ConsumerAddress))

	assets := []model.ComputeAsset{{DocumentID: datasetDID, ServiceID: dataset.FirstService().ID}}
	algorithm := model.ComputeAlgorithm{DocumentID: algoDID, ServiceID: algo.FirstService().ID}
	datatokens := []common.Address{res.DatasetDatatoken}

	if err := c.payForCompute(ctx, env, assets, &algorithm, datatokens, res.AlgorithmDatatoken); err != nil {
		return nil, err
	}

	jobs, err := c.provider.ComputeStart(ctx, c.consumer, env.ID, assets[0], algorithm)
	if err != nil {
		return nil, fmt.Errorf("compute start: %w", err)
	}
	if len(jobs) == 0 || jobs[0].JobID == "" {
		return nil, ErrNoComputeJob
	}
	res.JobID = jobs[0].JobID
	c.log.Info("compute job started", zap.String("job", res.JobID))

	ref := compute.JobRef{Consumer: c.consumer.Address, JobID: res.JobID, DocumentID: datasetDID}
	job, err := compute.Status(ctx, c.provider, ref)
	if err != nil {
		return nil, fmt.Errorf("compute status: %w", err)
	}
	res.Status = job.Status
	c.log.Info("compute status", zap.String("job", res.JobID), zap.Stringer("status", job.Status))
	if opts.NoWait {
		return res, nil
	}

	job, err = compute.WaitForJob(ctx, c.provider, ref, c.cfg.Timeouts.PollInterval, c.cfg.Timeouts.JobWait)
	if job != nil {
		res.Status = job.Status
	}
	if err != nil {
		return res, fmt.Errorf("wait for job: %w", err)
	}

	url, err := c.provider.GetComputeResultURL(ctx, c.consumer, res.JobID, resultIndex)
	if err != nil {
		return res, fmt.Errorf("compute result url: %w", err)
	}
	res.ResultURL = url
	c.log.Info("compute result available", zap.String("job", res.JobID), zap.String("url", url))
	return res, nil
}

func (o RunOptions) withDefaults() RunOptions {
	if o.DatasetFiles == nil {
		o.DatasetFiles = model.NewURLFiles(DefaultFileURL)
	}
	if o.AlgorithmFiles == nil {
		o.AlgorithmFiles = model.NewURLFiles(DefaultFileURL)
	}
	if o.DatasetDDO == nil {
		o.DatasetDDO = DefaultDatasetDDO()
	}
	if o.AlgorithmDDO == nil {
		o.AlgorithmDDO = DefaultAlgorithmDDO()
	}
	return o
}

func (c *Core) mintDatatokens(ctx context.Context, tokens ...common.Address) error {
	amount, err := blockchain.ToWei(ConsumerDatatokenMint, datatokenDecimals)
	if err != nil {
		return err
	}
	for _, token := range tokens {
		ok, err := c.chain.IsMinter(ctx, token, c.publisher.Address)
		if err != nil {
			return fmt.Errorf("check minter of %s: %w", token.Hex(), err)
		}
		if !ok {
			return fmt.Errorf("%w: %s on %s", ErrNotMinter, c.publisher.Address.Hex(), token.Hex())
		}
		if _, err := c.chain.Mint(ctx, token, c.publisher, c.consumer.Address, amount); err != nil {
			return fmt.Errorf("mint datatoken %s: %w", token.Hex(), err)
		}
	}
	return nil
}

// payForCompute asks the Provider what is owed and settles the algorithm
// order, then every dataset order by index. The resulting order ids are
// written into algorithm and assets.
func (c *Core) payForCompute(ctx context.Context, env model.ComputeEnvironment, assets []model.ComputeAsset, algorithm *model.ComputeAlgorithm, datatokens []common.Address, algoDatatoken common.Address) error {
	validUntil := compute.ValidUntil(time.Now(), orderValidity)
	init, err := c.provider.InitializeCompute(ctx, assets, *algorithm, env.ID, validUntil, c.consumer.Address)
	if err != nil {
		return fmt.Errorf("initialize compute: %w", err)
	}
	if init.Algorithm == nil {
		return fmt.Errorf("initialize compute: no algorithm answer")
	}
	if len(init.Datasets) != len(datatokens) || len(assets) != len(datatokens) {
		return fmt.Errorf("initialize compute: %d dataset answers for %d datatokens", len(init.Datasets), len(datatokens))
	}

	envConsumer := common.HexToAddress(env.ConsumerAddress)
	tx, err := payment.HandleOrder(ctx, c.chain, payment.Order{
		Init:         init.Algorithm,
		Datatoken:    algoDatatoken,
		Payer:        c.consumer,
		Consumer:     envConsumer,
		ServiceIndex: defaultServiceIndex,
	})
	if err != nil {
		return fmt.Errorf("algorithm order: %w", err)
	}
	algorithm.TransferTxID = tx

	for i := range init.Datasets {
		tx, err := payment.HandleOrder(ctx, c.chain, payment.Order{
			Init:         &init.Datasets[i],
			Datatoken:    datatokens[i],
			Payer:        c.consumer,
			Consumer:     envConsumer,
			ServiceIndex: defaultServiceIndex,
		})
		if err != nil {
			return fmt.Errorf("dataset %d order: %w", i, err)
		}
		assets[i].TransferTxID = tx
	}
	return nil
}
