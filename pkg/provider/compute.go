package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/shamank/ocean-c2d-go/pkg/blockchain"
	"github.com/shamank/ocean-c2d-go/pkg/model"
)

// Encrypt asks the Provider to encrypt the JSON form of payload for chainID
// and returns the ciphertext as the Provider's hex string.
func (c *Client) Encrypt(ctx context.Context, payload any, chainID *big.Int) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode encrypt payload: %w", err)
	}
	q := url.Values{}
	if chainID != nil {
		q.Set("chainId", chainID.String())
	}
	out, err := c.send(ctx, EndpointEncrypt, q, b, "application/octet-stream")
	if err != nil {
		return "", err
	}
	return string(bytes.Trim(out, `"`)), nil
}

// GetComputeEnvironments lists the compute environments offered on chainID.
// Both the flat list and the per-chain map answer shapes are accepted; with a
// nil chainID every chain's environments are returned.
func (c *Client) GetComputeEnvironments(ctx context.Context, chainID *big.Int) ([]model.ComputeEnvironment, error) {
	q := url.Values{}
	if chainID != nil {
		q.Set("chainId", chainID.String())
	}
	raw, err := c.send(ctx, EndpointComputeEnvironments, q, nil, "")
	if err != nil {
		return nil, err
	}

	var list []model.ComputeEnvironment
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var byChain map[string][]model.ComputeEnvironment
	if err := json.Unmarshal(raw, &byChain); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", EndpointComputeEnvironments, err)
	}
	if chainID != nil {
		return byChain[chainID.String()], nil
	}
	for _, envs := range byChain {
		list = append(list, envs...)
	}
	return list, nil
}

type initializeComputeRequest struct {
	Datasets        []model.ComputeAsset   `json:"datasets"`
	Algorithm       model.ComputeAlgorithm `json:"algorithm"`
	Compute         computeSpec            `json:"compute"`
	ConsumerAddress string                 `json:"consumerAddress"`
}

type computeSpec struct {
	Env        string `json:"env"`
	ValidUntil int64  `json:"validUntil"`
}

// InitializeCompute asks the Provider which orders and fees are needed to
// run algorithm on assets in envID until validUntil (Unix seconds).
func (c *Client) InitializeCompute(ctx context.Context, assets []model.ComputeAsset, algorithm model.ComputeAlgorithm, envID string, validUntil int64, consumer common.Address) (*model.ProviderComputeInitializeResults, error) {
	req := initializeComputeRequest{
		Datasets:        assets,
		Algorithm:       algorithm,
		Compute:         computeSpec{Env: envID, ValidUntil: validUntil},
		ConsumerAddress: consumer.Hex(),
	}
	var out model.ProviderComputeInitializeResults
	if err := c.sendJSON(ctx, EndpointInitializeCompute, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type computeStartRequest struct {
	ConsumerAddress string                 `json:"consumerAddress"`
	Signature       string                 `json:"signature"`
	Nonce           int64                  `json:"nonce"`
	Environment     string                 `json:"environment"`
	Dataset         model.ComputeAsset     `json:"dataset"`
	Algorithm       model.ComputeAlgorithm `json:"algorithm"`
}

// ComputeStart starts a job running algorithm on dataset in envID. The
// request is signed by consumer over consumer address, dataset document id
// and a millisecond nonce.
func (c *Client) ComputeStart(ctx context.Context, consumer *blockchain.Account, envID string, dataset model.ComputeAsset, algorithm model.ComputeAlgorithm) ([]model.ComputeJob, error) {
	if consumer == nil {
		return nil, fmt.Errorf("compute start: consumer account is required")
	}
	nonce := c.now().UnixMilli()
	signature, err := blockchain.SignHash(consumer.Address.Hex()+dataset.DocumentID+strconv.FormatInt(nonce, 10), consumer.Key)
	if err != nil {
		return nil, fmt.Errorf("sign compute start: %w", err)
	}

	req := computeStartRequest{
		ConsumerAddress: consumer.Address.Hex(),
		Signature:       signature,
		Nonce:           nonce,
		Environment:     envID,
		Dataset:         dataset,
		Algorithm:       algorithm,
	}
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", EndpointComputeStart, err)
	}
	raw, err := c.send(ctx, EndpointComputeStart, nil, b, "application/json")
	if err != nil {
		return nil, err
	}
	jobs, err := decodeJobs(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", EndpointComputeStart, err)
	}
	zap.L().Debug("compute started", zap.Int("jobs", len(jobs)))
	return jobs, nil
}

// ComputeStatus returns the jobs of consumer matching jobID and documentID;
// empty filters are omitted.
func (c *Client) ComputeStatus(ctx context.Context, consumer common.Address, jobID, documentID string) ([]model.ComputeJob, error) {
	q := url.Values{}
	q.Set("consumerAddress", consumer.Hex())
	if documentID != "" {
		q.Set("documentId", documentID)
	}
	if jobID != "" {
		q.Set("jobId", jobID)
	}
	raw, err := c.send(ctx, EndpointComputeStatus, q, nil, "")
	if err != nil {
		return nil, err
	}
	jobs, err := decodeJobs(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", EndpointComputeStatus, err)
	}
	return jobs, nil
}

// GetComputeResultURL builds a signed download URL for result index of
// jobID. No request is sent beyond endpoint discovery.
func (c *Client) GetComputeResultURL(ctx context.Context, consumer *blockchain.Account, jobID string, index int) (string, error) {
	if consumer == nil {
		return "", fmt.Errorf("compute result: consumer account is required")
	}
	nonce := c.nonce()
	idx := strconv.Itoa(index)
	signature, err := blockchain.SignHash(consumer.Address.Hex()+jobID+idx+nonce, consumer.Key)
	if err != nil {
		return "", fmt.Errorf("sign compute result: %w", err)
	}

	q := url.Values{}
	q.Set("consumerAddress", consumer.Address.Hex())
	q.Set("jobId", jobID)
	q.Set("index", idx)
	q.Set("nonce", nonce)
	q.Set("signature", signature)
	return c.endpointURL(c.endpoint(ctx, EndpointComputeResult), q), nil
}

// nonce is the current time in milliseconds.
func (c *Client) nonce() string {
	return strconv.FormatInt(c.now().UnixMilli(), 10)
}

// decodeJobs accepts a job list or a single job object.
func decodeJobs(raw []byte) ([]model.ComputeJob, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var job model.ComputeJob
		if err := json.Unmarshal(raw, &job); err != nil {
			return nil, err
		}
		return []model.ComputeJob{job}, nil
	}
	var jobs []model.ComputeJob
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
