package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/ipfs/kubo/client/rpc"
	"go.uber.org/zap"
)

// Client stores files through a Kubo HTTP API.
type Client struct {
	api *rpc.HttpApi
}

var _ Storage = (*Client)(nil)

// NewStorage constructs a Client for the Kubo API at ipfsURL
// (e.g. http://127.0.0.1:5001).
func NewStorage(ipfsURL string, timeout time.Duration) (*Client, error) {
	api, err := NewIPFSClient(ipfsURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// NewIPFSClient constructs a Kubo HTTP API client pointed at url.
func NewIPFSClient(url string, timeout time.Duration) (*rpc.HttpApi, error) {
	httpClient := &http.Client{Timeout: timeout}
	client, err := rpc.NewURLApiWithClient(url, httpClient)
	if err != nil {
		zap.L().Error("Connection failed to IPFS", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("ipfs client: %w", err)
	}
	return client, nil
}

type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

// UploadFile adds the content of r to IPFS (pinned, CIDv1) and returns its CID.
func (c *Client) UploadFile(ctx context.Context, r io.Reader) (string, error) {
	if c == nil || c.api == nil {
		return "", fmt.Errorf("ipfs client not configured")
	}

	resp, err := c.api.Request("add").
		Option("pin", true).
		Option("cid-version", 1).
		FileBody(r).
		Send(ctx)
	if err != nil {
		zap.L().Error("error uploading to ipfs", zap.Error(err))
		return "", err
	}
	defer func(resp *rpc.Response) {
		if err := resp.Close(); err != nil {
			zap.L().Error("error closing ipfs response", zap.Error(err))
		}
	}(resp)

	if resp.Error != nil {
		zap.L().Error("ipfs add command returned error", zap.Error(resp.Error))
		return "", resp.Error
	}

	var added addResponse
	if err := json.NewDecoder(resp.Output).Decode(&added); err != nil {
		zap.L().Error("error unmarshaling ipfs add response", zap.Error(err))
		return "", err
	}

	parsed, err := cid.Decode(added.Hash)
	if err != nil {
		return "", fmt.Errorf("ipfs add returned invalid cid %q: %w", added.Hash, err)
	}
	zap.L().Debug("Successfully uploaded to IPFS", zap.String("cid", parsed.String()))
	return parsed.String(), nil
}

// ReadFile fetches content by CID (optionally ipfs:// prefixed) with
// `ipfs cat`.
func (c *Client) ReadFile(ctx context.Context, hash string) ([]byte, error) {
	if c == nil || c.api == nil {
		return nil, fmt.Errorf("ipfs client not configured")
	}

	hash = formatHash(hash)
	zap.L().Debug("Hash Used to retrieve from IPFS", zap.String("hash", hash))

	cID, err := cid.Parse(hash)
	if err != nil {
		zap.L().Error("error parsing the ipfs hash", zap.String("hash", hash), zap.Error(err))
		return nil, fmt.Errorf("invalid cid %q: %w", hash, err)
	}

	resp, err := c.api.Request("cat", cID.String()).Send(ctx)
	if err != nil {
		zap.L().Error("error executing the cat command in ipfs", zap.String("hash", hash), zap.Error(err))
		return nil, err
	}
	defer func(resp *rpc.Response) {
		if err := resp.Close(); err != nil {
			zap.L().Error("error closing response in ipfs", zap.String("hash", hash), zap.Error(err))
		}
	}(resp)

	if resp.Error != nil {
		zap.L().Error("error executing the cat command in ipfs", zap.String("hash", hash), zap.Error(resp.Error))
		return nil, resp.Error
	}
	return io.ReadAll(resp.Output)
}
