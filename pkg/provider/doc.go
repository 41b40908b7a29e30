// Package provider is a client for the Ocean Provider HTTP API: payload
// encryption, compute environment discovery, compute initialization, job
// start, status and signed result URLs.
//
// Routes are discovered from the Provider root document (serviceEndpoints)
// and cached; well-known paths are used when discovery fails. Requests go
// through a retrying HTTP client that retries connection errors and 5xx
// answers. A response that is still not 2xx is returned as *Error:
//
//	p := provider.New("http://172.15.0.4:8030", 30*time.Second)
//	envs, err := p.GetComputeEnvironments(ctx, chainID)
//	var perr *provider.Error
//	if errors.As(err, &perr) && perr.Status == http.StatusBadRequest {
//		// rejected request
//	}
//
// Compute start and result URLs are signed by the consumer account with
// blockchain.SignHash over a message ending in a millisecond nonce.
package provider
