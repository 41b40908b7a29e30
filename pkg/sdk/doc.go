// Package sdk provides the high-level entry point of the Ocean compute-to-data
// workflow.
//
// A Core is one session: a connected chain, a Provider and an Aquarius
// client, the loaded contract addresses and two accounts (publisher and
// consumer). NewSDK builds it from a config.Config; New builds it from
// already constructed collaborators, which is how tests inject fakes.
//
// # Quick Start
//
//	cfg := config.FromEnv(".env")
//	core, err := sdk.NewSDK(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer core.Close()
//
//	res, err := core.RunCompute(ctx, sdk.RunOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.JobID, res.ResultURL)
//
// # Workflow
//
// RunCompute performs, in order:
//
//  1. Fund: mint 1000 OCEAN to the publisher and transfer 100 to the consumer
//  2. CreateAsset for a dataset and an algorithm
//  3. wait until Aquarius indexed both
//  4. mint 10 datatokens of each asset to the consumer
//  5. pick the first environment with priceMin == 0
//  6. initializeCompute, then pay for the algorithm and every dataset
//  7. start the job, query its status and wait for a terminal status
//  8. fetch the signed URL of result 0
//
// Each step wraps its error with the step name. Logical failures surface as
// sentinels: compute.ErrNoFreeEnvironment, compute.ErrJobFailed,
// aquarius.ErrInvalidDDO, aquarius.ErrNotIndexed and ErrNoComputeJob.
//
// # Publishing
//
// CreateAsset never puts a plaintext file location on chain: the Files
// document is encrypted by the Provider, the ciphertext goes into the first
// service, and the whole DDO is encrypted again before setMetaData.
//
// # Logging
//
// The package installs a console zap logger on stdout at init. SetDebug
// switches it to debug level; zap.ReplaceGlobals replaces it entirely. Every
// Core logs with a per-session run id.
package sdk
