// Package compute holds the job-level helpers of the compute-to-data flow:
// choosing a free environment, computing order validity windows, and waiting
// for a started job to reach a terminal status.
//
// Job statuses follow the Provider's numeric codes (see model.JobStatus).
// 70 is success, 31 and 32 are failures, and any other code at or above 70 is
// treated as terminal.
//
//	env, err := compute.SelectFreeEnvironment(envs)
//	if errors.Is(err, compute.ErrNoFreeEnvironment) {
//		// every environment charges a fee
//	}
//	job, err := compute.WaitForJob(ctx, providerClient, compute.JobRef{
//		Consumer: consumer.Address, JobID: jobID, DocumentID: datasetDID,
//	}, 1500*time.Millisecond, 10*time.Minute)
package compute
