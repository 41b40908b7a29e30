package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var queryFlags struct {
	jobID string
	did   string
	index int
}

func init() {
	statusCmd.Flags().StringVar(&queryFlags.jobID, "job", "", "job id")
	statusCmd.Flags().StringVar(&queryFlags.did, "did", "", "dataset DID the job runs on")
	_ = statusCmd.MarkFlagRequired("job")

	resultCmd.Flags().StringVar(&queryFlags.jobID, "job", "", "job id")
	resultCmd.Flags().IntVar(&queryFlags.index, "index", 0, "result index")
	_ = resultCmd.MarkFlagRequired("job")
}

var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "List the Provider's compute environments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := newCore(cmd)
		if err != nil {
			return err
		}
		defer core.Close()

		envs, err := core.ComputeEnvironments(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, envs)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a compute job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := newCore(cmd)
		if err != nil {
			return err
		}
		defer core.Close()

		job, err := core.JobStatus(cmd.Context(), queryFlags.jobID, queryFlags.did)
		if err != nil {
			return err
		}
		return printJSON(cmd, job)
	},
}

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Print the signed download URL of a job result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := newCore(cmd)
		if err != nil {
			return err
		}
		defer core.Close()

		url, err := core.ResultURL(cmd.Context(), queryFlags.jobID, queryFlags.index)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
