package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shamank/ocean-c2d-go/pkg/model"
	"github.com/shamank/ocean-c2d-go/pkg/sdk"
)

var runFlags struct {
	datasetURL    string
	algorithmURL  string
	datasetFile   string
	algorithmFile string
	skipFunding   bool
	noWait        bool
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.datasetURL, "dataset-url", sdk.DefaultFileURL, "URL of the dataset file")
	f.StringVar(&runFlags.algorithmURL, "algorithm-url", sdk.DefaultFileURL, "URL of the algorithm file")
	f.StringVar(&runFlags.datasetFile, "dataset-file", "", "local dataset file, added to IPFS instead of --dataset-url")
	f.StringVar(&runFlags.algorithmFile, "algorithm-file", "", "local algorithm file, added to IPFS instead of --algorithm-url")
	f.BoolVar(&runFlags.skipFunding, "skip-funding", false, "do not mint and transfer OCEAN")
	f.BoolVar(&runFlags.noWait, "no-wait", false, "return after the job started")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full compute-to-data flow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := newCore(cmd)
		if err != nil {
			return err
		}
		defer core.Close()

		ctx := cmd.Context()
		opts := sdk.RunOptions{SkipFunding: runFlags.skipFunding, NoWait: runFlags.noWait}
		if opts.DatasetFiles, err = filesFor(cmd, core, runFlags.datasetFile, runFlags.datasetURL); err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
		if opts.AlgorithmFiles, err = filesFor(cmd, core, runFlags.algorithmFile, runFlags.algorithmURL); err != nil {
			return fmt.Errorf("algorithm: %w", err)
		}

		res, err := core.RunCompute(ctx, opts)
		if res != nil {
			zap.L().Info("run summary",
				zap.String("dataset", res.DatasetDID),
				zap.String("algorithm", res.AlgorithmDID),
				zap.String("env", res.Environment),
				zap.String("job", res.JobID),
				zap.Stringer("status", res.Status))
		}
		if err != nil {
			return err
		}
		if res.ResultURL != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.ResultURL)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), res.JobID)
		}
		return nil
	},
}

// filesFor uploads path to IPFS when given, otherwise describes url.
func filesFor(cmd *cobra.Command, core *sdk.Core, path, url string) (*model.Files, error) {
	if path == "" {
		return model.NewURLFiles(url), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return core.PublishFile(cmd.Context(), content)
}
