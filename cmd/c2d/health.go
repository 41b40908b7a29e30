package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the Provider and Aquarius are reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core, err := newCore(cmd)
		if err != nil {
			return err
		}
		defer core.Close()

		hc := core.Healthcheck()
		if err := hc.Check(cmd.Context()); err != nil {
			return err
		}
		info, err := hc.Provider(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "provider ok: version %s, chains %v\n", info.Version, info.ChainIDs)
		fmt.Fprintln(cmd.OutOrStdout(), "aquarius ok")
		return nil
	},
}
