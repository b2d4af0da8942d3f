package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"device-showcase/showcase"
)

func newDeviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Encode and decode device ids",
	}

	var modelsRoot string
	parseCmd := &cobra.Command{
		Use:   "parse <id>",
		Short: "Split a device id into its parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := showcase.ParseDeviceID(args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(struct {
				Manufacturer string `json:"manufacturer"`
				Type         string `json:"type"`
				Model        string `json:"model"`
				Year         int    `json:"year,omitempty"`
				Path         string `json:"path"`
			}{id.Manufacturer, id.Type, id.Model, id.Year, id.ModelPath(modelsRoot)}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	parseCmd.Flags().StringVar(&modelsRoot, "models", "models", "Models root used for the path")

	var id showcase.DeviceID
	formatCmd := &cobra.Command{
		Use:     "format",
		Short:   "Build a device id from its parts",
		Example: `  showcase device format --manufacturer apple --type phone --model iphone-15-pro --year 2023`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := id.Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}
	formatCmd.Flags().StringVar(&id.Manufacturer, "manufacturer", "", "Manufacturer, e.g. apple")
	formatCmd.Flags().StringVar(&id.Type, "type", "", "Device type, e.g. phone")
	formatCmd.Flags().StringVar(&id.Model, "model", "", "Model, e.g. iphone-15-pro")
	formatCmd.Flags().IntVar(&id.Year, "year", 0, "Release year (optional)")

	cmd.AddCommand(parseCmd, formatCmd)
	return cmd
}
