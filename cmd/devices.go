package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xlemi/yinnote/internal/audio/device"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List capture devices usable with --backend malgo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			devices, err := device.ListDevices()
			if err != nil {
				return err
			}
			for i, d := range devices {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, d.Name)
			}
			return nil
		},
	}
}
