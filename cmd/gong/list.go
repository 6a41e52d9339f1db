package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/leandrodaf/gong/sdk/midi"
	"github.com/spf13/cobra"
)

func listCommand(settings *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List MIDI sources and destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(settings)
			driver, err := newDriver(settings, log)
			if err != nil {
				return err
			}

			infos, err := midi.ListEndpoints(driver)
			if err != nil {
				return fmt.Errorf("failed to list MIDI devices: %w", err)
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No MIDI endpoints found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DIRECTION\tNAME\tENTITY\tMANUFACTURER\tID")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					direction(info.Direction), info.Name, info.EntityName, info.Manufacturer, info.ID)
			}
			return w.Flush()
		},
	}
}

func direction(d contracts.Direction) string {
	if d == contracts.DirectionSource {
		return "in"
	}
	return "out"
}
