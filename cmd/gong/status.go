package main

import (
	"fmt"
	"io"

	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func statusCommand(settings *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Open the hub, connect all sources and report its state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(settings)
			if err != nil {
				return err
			}
			defer s.Close()

			s.hub.Connect()
			printStatus(cmd.OutOrStdout(), s.hub.Status())
			return printCounters(cmd.OutOrStdout(), s.registry)
		},
	}
}

func printStatus(w io.Writer, st contracts.HubStatus) {
	fmt.Fprintf(w, "client:            %s\n", presence(st.Client))
	fmt.Fprintf(w, "input port:        %s\n", presence(st.Input))
	fmt.Fprintf(w, "output port:       %s\n", presence(st.Output))
	fmt.Fprintf(w, "event observers:   %d\n", st.EventObservers)
	fmt.Fprintf(w, "message observers: %d\n", st.MessageObservers)
}

func presence(ok bool) string {
	if ok {
		return "ok"
	}
	return "unavailable"
}

// printCounters writes the total of every counter family in g.
func printCounters(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, f := range families {
		var total float64
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		fmt.Fprintf(w, "%s %g\n", f.GetName(), total)
	}
	return nil
}
