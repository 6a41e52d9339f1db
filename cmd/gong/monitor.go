package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
)

// printer writes every event and message it observes, one per line.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) ObserveEvent(event contracts.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	line := "event " + event.Kind.String()
	if ep, ok := event.Object.(contracts.Endpoint); ok {
		line += " " + ep.Name()
	}
	if event.Property != "" {
		line += " property=" + event.Property
	}
	if event.Err != nil {
		line += " error=" + event.Err.Error()
	}
	fmt.Fprintln(p.w, line)
}

func (p *printer) ObserveMessage(msg midi.Message, from contracts.Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	name := "?"
	if from != nil {
		name = from.Name()
	}
	fmt.Fprintf(p.w, "message %s from %s [% X]\n", msg.String(), name, msg.Bytes())
}

func monitorCommand(settings *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Print MIDI messages and device changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(settings)
			if err != nil {
				return err
			}
			defer s.Close()

			tok := s.hub.AddObserver(&printer{w: cmd.OutOrStdout()})
			defer s.hub.Unregister(tok)
			s.hub.Connect()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return monitor(ctx, cmd.OutOrStdout())
		},
	}
}

func monitor(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "Monitoring MIDI... Press Ctrl+C to exit.")
	<-ctx.Done()
	return nil
}
