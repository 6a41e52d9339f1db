package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
)

var (
	ErrUnknownMessage = errors.New("unknown message kind")
	ErrNoDestination  = errors.New("no matching MIDI destination")
	ErrSendFailed     = errors.New("MIDI send failed")
)

// parseMessage builds a channel message from a kind and its numeric
// arguments, e.g. "note-on 0 60 100".
func parseMessage(kind string, args []string) (midi.Message, error) {
	want := map[string]int{"note-on": 3, "note-off": 2, "cc": 3, "program": 2}
	n, ok := want[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, kind)
	}
	if len(args) != n {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", kind, n, len(args))
	}

	vals := make([]uint8, n)
	for i, a := range args {
		v, err := strconv.ParseUint(a, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %q: %w", a, err)
		}
		limit := uint64(127)
		if i == 0 {
			limit = 15
		}
		if v > limit {
			return nil, fmt.Errorf("argument %q out of range 0-%d", a, limit)
		}
		vals[i] = uint8(v)
	}

	switch kind {
	case "note-on":
		return midi.NoteOn(vals[0], vals[1], vals[2]), nil
	case "note-off":
		return midi.NoteOff(vals[0], vals[1]), nil
	case "cc":
		return midi.ControlChange(vals[0], vals[1], vals[2]), nil
	default:
		return midi.ProgramChange(vals[0], vals[1]), nil
	}
}

// matchDestinations returns the destinations whose name contains filter,
// ignoring case. An empty filter matches all of them.
func matchDestinations(all []contracts.Destination, filter string) []contracts.Destination {
	filter = strings.ToLower(filter)
	var out []contracts.Destination
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Name()), filter) {
			out = append(out, d)
		}
	}
	return out
}

func sendCommand(settings *Settings) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "send <note-on|note-off|cc|program> <channel> <values...>",
		Short: "Send one channel message to MIDI destinations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := parseMessage(args[0], args[1:])
			if err != nil {
				return err
			}

			s, err := openSession(settings)
			if err != nil {
				return err
			}
			defer s.Close()

			all, err := s.driver.Destinations()
			if err != nil {
				return fmt.Errorf("failed to list MIDI destinations: %w", err)
			}
			targets := matchDestinations(all, to)
			if len(targets) == 0 {
				return fmt.Errorf("%w: %q", ErrNoDestination, to)
			}
			return sendTo(cmd.OutOrStdout(), s, targets, msg)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Only send to destinations whose name contains this text")
	return cmd
}

// sendTo sends msg to every target through the session's hub. The hub
// swallows send failures, so each outcome is read back from its send
// counter.
func sendTo(w io.Writer, s *session, targets []contracts.Destination, msg midi.Message) error {
	failed := 0
	for _, dst := range targets {
		before := sendCount(s.registry, "ok")
		s.hub.SendDestination(dst, msg)
		if sendCount(s.registry, "ok") > before {
			fmt.Fprintf(w, "sent %s to %s\n", msg.String(), dst.Name())
			continue
		}
		failed++
		fmt.Fprintf(w, "failed to send %s to %s\n", msg.String(), dst.Name())
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d destinations", ErrSendFailed, failed, len(targets))
	}
	return nil
}

// sendCount reads gong_hub_sends_total for one result label.
func sendCount(g prometheus.Gatherer, result string) float64 {
	families, err := g.Gather()
	if err != nil {
		return 0
	}
	for _, f := range families {
		if f.GetName() != "gong_hub_sends_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "result" && l.GetValue() == result {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
