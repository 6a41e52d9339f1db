package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/gong/internal/logger"
	"github.com/leandrodaf/gong/sdk/contracts"
	"github.com/leandrodaf/gong/sdk/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func main() {
	log := logger.NewStandardLogger()

	hub, err := midi.NewHub(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithClientName("Simple Use"),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI hub", log.Field().Error("error", err))
		return
	}
	defer hub.Close()

	hub.AddEventObserver(contracts.EventObserverFunc(func(event contracts.Event) {
		log.Info("MIDI setup event", log.Field().String("kind", event.Kind.String()))
	}))

	dsts := destinations(log)

	// Echo every note on to the hub's destinations an octave up.
	hub.AddMessageObserver(contracts.MessageObserverFunc(func(msg gomidi.Message, from contracts.Source) {
		var ch, key, vel uint8
		if !msg.GetNoteOn(&ch, &key, &vel) {
			log.Info("MIDI message", log.Field().String("message", msg.String()))
			return
		}
		log.Info("Note on",
			log.Field().String("source", from.Name()),
			log.Field().Int("Note", int(key)),
			log.Field().Int("Velocity", int(vel)),
		)
		if key+12 <= 127 {
			for _, dst := range dsts {
				hub.SendDestination(dst, gomidi.NoteOn(ch, key+12, vel))
			}
		}
	}))

	hub.Connect()
	defer hub.Disconnect()

	fmt.Println("Capturing MIDI events... Press Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}

func destinations(log contracts.Logger) []contracts.Destination {
	driver, err := midi.NewDriver(&contracts.HubOptions{Logger: log})
	if err != nil {
		return nil
	}
	all, err := driver.Destinations()
	if err != nil {
		log.Warn("No MIDI destinations", log.Field().Error("error", err))
		return nil
	}
	return all
}
