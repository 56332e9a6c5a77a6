package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-kontrol/control"
	"go-kontrol/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detect(matchArg())
	case "monitor":
		monitor(matchArg())
	case "watch":
		watch(matchArg())
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Control surface test scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list            - List all MIDI ports")
	fmt.Println("  detect [match]  - Find input ports matching name (default nanokontrol)")
	fmt.Println("  monitor [match] - Print raw control changes from a matching port")
	fmt.Println("  watch [match]   - Hot-plug surfaces and print channel positions")
	fmt.Println("  poll            - Poll for device changes")
}

func matchArg() string {
	if len(os.Args) > 2 {
		return os.Args[2]
	}
	return midi.DefaultPortMatch
}

func findIn(match string) drivers.In {
	for _, p := range gomidi.GetInPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(match)) {
			return p
		}
	}
	return nil
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := gomidi.GetInPorts()
		outs := gomidi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func detect(match string) {
	fmt.Printf("Looking for %q...\n", match)

	found := false
	for i, p := range gomidi.GetInPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(match)) {
			fmt.Printf("Found input: %d: %s\n", i, p.String())
			found = true
		}
	}

	if found {
		fmt.Println("\nSurface detected!")
	} else {
		fmt.Println("\nSurface not found")
	}
}

// describe names a control number the way the binding editor does
func describe(cc uint8) string {
	if ch, ok := control.ChannelByID(int(cc)); ok {
		return ch.Name()
	}
	return fmt.Sprintf("CC %d", cc)
}

func monitor(match string) {
	in := findIn(match)
	if in == nil {
		fmt.Printf("No input port matching %q\n", match)
		return
	}
	fmt.Printf("Monitoring %s. Ctrl+C to exit.\n", in.String())

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var channel, cc, value uint8
		if msg.GetControlChange(&channel, &cc, &value) {
			fmt.Printf("ch %2d  cc %3d  %-10s raw %3d  norm %.3f\n",
				channel, cc, describe(cc), value, midi.Normalize(value))
			return
		}
		fmt.Printf("other: %s\n", msg)
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer stop()

	waitForInterrupt()
}

func watch(match string) {
	fmt.Printf("Watching for %q surfaces. Ctrl+C to exit.\n", match)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dm := midi.NewDeviceManager(match)
	go dm.Run(ctx)

	for event := range dm.Events() {
		switch event.Type {
		case midi.DeviceConnected:
			fmt.Printf("[%s] connected: %s\n", time.Now().Format("15:04:05"), event.ID)
			go func(c midi.Controller) {
				for ev := range c.Events() {
					fmt.Printf("  %s  %-10s %.3f\n", c.ID(), describe(ev.CC), c.Value(ev.CC))
				}
			}(event.Controller)
		case midi.DeviceDisconnected:
			fmt.Printf("[%s] disconnected: %s\n", time.Now().Format("15:04:05"), event.ID)
		}
	}
}

func waitForInterrupt() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a surface to test. Ctrl+C to exit.")

	lastIn := ""

	for {
		var inNames []string
		for _, p := range gomidi.GetInPorts() {
			inNames = append(inNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		if currentIn != lastIn {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)

			for _, name := range inNames {
				if strings.Contains(strings.ToLower(name), midi.DefaultPortMatch) {
					fmt.Println("  -> nanoKONTROL detected!")
				}
			}
			lastIn = currentIn
		}

		time.Sleep(2 * time.Second)
	}
}
