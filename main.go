package main

import (
	"fmt"
	"io"
	"os"

	"audiodev/cmd"
	"audiodev/internal/audio"
	"audiodev/internal/config"
	"audiodev/internal/log"
	"audiodev/internal/render"
	"audiodev/internal/tui"
	"audiodev/pkg/build"
)

// main is the entry point for the device listing tool.
//
//  1. Startup: build information, command line and config file, logging.
//  2. Command: select the audio backend and run the requested listing.
//  3. Shutdown: release the audio host and close the log file.
func main() {
	os.Exit(run())
}

func run() int {
	buildErr := build.Initialize()

	config, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Help and version output need nothing else.
	if config.Command == "" {
		return 0
	}

	if err := setupLogging(config); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer log.Close()

	log.Debugf("%s", build.GetBuildFlags())
	if buildErr != nil {
		log.Debugf("Development build: %v", buildErr)
	}
	config.LogSummary()

	if err := audio.UseBackend(config.Audio.Backend); err != nil {
		log.Errorf("%v", err)
		return 1
	}
	defer func() {
		if err := audio.Terminate(); err != nil {
			log.Warnf("%v", err)
		}
	}()

	if err := executeCommand(config, os.Stdout); err != nil {
		log.Errorf("%v", err)
		return 1
	}
	return 0
}

func setupLogging(config *config.Config) error {
	level, _ := log.ParseLevel(config.LogLevel)
	log.SetLevel(level)
	if config.LogFile == "" {
		return nil
	}
	return log.InitLogRotator(config.LogFile)
}

// Listing and browsing entry points, replaced in tests.
var (
	listInputs  = audio.ListInputDevices
	listOutputs = audio.ListOutputDevices
	browse      = tui.StartDeviceListUI
)

// executeCommand runs one listing command against the default host.
func executeCommand(config *config.Config, w io.Writer) error {
	if config.Command == cmd.CommandBrowse {
		return browse()
	}

	var sections []render.Section
	if config.Command == cmd.CommandInputs || config.Command == cmd.CommandList {
		devices, err := listInputs()
		if err != nil {
			return err
		}
		if devices, err = selectDevices(config, "input", devices); err != nil {
			return err
		}
		sections = append(sections, render.Section{Direction: "input", Devices: devices})
	}
	if config.Command == cmd.CommandOutputs || config.Command == cmd.CommandList {
		devices, err := listOutputs()
		if err != nil {
			return err
		}
		if devices, err = selectDevices(config, "output", devices); err != nil {
			return err
		}
		sections = append(sections, render.Section{Direction: "output", Devices: devices})
	}
	if len(sections) == 0 {
		return fmt.Errorf("unknown command %q", config.Command)
	}

	return render.NewRenderer(w, config.Output.Format).Render(sections...)
}

// selectDevices narrows a listing to the device picked by --index or
// --default.
func selectDevices(config *config.Config, direction string, devices []audio.DeviceDescriptor) ([]audio.DeviceDescriptor, error) {
	switch {
	case config.DeviceIndex != "":
		d, err := audio.FindDevice(devices, config.DeviceIndex)
		if err != nil {
			return nil, fmt.Errorf("%s %w", direction, err)
		}
		return []audio.DeviceDescriptor{d}, nil
	case config.DefaultOnly:
		d, ok := audio.DefaultDevice(devices)
		if !ok {
			return nil, fmt.Errorf("%w: no default %s device", audio.ErrDeviceNotFound, direction)
		}
		return []audio.DeviceDescriptor{d}, nil
	}
	return devices, nil
}
