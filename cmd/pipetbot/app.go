package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mastercactapus/pipetbot/config"
	"github.com/mastercactapus/pipetbot/machine"
	"github.com/mastercactapus/pipetbot/machine/arduino"
	"github.com/mastercactapus/pipetbot/plate"
	"github.com/mastercactapus/pipetbot/program"
	"github.com/mastercactapus/pipetbot/spjs"
	"github.com/mastercactapus/pipetbot/task"
)

var (
	errRemotePort     = errors.New("port is managed by the SPJS server")
	errInvalidProgram = errors.New("invalid program")
)

// app wires the deck, the controller link and the driver together.
type app struct {
	cfg      *config.Config
	registry *plate.Registry

	serial *arduino.SerialLink
	remote *arduino.SPJSLink
	sp     *spjs.Client

	m *machine.Machine
}

func linkOptions(cfg *config.Config) arduino.Options {
	opt := arduino.DefaultOptions()
	opt.Baud = cfg.Serial.Baud
	opt.ConnectTimeout = cfg.Serial.ConnectTimeout()
	opt.Tokens = arduino.Tokens{
		Done:       cfg.Serial.DoneToken,
		Calibrated: cfg.Serial.CalibratedToken,
	}
	opt.Terminator = cfg.Serial.Terminator
	return opt
}

// newApp builds the app. open overrides how local ports are opened.
func newApp(cfg *config.Config, open arduino.OpenFunc) (*app, error) {
	a := &app{
		cfg:      cfg,
		registry: plate.NewRegistry(),
	}
	a.registry.SetSurfaceZ(cfg.Deck.SurfaceZ)
	if err := cfg.AddPlates(a.registry); err != nil {
		return nil, err
	}

	opt := linkOptions(cfg)
	var link machine.Link
	if cfg.SPJS.URL != "" {
		a.sp = spjs.NewClient(cfg.SPJS.URL)
		a.remote = arduino.NewSPJSLink(a.sp, cfg.Serial.Port, opt)
		link = a.remote
	} else {
		if open != nil {
			opt.Open = open
		}
		a.serial = arduino.NewSerialLink(opt)
		link = a.serial
	}

	a.m = machine.NewMachine(link, machine.Config{
		Resolver:   a.registry,
		Calibrator: a.registry,
		AckTimeout: cfg.Serial.AckTimeout(),
	})
	return a, nil
}

func (a *app) ports() ([]string, error) {
	if a.serial == nil {
		return nil, errRemotePort
	}
	return a.serial.Ports()
}

func (a *app) connect(ctx context.Context, port string) error {
	if a.serial == nil {
		return errRemotePort
	}
	if port == "" {
		port = a.cfg.Serial.Port
	}
	return a.serial.Connect(ctx, port)
}

func (a *app) disconnect() error {
	if a.serial == nil {
		return errRemotePort
	}
	return a.serial.Disconnect()
}

func (a *app) connected() string {
	if a.serial != nil {
		return a.serial.Port()
	}
	if a.remote.Connected() {
		return a.cfg.Serial.Port
	}
	return ""
}

// Close stops the driver, then releases the port.
func (a *app) Close() error {
	err := a.m.Close()
	if a.serial != nil {
		if cerr := a.serial.Close(); cerr != nil {
			log.Println("ERROR: disconnect:", cerr)
		}
	}
	if a.remote != nil {
		if cerr := a.remote.Close(); cerr != nil {
			log.Println("ERROR: close remote port:", cerr)
		}
	}
	if a.sp != nil {
		a.sp.Close()
	}
	return err
}

// load places the program's plates on the deck, replacing plates of the
// same name, and returns its bound task tree after checking it against
// the deck.
func (a *app) load(p *program.Program) (*task.Composite, error) {
	for _, pc := range p.Plates {
		if _, err := a.registry.Plate(pc.Name); err == nil {
			log.Println("Replacing plate", pc.Name)
			_ = a.registry.RemovePlate(pc.Name)
		}
	}
	cfg := config.Config{Plates: p.Plates}
	if err := cfg.AddPlates(a.registry); err != nil {
		return nil, err
	}

	root, err := p.Bound()
	if err != nil {
		return nil, err
	}
	err = task.Validate(root, task.ValidateOptions{
		Resolver: a.registry,
		Bounds:   a.cfg.Deck.Bounds(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidProgram, err)
	}
	return root, nil
}
