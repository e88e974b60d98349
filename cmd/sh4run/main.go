// Command sh4run wires together the SH-4 core: it loads a config file,
// loads the named program image, attaches the requested peripherals,
// and either runs the machine free-running or drops into the
// interactive monitor. Structure is grounded in the teacher's main.go:
// getopt flags, a slog handler built before anything else logs, a
// signal channel for graceful shutdown.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/sh4sim/core/command"
	"github.com/sh4sim/core/config"
	"github.com/sh4sim/core/cpu"
	"github.com/sh4sim/core/executer"
	"github.com/sh4sim/core/loader"
	"github.com/sh4sim/core/memory"
	"github.com/sh4sim/core/peripheral"
	"github.com/sh4sim/core/util/logger"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "sh4.cfg", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optStart := getopt.StringLong("start", 's', "", "Initial PC override (hex), overrides config and reset default")
	optMonitor := getopt.BoolLong("monitor", 'm', "Start paused in the interactive monitor")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "unable to create log file:", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	debug := false
	log := slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, &debug))
	slog.SetDefault(log)

	log.Info("sh4run started")

	if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
		log.Error("configuration file not found", "path", *optConfig)
		os.Exit(1)
	}

	cfg, err := config.Parse(*optConfig)
	if err != nil {
		log.Error("failed to parse configuration", "err", err)
		os.Exit(1)
	}

	mem := memory.New()
	if err := loader.Load(mem, cfg.ImagePath, cfg.LoadAddress); err != nil {
		log.Error("failed to load program image", "err", err)
		os.Exit(1)
	}

	for _, p := range cfg.Peripherals {
		attachPeripheral(mem, p)
	}

	c := cpu.New()
	c.PC = cfg.StartPC
	if *optStart != "" {
		pc, err := strconv.ParseUint(*optStart, 0, 32)
		if err != nil {
			log.Error("invalid -start value", "value", *optStart)
			os.Exit(1)
		}
		c.PC = uint32(pc)
	}

	machine := cpu.NewMachine(c, mem, executer.Step)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *optMonitor {
		mon := command.NewMonitor(machine)
		command.Run(mon)
		log.Info("monitor exited, shutting down")
		return
	}

	go machine.Run()
	log.Info("machine running", "pc", fmt.Sprintf("%#08x", c.PC))

	<-sigChan
	fmt.Println("shutting down")
	machine.Stop()
	log.Info("machine stopped")
}

// attachPeripheral constructs and starts the named MMIO adapter. Each
// peripheral registers its own fixed address range; the config file's
// low/high are not read here and are not checked against that range.
func attachPeripheral(mem *memory.Memory, p config.Peripheral) {
	switch p.Name {
	case "bsc":
		bsc := peripheral.NewBsc(mem)
		go bsc.Run()
	case "dsp":
		dsp := peripheral.NewDsp(mem)
		go dsp.Run()
	default:
		slog.Warn("unknown peripheral in config", "name", p.Name)
	}
}
