/*
 * C-Lesh - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"github.com/clesh-vm/clesh/internal/engine"
	"github.com/clesh-vm/clesh/internal/evaluator"
	"github.com/clesh-vm/clesh/internal/host"
	"github.com/clesh-vm/clesh/internal/loader"
	"github.com/clesh-vm/clesh/internal/logger"
	"github.com/clesh-vm/clesh/internal/memory"
)

var Logger *slog.Logger

// defaultBudget is the wall-clock slice Execute runs before yielding
// back to the run loop below (spec.md §5).
const defaultBudget = 20 * time.Millisecond

func main() {
	optConfig := getopt.StringLong("config", 'c', "clesh.cfg", "Configuration file")
	optProgram := getopt.StringLong("program", 'p', "", "Program table-list file, loaded at address 0")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optBudget := getopt.IntLong("budget", 'b', int(defaultBudget/time.Millisecond), "Execute time slice, in milliseconds")
	optDisasm := getopt.BoolLong("disasm", 'd', "Disassemble the entry instruction before running")
	optDebug := getopt.BoolLong("debug", 0, "Echo debug-level diagnostics to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("could not create log file", "path", *optLogFile, "error", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, os.Stderr, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(Logger)

	Logger.Info("C-Lesh started")

	if *optConfig == "" {
		Logger.Error("please specify a configuration file")
		os.Exit(1)
	}
	cfgFile, err := os.Open(*optConfig)
	if err != nil {
		Logger.Error("configuration file not found", "path", *optConfig, "error", err)
		os.Exit(1)
	}
	cfg, err := loader.ParseConfig(cfgFile)
	cfgFile.Close()
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	mem := memory.New(cfg.MemoryCount, cfg.Width, cfg.Height)

	if *optProgram != "" {
		if err := loader.LoadTableList(*optProgram, mem, 0); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	h := host.NewNullHost(Logger, time.Now().UnixNano())
	eng := engine.New(mem, cfg.Program, cfg.Stack, h, Logger)

	if *optDisasm {
		if entry, err := mem.At(cfg.Program); err == nil {
			Logger.Info("entry instruction", "disasm", evaluator.Disassemble(entry))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		Logger.Info("got quit signal")
		cancel()
	}()

	budget := time.Duration(*optBudget) * time.Millisecond
	for eng.Reg.Status != engine.Done && eng.Reg.Status != engine.Error {
		if ctx.Err() != nil {
			Logger.Info("shutting down")
			break
		}
		if err := eng.Execute(ctx, budget); err != nil {
			Logger.Error(err.Error(), "command_pointer", eng.Reg.CommandPointer)
			os.Exit(1)
		}
	}

	Logger.Info("run finished", "status", eng.Reg.Status.String())
}
