package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/lixenwraith/logsim"
	"github.com/lixenwraith/logsim/inspect"
	"github.com/lixenwraith/logsim/server"
)

// Exit codes
const (
	exitOK            = 0
	exitFilesystem    = 1
	exitConfiguration = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := logsim.LoadConfig(os.Getenv("LOGSIM_CONFIG"), os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logsim: %v\n", err)
		return exitCode(err)
	}

	logger, err := logsim.NewLogger(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logsim: %v\n", err)
		return exitCode(err)
	}
	defer func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "logsim: %v\n", err)
		}
	}()

	logger.Debug("Resolved configuration:", logsim.Dump(cfg))

	web, err := server.New(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logsim: %v\n", err)
		return exitFilesystem
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	errCh := make(chan error, 4)

	// Emitter
	emitter := logsim.NewEmitter(logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := emitter.Run(ctx); err != nil {
			errCh <- fmt.Errorf("emitter stopped: %w", err)
		}
	}()

	// HTTP
	addr := ":" + strconv.FormatInt(cfg.Port, 10)
	logger.Info("Starting web interface on port " + strconv.FormatInt(cfg.Port, 10))
	go func() {
		if err := web.ListenAndServe(addr); err != nil {
			errCh <- fmt.Errorf("web interface stopped: %w", err)
		}
	}()

	// Inspect, optional
	var insp *inspect.Server
	if cfg.InspectAddr != "" {
		insp = inspect.New(logger, cfg.InspectAddr)
		go func() {
			if err := insp.Run(); err != nil {
				errCh <- fmt.Errorf("inspect interface stopped: %w", err)
			}
		}()
		go func() {
			select {
			case err := <-insp.Fatal():
				errCh <- err
			case <-ctx.Done():
			}
		}()
	}

	code := exitOK
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received, stopping logger service")
	case err := <-errCh:
		logger.Error(err.Error())
		code = exitCode(err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), logsim.DefaultShutdownTimeout)
	defer cancel()

	if err := web.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Web interface shutdown:", err)
	}
	if insp != nil {
		if err := insp.Stop(shutdownCtx); err != nil && !errors.Is(err, inspect.ErrNotRunning) {
			logger.Warn("Inspect interface shutdown:", err)
		}
	}
	wg.Wait()

	logger.Info("Logger service stopped")
	return code
}

// exitCode maps an error class to the process exit status
func exitCode(err error) int {
	if errors.Is(err, logsim.ErrConfiguration) {
		return exitConfiguration
	}
	return exitFilesystem
}
