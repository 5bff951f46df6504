// Command chemload bulk loads compressed compound files into a SQL table
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	perr "chemload/internal/platform/errors"
	"chemload/internal/platform/logger"

	"github.com/joho/godotenv"
)

func main() {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()
	logger.Init(logger.FromEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		logger.Get().Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("chemload failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps coded errors through perr.Exit and leaves 1 for usage errors
func exitCode(err error) int {
	if _, ok := perr.As(err); !ok {
		return 1
	}
	return perr.Exit(err)
}
