package main

import (
	"errors"
	"os"

	"github.com/usamadar/shopify-publish-channel/internal/config"
	"github.com/usamadar/shopify-publish-channel/internal/output"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	stderr := output.NewPrinter(false)
	if err := config.LoadDotEnv(); err != nil {
		stderr.Error("%v", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			stderr.Error("%s", userMessage(err))
		}
		os.Exit(1)
	}
}
