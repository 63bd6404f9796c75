// Command coredbd runs the RPC dispatch core behind its websocket and
// HTTP transports.
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/forbearing/coredb/bootstrap"
)

func main() {
	if err := bootstrap.Bootstrap(); err != nil {
		zap.S().Errorw("bootstrap failed", "err", err)
		os.Exit(1)
	}
	if err := bootstrap.Run(); err != nil {
		zap.S().Errorw("server exited with error", "err", err)
		os.Exit(1)
	}
}
