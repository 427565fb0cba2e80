package testutil

import (
	"io"

	"github.com/dtroode/zyneth-auth/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0, "text")
}
