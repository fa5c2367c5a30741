package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

// migrationLogger is the subset of *slog.Logger used for migration output.
type migrationLogger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// gooseLogger routes goose's printf-style output to a structured logger.
type gooseLogger struct {
	log migrationLogger
}

var _ goose.Logger = (*gooseLogger)(nil)

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.log.ErrorContext(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)), logger.Component("goose"))
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.log.InfoContext(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)), logger.Component("goose"))
}
