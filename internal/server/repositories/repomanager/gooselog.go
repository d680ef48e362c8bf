package repomanager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
)

// gooseLogger routes goose's printf-style output into a logging.Logger so
// migration lines end up in the same structured stream as everything else.
type gooseLogger struct {
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf keeps goose's contract: log, then exit.
func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
