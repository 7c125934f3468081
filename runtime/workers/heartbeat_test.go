package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type fixedCounter int

func (f fixedCounter) Len() int { return int(f) }

func TestHeartbeatWorker_Stops_With_Context(t *testing.T) {
	req := require.New(t)
	worker := NewHeartbeatWorker(logs.GetLoggerFromLevel(slog.LevelDebug), fixedCounter(3), 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req.NoError(worker.Run(ctx))
}
