package workers

import (
	"context"
	"dm-lab/mocks"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func waitReturn(t *testing.T, within time.Duration, run func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(within):
		require.FailNow(t, "supervisor did not return in time")
	}
}

func TestSupervisor_Panicking_Worker_Is_Restarted(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	worker := mocks.NewMockWorker(ctrl)

	// Given a worker panicking on every run
	var runs atomic.Int32
	worker.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) error {
		runs.Add(1)
		panic("listener exploded")
	}).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	// When the supervisor runs until the deadline
	NewSupervisor(logs.GetLoggerFromLevel(slog.LevelDebug), 20*time.Millisecond).Add(worker).Run(ctx)

	// Then the worker was run more than once
	req.GreaterOrEqual(runs.Load(), int32(2))
}

func TestSupervisor_Failing_Worker_Is_Restarted_Until_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	worker := mocks.NewMockWorker(ctrl)

	// Given a server whose first bind fails
	gomock.InOrder(
		worker.EXPECT().Run(gomock.Any()).Return(errors.New("listen tcp :8080: bind: address already in use")),
		worker.EXPECT().Run(gomock.Any()).Return(nil),
	)

	// Then the supervisor runs it again and returns once it finished
	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelDebug), 10*time.Millisecond)
	waitReturn(t, time.Second, func() { sup.Add(worker).Run(context.Background()) })
}

func TestSupervisor_Finished_Worker_Is_Not_Restarted(t *testing.T) {
	ctrl := gomock.NewController(t)
	worker := mocks.NewMockWorker(ctrl)

	worker.EXPECT().Run(gomock.Any()).Return(nil).Times(1)

	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelDebug), 0)
	waitReturn(t, 500*time.Millisecond, func() { sup.Add(worker).Run(context.Background()) })
}

func TestSupervisor_Stop_Cancels_Workers(t *testing.T) {
	ctrl := gomock.NewController(t)
	worker := mocks.NewMockWorker(ctrl)

	started := make(chan struct{})
	worker.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelDebug), 0)
	go func() {
		<-started
		sup.Stop()
	}()

	// When Stop is called while the worker blocks, Run returns
	waitReturn(t, time.Second, func() { sup.Add(worker).Run(context.Background()) })
}
