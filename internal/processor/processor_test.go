package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vburojevic/logtriage/internal/domain"
	"github.com/vburojevic/logtriage/internal/worker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func records(n int) []domain.Record {
	out := make([]domain.Record, n)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = domain.Record{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Severity:  domain.SeverityError,
			Message:   fmt.Sprintf("failure %d", i),
		}
	}
	return out
}

func TestNewDefaults(t *testing.T) {
	p := New()
	assert.Equal(t, 5, p.workers)
	assert.Equal(t, 100*time.Millisecond, p.delay)
	assert.Equal(t, 10*time.Minute, p.shutdownTimeout)
}

func TestProcess_CountsEveryRecord(t *testing.T) {
	for _, m := range []int{0, 1, 5, 500} {
		for _, n := range []int{1, 5, 50} {
			t.Run(fmt.Sprintf("M=%d/N=%d", m, n), func(t *testing.T) {
				p := New(WithWorkers(n), WithDelay(time.Millisecond))

				res, err := p.Process(context.Background(), records(m))
				require.NoError(t, err)
				assert.Equal(t, m, res.Dispatched)
				assert.Equal(t, m, res.Processed)
				assert.Zero(t, res.Interrupted)
				assert.Zero(t, res.Failed)
			})
		}
	}
}

func TestProcess_RepeatedTrialsNeverLoseUpdates(t *testing.T) {
	recs := records(50)
	p := New(WithWorkers(8), WithDelay(0))

	for trial := 0; trial < 100; trial++ {
		res, err := p.Process(context.Background(), recs)
		require.NoError(t, err)
		require.Equal(t, len(recs), res.Processed, "trial %d", trial)
	}
}

func TestProcess_NoRecordsDispatchesNothing(t *testing.T) {
	var calls int
	p := New()
	p.analyze = func(context.Context, domain.Record) error {
		calls++
		return nil
	}

	res, err := p.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Zero(t, calls)
}

func TestProcess_InvalidWorkerCount(t *testing.T) {
	_, err := New(WithWorkers(0)).Process(context.Background(), records(1))
	assert.ErrorIs(t, err, worker.ErrInvalidSize)
}

func TestProcess_WaitsForDelayOnClock(t *testing.T) {
	mock := clock.NewMock()
	p := New(WithWorkers(3), WithDelay(100*time.Millisecond), WithClock(mock))

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := p.Process(context.Background(), records(3))
		done <- outcome{res, err}
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case out := <-done:
			require.NoError(t, out.err)
			assert.Equal(t, 3, out.res.Processed)
			return
		case <-deadline:
			t.Fatal("processing did not finish")
		default:
			mock.Add(50 * time.Millisecond)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestProcess_InterruptedUnitsAreNotCounted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recs := records(4)
	recs[0].Message = "fast"
	recs[1].Message = "fast"

	var started sync.WaitGroup
	started.Add(2)

	p := New(WithWorkers(4))
	p.analyze = func(ctx context.Context, rec domain.Record) error {
		if rec.Message == "fast" {
			return nil
		}
		started.Done()
		<-ctx.Done()
		return ctx.Err()
	}

	go func() {
		started.Wait()
		cancel()
	}()

	res, err := p.Process(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Dispatched)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 2, res.Interrupted)
	assert.Zero(t, res.Failed)
}

func TestProcess_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(WithWorkers(2), WithDelay(time.Hour)).Process(ctx, records(6))
	require.NoError(t, err)
	assert.Equal(t, 6, res.Dispatched)
	assert.Zero(t, res.Processed)
	assert.Equal(t, 6, res.Interrupted)
}

func TestProcess_FailedUnitsDoNotStopOthers(t *testing.T) {
	recs := records(10)
	recs[3].Message = "explode"
	recs[7].Message = "reject"

	p := New(WithWorkers(3))
	p.analyze = func(_ context.Context, rec domain.Record) error {
		switch rec.Message {
		case "explode":
			panic("analysis crashed")
		case "reject":
			return errors.New("rejected")
		}
		return nil
	}

	res, err := p.Process(context.Background(), recs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")

	var pe *worker.PanicError
	assert.ErrorAs(t, err, &pe)

	assert.Equal(t, 10, res.Dispatched)
	assert.Equal(t, 8, res.Processed)
	assert.Equal(t, 2, res.Failed)
	assert.Zero(t, res.Interrupted)
}

func TestProcess_ShutdownTimeoutBoundsStuckUnits(t *testing.T) {
	mock := clock.NewMock()
	recs := records(3)
	recs[0].Message = "hang"

	started := make(chan struct{}, len(recs))
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	p := New(WithWorkers(2), WithClock(mock), WithShutdownTimeout(time.Minute))
	p.analyze = func(_ context.Context, rec domain.Record) error {
		started <- struct{}{}
		if rec.Message == "hang" {
			<-release
		}
		return nil
	}

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := p.Process(context.Background(), recs)
		done <- outcome{res, err}
	}()

	// every unit has started before the clock moves
	for i := 0; i < len(recs); i++ {
		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatal("units did not run")
		}
	}

	var got outcome
	deadline := time.After(5 * time.Second)
loop:
	for {
		select {
		case got = <-done:
			break loop
		case <-deadline:
			t.Fatal("Process ignored the shutdown timeout")
		default:
			mock.Add(time.Minute)
			time.Sleep(time.Millisecond)
		}
	}

	require.Error(t, got.err)
	assert.ErrorIs(t, got.err, worker.ErrShutdownTimeout)
	assert.Equal(t, 3, got.res.Dispatched)
	assert.GreaterOrEqual(t, got.res.Failed, 1)
	assert.Equal(t, 3, got.res.Processed+got.res.Failed)
	assert.Zero(t, got.res.Interrupted)
}
