package statussweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	completed int64
	err       error
	gotNow    time.Time
	inTx      bool
}

func (f *fakeRepo) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	f.gotNow = now
	f.inTx = ctx.Value(txKey{}) != nil
	return f.completed, f.err
}

type txKey struct{}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txKey{}, true))
}

type fakeRecorder struct {
	completed int64
	err       error
	calls     int
}

func (f *fakeRecorder) RecordSweep(completed int64, err error) {
	f.calls++
	f.completed, f.err = completed, err
}

func TestRunOnce(t *testing.T) {
	repo := &fakeRepo{completed: 3}
	rec := &fakeRecorder{}
	w := NewWorker(repo, fakeTx{}, rec, nopLogger{})
	fixed := time.Date(2024, 3, 11, 18, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	n, err := w.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), n)
	assert.Equal(t, fixed, repo.gotNow)
	assert.True(t, repo.inTx)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, int64(3), rec.completed)
}

func TestRunOnce_Error(t *testing.T) {
	boom := errors.New("connection refused")
	rec := &fakeRecorder{}
	w := NewWorker(&fakeRepo{err: boom}, fakeTx{}, rec, nopLogger{})

	n, err := w.RunOnce(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
	assert.ErrorIs(t, rec.err, boom)
}

func TestRunOnce_NilRecorder(t *testing.T) {
	w := NewWorker(&fakeRepo{}, fakeTx{}, nil, nopLogger{})

	_, err := w.RunOnce(context.Background())

	assert.NoError(t, err)
}

func TestStart_InvalidSchedule(t *testing.T) {
	w := NewWorker(&fakeRepo{}, fakeTx{}, nil, nopLogger{})

	err := w.Start("every now and then")

	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	w := NewWorker(&fakeRepo{}, fakeTx{}, nil, nopLogger{})

	require.NoError(t, w.Start("@every 1h"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Stop(ctx)
}
