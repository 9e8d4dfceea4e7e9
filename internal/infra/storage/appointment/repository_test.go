package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
)

type stubTx struct{ dbmetrics.TxExecutor }

func TestBusyQuery_Overlapping(t *testing.T) {
	from := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	ctx := dbmetrics.WithTx(context.Background(), stubTx{})

	query, args, err := busyQuery(ctx, 7, overlapping(from, to)).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM appointments")
	assert.Contains(t, query, "status IN (")
	assert.Contains(t, query, "start_at < $")
	assert.Contains(t, query, "end_at > $")
	assert.Contains(t, query, "FOR UPDATE")
	require.GreaterOrEqual(t, len(args), 3)
	assert.Equal(t, to, args[len(args)-2])
	assert.Equal(t, from, args[len(args)-1])
}

func TestBusyQuery_ContainedIn(t *testing.T) {
	from := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Microsecond)

	query, args, err := busyQuery(context.Background(), 7, containedIn(from, to)).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "start_at >= $")
	assert.Contains(t, query, "end_at <= $")
	assert.NotContains(t, query, "FOR UPDATE")
	assert.Equal(t, from, args[len(args)-2])
	assert.Equal(t, to, args[len(args)-1])
}
