package tracelog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgxadapt"
	"github.com/jackc/pgxadapt/pgtype"
	"github.com/jackc/pgxadapt/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLog struct {
	lvl  tracelog.LogLevel
	msg  string
	data map[string]any
}

type testLogger struct {
	logs []testLog

	mux sync.Mutex
}

func (l *testLogger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	l.mux.Lock()
	defer l.mux.Unlock()

	data["ctxdata"] = ctx.Value("ctxdata")
	l.logs = append(l.logs, testLog{lvl: level, msg: msg, data: data})
}

func (l *testLogger) FilterByMsg(msg string) (res []testLog) {
	l.mux.Lock()
	defer l.mux.Unlock()

	for _, log := range l.logs {
		if log.msg == msg {
			res = append(res, log)
		}
	}

	return res
}

type unregistered struct{}

func TestTraceLog(t *testing.T) {
	t.Parallel()

	logger := &testLogger{}
	tracer := &tracelog.TraceLog{
		Logger:   logger,
		LogLevel: tracelog.LogLevelTrace,
	}

	conn, err := pgxadapt.NewConn(&pgxadapt.ConnConfig{ClientEncoding: "LATIN1", Tracer: tracer})
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), "ctxdata", "foo")
	tr := pgxadapt.NewTransformer(pgxadapt.CursorContext(conn.Cursor(ctx)))

	_, _, err = tr.Adapt(int32(1), pgtype.TextFormat)
	require.NoError(t, err)
	_, _, err = tr.Adapt(unregistered{}, pgtype.BinaryFormat)
	require.Error(t, err)

	_, err = tr.Cast([]byte("x"), pgtype.TextOID, pgtype.TextFormat)
	require.NoError(t, err)
	_, err = tr.Cast([]byte("x"), 999999, pgtype.TextFormat)
	require.NoError(t, err)

	adapterLogs := logger.FilterByMsg("ResolveAdapter")
	require.Len(t, adapterLogs, 2)
	assert.Equal(t, tracelog.LogLevelDebug, adapterLogs[0].lvl)
	assert.Equal(t, "int32", adapterLogs[0].data["type"])
	assert.Equal(t, "text", adapterLogs[0].data["format"])
	assert.Equal(t, "LATIN1", adapterLogs[0].data["clientEncoding"])
	assert.Equal(t, "foo", adapterLogs[0].data["ctxdata"])
	assert.Equal(t, tracelog.LogLevelError, adapterLogs[1].lvl)
	assert.Error(t, adapterLogs[1].data["err"].(error))

	casterLogs := logger.FilterByMsg("ResolveCaster")
	require.Len(t, casterLogs, 2)
	assert.Equal(t, tracelog.LogLevelDebug, casterLogs[0].lvl)
	assert.Equal(t, false, casterLogs[0].data["fallback"])
	assert.Equal(t, tracelog.LogLevelInfo, casterLogs[1].lvl)
	assert.Equal(t, pgtype.OID(999999), casterLogs[1].data["oid"])
}

func TestTraceLogRespectsLevel(t *testing.T) {
	t.Parallel()

	logger := &testLogger{}
	tracer := &tracelog.TraceLog{
		Logger:   logger,
		LogLevel: tracelog.LogLevelInfo,
	}

	tracer.TraceResolveAdapter(context.Background(), nil, pgxadapt.TraceResolveAdapterData{HostType: pgtype.TypeFor[int](), Format: pgtype.TextFormat})
	tracer.TraceResolveCaster(context.Background(), nil, pgxadapt.TraceResolveCasterData{OID: pgtype.TextOID})
	tracer.TraceBindResult(context.Background(), nil, pgxadapt.TraceBindResultData{NFields: 1})
	assert.Empty(t, logger.logs)

	tracer.TraceResolveCaster(context.Background(), nil, pgxadapt.TraceResolveCasterData{OID: 1, Fallback: true})
	require.Len(t, logger.logs, 1)
	_, hasEncoding := logger.logs[0].data["clientEncoding"]
	assert.False(t, hasEncoding)
}

func TestLogLevelFromString(t *testing.T) {
	t.Parallel()

	for _, ll := range []tracelog.LogLevel{
		tracelog.LogLevelTrace,
		tracelog.LogLevelDebug,
		tracelog.LogLevelInfo,
		tracelog.LogLevelWarn,
		tracelog.LogLevelError,
		tracelog.LogLevelNone,
	} {
		got, err := tracelog.LogLevelFromString(ll.String())
		require.NoError(t, err)
		assert.Equal(t, ll, got)
	}

	_, err := tracelog.LogLevelFromString("loud")
	require.Error(t, err)
	assert.Equal(t, "invalid level 0", tracelog.LogLevel(0).String())
}

func TestLoggerFunc(t *testing.T) {
	t.Parallel()

	var got string
	tracer := &tracelog.TraceLog{
		Logger: tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
			got = msg
		}),
		LogLevel: tracelog.LogLevelTrace,
	}
	tracer.TraceBindResult(context.Background(), nil, pgxadapt.TraceBindResultData{})
	assert.Equal(t, "BindResult", got)
}
