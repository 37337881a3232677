package logrusadapter_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/jackc/pgxadapt/log/logrusadapter"
	"github.com/jackc/pgxadapt/tracelog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	logger := logrusadapter.NewLogger(l)
	logger.Log(context.Background(), tracelog.LogLevelError, "ResolveAdapter", map[string]any{"type": "main.money"})
	assert.Equal(t, "level=error msg=ResolveAdapter type=main.money\n", buf.String())

	buf.Reset()
	logger.Log(context.Background(), tracelog.LogLevelTrace, "BindResult", nil)
	assert.Equal(t, "level=debug msg=BindResult PGXADAPT_LOG_LEVEL=trace\n", buf.String())
}
