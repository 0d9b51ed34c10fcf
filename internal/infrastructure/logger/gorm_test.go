package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_LogMode(t *testing.T) {
	gormLog := NewGormLogger(zap.NewNop(), gormlogger.Info, WithSlowThreshold(time.Second))
	changed, ok := gormLog.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gormLog.level)
	assert.Equal(t, gormlogger.Warn, changed.level)
	assert.Equal(t, time.Second, changed.slowThreshold)
}

func TestGormLogger_Messages(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Warn)
	ctx := WithRequestID(context.Background(), "req-7")

	gormLog.Info(ctx, "suppressed %s", "below level")
	gormLog.Warn(ctx, "pool exhausted after %d ms", 42)
	gormLog.Error(ctx, "connection lost")

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "pool exhausted after 42 ms", logs[0].Message)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	assert.Equal(t, "req-7", logs[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
}

func TestGormLogger_Trace(t *testing.T) {
	stmt := func() (string, int64) {
		return `SELECT * FROM "products" WHERE id = '42' FOR UPDATE`, 1
	}

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		wantMsg string
	}{
		{name: "error", level: gormlogger.Error, begin: time.Now(), err: errors.New("relation \"orders\" does not exist"), wantMsg: "SQL Error"},
		{name: "lock contention", level: gormlogger.Warn, begin: time.Now(), err: errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), wantMsg: "SQL lock contention"},
		{name: "lock contention at error level", level: gormlogger.Error, begin: time.Now(), err: errors.New("could not serialize access due to concurrent update"), wantMsg: "SQL Error"},
		{name: "record not found ignored", level: gormlogger.Error, begin: time.Now(), err: gormlogger.ErrRecordNotFound},
		{name: "record not found kept", level: gormlogger.Error, opts: []GormLoggerOption{WithIgnoreRecordNotFoundError(false)}, begin: time.Now(), err: gormlogger.ErrRecordNotFound, wantMsg: "SQL Error"},
		{name: "slow query", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(time.Nanosecond)}, begin: time.Now().Add(-time.Second), wantMsg: "SLOW SQL >= 1ns"},
		{name: "regular query", level: gormlogger.Info, begin: time.Now(), wantMsg: "SQL Query"},
		{name: "silent", level: gormlogger.Silent, begin: time.Now()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gormLog := NewGormLogger(zap.New(core), tt.level, tt.opts...)
			ctx := WithSessionID(context.Background(), "sess-1")

			gormLog.Trace(ctx, tt.begin, stmt, tt.err)

			if tt.wantMsg == "" {
				assert.Empty(t, recorded.All())
				return
			}
			logs := recorded.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.wantMsg, logs[0].Message)
			fields := logs[0].ContextMap()
			assert.Equal(t, "sess-1", fields["session_id"])
			assert.Equal(t, int64(1), fields["rows"])
			assert.Equal(t, "SELECT", fields["operation"])
			assert.Equal(t, true, fields["locking"])
		})
	}
}

func TestStatementVerb(t *testing.T) {
	assert.Equal(t, "UPDATE", statementVerb(`  update "products" SET stock = stock - 2`))
	assert.Equal(t, "INSERT", statementVerb(`INSERT INTO "order_sequences" ("name","value") VALUES ('orders',1)`))
	assert.Equal(t, "WITH", statementVerb("WITH(x) SELECT 1"))
	assert.Equal(t, "", statementVerb(""))
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"unknown": gormlogger.Warn,
		"":        gormlogger.Warn,
	}
	for level, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(level), level)
	}
}
