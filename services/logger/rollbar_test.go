package logsvc

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/auth"
)

func newObservedLogger() (*RollbarLogger, *observer.ObservedLogs) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	l := NewRollbarLogger(zap.New(obsCore).Sugar(), &core.Config{TestMode: true})
	return l, logs
}

func TestRollbarLogger_Error(t *testing.T) {
	l, logs := newObservedLogger()

	l.Error("deleting drink", errors.New("boom"), map[string]interface{}{"drink": 3}, auth.Identity{Subject: "auth0|1"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "deleting drink", entry.Message)
	assert.Equal(t, map[string]interface{}{
		"error":   "boom",
		"drink":   int64(3),
		"subject": "auth0|1",
	}, entry.ContextMap())
}

func TestRollbarLogger_prepare(t *testing.T) {
	l, _ := newObservedLogger()

	rbArgs, kvs := l.prepare("msg", []interface{}{auth.Identity{Subject: "a"}, auth.Identity{Subject: "b"}, "extra"})
	require.Len(t, rbArgs, 3)
	assert.Equal(t, "msg", rbArgs[0])
	assert.Equal(t, "extra", rbArgs[2])
	assert.Equal(t, []interface{}{"subject", "a", "arg", "extra"}, kvs)

	ctx, ok := rbArgs[1].(context.Context)
	require.True(t, ok)
	person, ok := rollbar.PersonFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "a", person.Id)
}

func TestRollbarLogger_prepare_concurrentPersons(t *testing.T) {
	l, _ := newObservedLogger()

	var wg sync.WaitGroup
	subjects := make([]string, 50)
	for i := range subjects {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rbArgs, _ := l.prepare("msg", []interface{}{auth.Identity{Subject: fmt.Sprintf("auth0|%d", i)}})
			if person, ok := rollbar.PersonFromContext(rbArgs[1].(context.Context)); ok {
				subjects[i] = person.Id
			}
		}(i)
	}
	wg.Wait()

	for i, sub := range subjects {
		assert.Equal(t, fmt.Sprintf("auth0|%d", i), sub)
	}
}

func TestRollbarLogger_Named(t *testing.T) {
	l, logs := newObservedLogger()

	l.Named("db").Warn("slow query")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "db", logs.All()[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}
