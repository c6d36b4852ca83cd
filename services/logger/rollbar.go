package logsvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/auth"
)

// RollbarLogger reports to Rollbar and writes every entry to zap.
type RollbarLogger struct {
	zap *zap.SugaredLogger
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewZap returns a development logger in debug mode and a production (JSON) one otherwise.
func NewZap(conf *core.Config) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if conf.Debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, errors.Wrap(err, "building zap logger")
	}
	return l.Sugar().With("app", conf.AppName, "env", conf.Env, "build", conf.Build), nil
}

func NewRollbarLogger(zl *zap.SugaredLogger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(rollbarerrors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.Debug && !conf.TestMode)
	return &RollbarLogger{zap: zl}
}

// Named returns a logger sharing the Rollbar setup whose zap entries are tagged with name.
func (l *RollbarLogger) Named(name string) *RollbarLogger {
	return &RollbarLogger{zap: l.zap.Named(name)}
}

func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Sync flushes both sinks.
func (l *RollbarLogger) Sync() {
	rollbar.Wait()
	_ = l.zap.Sync()
}

// prepare splits args into Rollbar's (msg, error, extras) and zap's key/value pairs.
// An auth.Identity becomes the Rollbar person of this item only; the first one wins.
func (l *RollbarLogger) prepare(msg string, args []interface{}) (rbArgs, kvs []interface{}) {
	var idSet bool
	rbArgs = make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)
	for _, arg := range args {
		switch v := arg.(type) {
		case auth.Identity:
			if !idSet {
				rbArgs = append(rbArgs, rollbar.NewPersonContext(context.Background(), &rollbar.Person{Id: v.Subject}))
				kvs = append(kvs, "subject", v.Subject)
				idSet = true
			}
		case error:
			rbArgs = append(rbArgs, v)
			kvs = append(kvs, "error", v.Error())
		case map[string]interface{}:
			rbArgs = append(rbArgs, v)
			for k, val := range v {
				kvs = append(kvs, k, val)
			}
		default:
			rbArgs = append(rbArgs, v)
			kvs = append(kvs, "arg", v)
		}
	}
	return rbArgs, kvs
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Debug(rbArgs...)
	l.zap.Debugw(msg, kvs...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Info(rbArgs...)
	l.zap.Infow(msg, kvs...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Warning(rbArgs...)
	l.zap.Warnw(msg, kvs...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Error(rbArgs...)
	l.zap.Errorw(msg, kvs...)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Critical(rbArgs...)
	rollbar.Wait()
	l.zap.Fatalw(msg, kvs...)
}
