package scheduler

import (
	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

var _ gocron.Logger = (*gocronLogger)(nil)

// gocronLogger forwards gocron's internal messages to a charm logger.
// gocron reports every scheduling step at info level, those are only useful when
// debugging, so they are demoted. Job outcomes are logged by wrapJobFunc.
type gocronLogger struct {
	out *log.Logger
}

func newLogger(out *log.Logger) *gocronLogger {
	if out == nil {
		out = log.Default()
	}
	return &gocronLogger{out: out.WithPrefix("scheduler")}
}

func (l *gocronLogger) Debug(msg string, args ...any) { l.out.Debug(msg, args...) }

func (l *gocronLogger) Info(msg string, args ...any) { l.out.Debug(msg, args...) }

func (l *gocronLogger) Warn(msg string, args ...any) { l.out.Warn(msg, args...) }

func (l *gocronLogger) Error(msg string, args ...any) { l.out.Error(msg, args...) }
