// Package trace wraps a boxed callable with structured invocation logging.
// The wrapper is opt-in: the container itself never logs, and every failure
// still propagates verbatim to the caller after being recorded.
package trace

import (
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/funcbox_go/funcbox"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

// traced is the wrapper callable a Traced box holds. Each wrapper carries a
// unique id so interleaved invocations of different boxes can be told apart
// in the log stream.
type traced[A, R any] struct {
	boxId  string
	name   string
	inner  *funcbox.Func[A, R]
	logger *zap.Logger
}

func (tr traced[A, R]) Invoke(arg A) (R, error) {
	from := time.Now()
	res, err := tr.inner.Call(arg)
	span := timespan.BetweenTimes(from, time.Now())

	if err != nil {
		tr.logger.Error("invocation failed",
			zap.String("boxId", tr.boxId),
			zap.String("name", tr.name),
			zap.Duration("elapsed", span.Duration()),
			zap.Error(err),
		)
		return res, err
	}
	tr.logger.Debug("invocation completed",
		zap.String("boxId", tr.boxId),
		zap.String("name", tr.name),
		zap.Duration("elapsed", span.Duration()),
	)
	return res, nil
}

// Traced moves f into a wrapper box that logs every invocation through
// logger: completions at debug level, failures at error level, both with the
// wrapper id, the given name, and the elapsed time of the call window.
func Traced[A, R any](f *funcbox.Func[A, R], name string, logger *zap.Logger) funcbox.Func[A, R] {
	inner := f.Move()
	return funcbox.Bind[A, R](traced[A, R]{
		boxId:  uuid.New().String(),
		name:   name,
		inner:  &inner,
		logger: logger,
	})
}
