package observe

import (
	"go.uber.org/zap"

	"github.com/xraph/scout"
)

// Logging logs every completed eager resolution at Debug level.
type Logging struct {
	logger *zap.Logger
}

// NewLogging creates a logging interceptor. A nil logger logs nothing.
func NewLogging(logger *zap.Logger) *Logging {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logging{logger: logger.Named("scout")}
}

func (l *Logging) log(key scout.Key, a scout.Accessor, method string, fields ...zap.Field) {
	if ce := l.logger.Check(zap.DebugLevel, "resolved"); ce != nil {
		ce.Write(append([]zap.Field{
			zap.String("scope", a.Scope().Name()),
			zap.Stringer("key", key),
			zap.String("method", method),
		}, fields...)...)
	}
}

func (l *Logging) AfterGet(key scout.Key, a scout.Accessor, result any) any {
	l.log(key, a, MethodGet)
	return result
}

func (l *Logging) AfterOpt(key scout.Key, a scout.Accessor, result any) any {
	l.log(key, a, MethodOpt, zap.Bool("present", result != nil))
	return result
}

func (l *Logging) AfterCollect(key scout.Key, a scout.Accessor, result []any) []any {
	l.log(key, a, MethodCollect, zap.Int("elements", len(result)))
	return result
}

func (l *Logging) AfterAssociate(key scout.Key, a scout.Accessor, result map[any]any) map[any]any {
	l.log(key, a, MethodAssociate, zap.Int("mappings", len(result)))
	return result
}

var _ scout.AfterInterceptor = (*Logging)(nil)
