package zap

import (
	"context"
	"time"

	"go.uber.org/zap"
	gorml "gorm.io/gorm/logger"

	"github.com/forbearing/coredb/config"
)

// GormLogger implements gorm logger.Interface, grounded on the teacher's
// logger/zap/gorm.go trimmed of the deleted consts.CTX_*/util packages
// (this module has no request-scoped trace-id propagation to surface).
type GormLogger struct{ l *Logger }

var _ gorml.Interface = (*GormLogger)(nil)

func (g *GormLogger) LogMode(gorml.LogLevel) gorml.Interface           { return g }
func (g *GormLogger) Info(_ context.Context, str string, args ...any)  { g.l.Infow(str, args) }
func (g *GormLogger) Warn(_ context.Context, str string, args ...any)  { g.l.Warnw(str, args) }
func (g *GormLogger) Error(_ context.Context, str string, args ...any) { g.l.Errorw(str, args) }

func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil {
		g.l.Errorz("", zap.String("sql", sql), zap.Int64("rows", rows), zap.String("elapsed", elapsed.String()), zap.Error(err))
		return
	}
	if elapsed > config.App.Postgres.SlowQueryThreshold {
		g.l.Warnz("slow SQL detected",
			zap.String("sql", sql),
			zap.String("elapsed", elapsed.String()),
			zap.String("threshold", config.App.Postgres.SlowQueryThreshold.String()),
			zap.Int64("rows", rows))
		return
	}
	g.l.Infoz("sql executed", zap.String("sql", sql), zap.String("elapsed", elapsed.String()), zap.Int64("rows", rows))
}
