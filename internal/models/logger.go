package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gorm_logger "gorm.io/gorm/logger"
)

// logger bridges gorm's logging interface to zerolog so database logs
// share the application's log format.
type logger struct {
	Logger zerolog.Logger
}

// LogMode is a no-op, the level is controlled by zerolog.
func (l *logger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *logger) Info(_ context.Context, s string, args ...interface{}) {
	l.Logger.Info().Msgf(s, args...)
}

func (l *logger) Warn(_ context.Context, s string, args ...interface{}) {
	l.Logger.Warn().Msgf(s, args...)
}

func (l *logger) Error(_ context.Context, s string, args ...interface{}) {
	l.Logger.Error().Msgf(s, args...)
}

// Trace logs every query with its duration. Queries for records that do
// not exist are expected, callers handle the sentinel error, so they
// are not logged as errors.
func (l *logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	fields := map[string]interface{}{
		"sql":      sql,
		"duration": time.Since(begin),
	}

	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		l.Logger.Error().Err(err).Fields(fields).Msg("[GORM] query error")
		return
	}

	l.Logger.Debug().Fields(fields).Msg("[GORM] query")
}
