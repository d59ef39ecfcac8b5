package postgresdb

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/sessions/sdk/logger"
)

// https://github.com/jackc/pgx/discussions/1677#discussioncomment-8815982
type MultiQueryTracer struct {
	Tracers []pgx.QueryTracer
}

func NewMultiQueryTracer(tracers ...pgx.QueryTracer) *MultiQueryTracer {
	return &MultiQueryTracer{Tracers: tracers}
}

func (m *MultiQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range m.Tracers {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (m *MultiQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range m.Tracers {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

// LoggingQueryTracer writes every statement and its outcome at debug level.
type LoggingQueryTracer struct {
	log *logger.Logger
}

func NewLoggingQueryTracer(log *logger.Logger) *LoggingQueryTracer {
	return &LoggingQueryTracer{log: log}
}

var (
	replaceSpacesAroundParens = regexp.MustCompile(`\s*([()])\s*`)
	replaceSpaces             = regexp.MustCompile(`\s+`)
)

// compactSQL folds a multi-line statement onto one line.
func compactSQL(sql string) string {
	compact := replaceSpaces.ReplaceAllString(sql, " ")
	compact = replaceSpacesAroundParens.ReplaceAllString(compact, "$1")
	return strings.TrimSpace(compact)
}

func (l *LoggingQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	l.log.DebugContext(ctx, "query start",
		slog.String("sql", compactSQL(data.SQL)),
		slog.Any("args", data.Args),
	)
	return ctx
}

func (l *LoggingQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	if data.Err != nil {
		l.log.ErrorContext(ctx, "query end",
			slog.String("error", data.Err.Error()),
			slog.String("command_tag", data.CommandTag.String()),
		)
		return
	}

	l.log.DebugContext(ctx, "query end",
		slog.String("command_tag", data.CommandTag.String()),
		slog.Int64("rows", data.CommandTag.RowsAffected()),
	)
}
