package db

import (
	"context"
	"database/sql"
	"math"

	"github.com/chris/histdb/pkg/models"
)

// Stats aggregates every invocation of h.Command.
// Previous and Next are the neighbours of h within its session.
func (db *DB) Stats(ctx context.Context, h *models.History) (*models.HistoryStats, error) {
	db.log.Debug("computing stats", "id", h.ID)

	ts := toNanos(h.Timestamp)
	prevQuery, prevArgs := selectQuery{}.
		Where(Lt("timestamp", ts), Eq("session", h.Session)).
		Limit(1).
		mustCompile("previous")
	prev, err := db.queryOne(ctx, "load previous history", prevQuery, prevArgs...)
	if err != nil {
		return nil, err
	}

	nextQuery, nextArgs := selectQuery{}.
		Where(Gt("timestamp", ts), Eq("session", h.Session)).
		Ascending(true).
		Limit(1).
		mustCompile("next")
	next, err := db.queryOne(ctx, "load next history", nextQuery, nextArgs...)
	if err != nil {
		return nil, err
	}

	conn, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	stats := &models.HistoryStats{Previous: prev, Next: next}

	var avg sql.NullFloat64
	err = conn.QueryRowContext(ctx,
		"SELECT count(1), avg(duration) FROM history WHERE command = ?", h.Command,
	).Scan(&stats.Total, &avg)
	if err != nil {
		return nil, storageErr(err, "failed to aggregate command")
	}
	if avg.Valid {
		stats.AverageDuration = int64(avg.Float64)
	}

	stats.Exits, err = collect(ctx, conn, "count exits",
		`SELECT exit, count(1) FROM history WHERE command = ? GROUP BY exit ORDER BY exit`,
		h.Command,
		func(rows *sql.Rows) (models.ExitCount, error) {
			var e models.ExitCount
			err := rows.Scan(&e.Exit, &e.Count)
			return e, err
		})
	if err != nil {
		return nil, err
	}

	stats.DayOfWeek, err = collect(ctx, conn, "count weekdays",
		`SELECT CAST(strftime('%w', timestamp / 1000000000, 'unixepoch') AS INTEGER) AS day, count(1)
		FROM history WHERE command = ? GROUP BY day ORDER BY day`,
		h.Command,
		func(rows *sql.Rows) (models.DayCount, error) {
			var d models.DayCount
			err := rows.Scan(&d.Day, &d.Count)
			return d, err
		})
	if err != nil {
		return nil, err
	}

	// the day is pinned to 01 so the label parses as a date and sorts by month
	stats.DurationOverTime, err = collect(ctx, conn, "average durations",
		`SELECT strftime('%Y-%m-01', timestamp / 1000000000, 'unixepoch') AS month_year, avg(duration)
		FROM history WHERE command = ? GROUP BY month_year HAVING avg(duration) > 0 ORDER BY month_year`,
		h.Command,
		func(rows *sql.Rows) (models.MonthDuration, error) {
			var (
				m   models.MonthDuration
				avg float64
			)
			err := rows.Scan(&m.Month, &avg)
			m.Duration = int64(math.Round(avg))
			return m, err
		})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// collect runs a grouped aggregate and scans every row with scan
func collect[T any](ctx context.Context, conn *sql.Conn, what, query, command string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := conn.QueryContext(ctx, query, command)
	if err != nil {
		return nil, storageErr(err, "failed to "+what)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, storageErr(err, "failed to "+what)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "failed to "+what)
	}
	return out, nil
}
