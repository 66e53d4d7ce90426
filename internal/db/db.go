package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/chris/histdb/internal/dateparse"
	"github.com/chris/histdb/internal/db/migrations"
	"github.com/chris/histdb/internal/logging"
	"github.com/chris/histdb/pkg/models"
)

const (
	// DefaultAcquireTimeout bounds the wait for a pooled connection
	DefaultAcquireTimeout = 2 * time.Second

	// DefaultMaxConns is the pool size used when Options.MaxConns is zero
	DefaultMaxConns = 8
)

// ErrNotInitialized is returned by New when the schema has not been created
var ErrNotInitialized = errors.New("database not initialized, run: histdb init-db")

// DefaultPath returns the database location under the XDG data directory
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "histdb", "history.db")
}

// DB is the SQLite implementation of Database
type DB struct {
	conn *sql.DB
	path string
	opts Options
	log  *slog.Logger
}

// Options configures database connection behavior
type Options struct {
	// AcquireTimeout bounds how long an operation waits for a pooled
	// connection. Zero means DefaultAcquireTimeout.
	AcquireTimeout time.Duration

	// MaxConns caps the connection pool. Zero means DefaultMaxConns.
	MaxConns int

	// Logger receives debug output for every operation. Nil discards.
	Logger *slog.Logger

	// Scrub produces the filler written over soft-deleted commands
	Scrub Scrubber

	// Dates parses OptFilters.Before and OptFilters.After
	Dates dateparse.Parser

	// Now is the clock used for deletion stamps and relative dates
	Now func() time.Time

	// SkipSchemaCheck opens the database without verifying schema exists.
	// Use this for init-db command which creates the schema.
	SkipSchemaCheck bool
}

func (o Options) withDefaults() Options {
	if o.AcquireTimeout <= 0 {
		o.AcquireTimeout = DefaultAcquireTimeout
	}
	if o.MaxConns <= 0 {
		o.MaxConns = DefaultMaxConns
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Scrub == nil {
		o.Scrub = RandomScrubber
	}
	if o.Dates == nil {
		o.Dates = dateparse.Default
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// New opens an initialized database
func New(dbPath string) (*DB, error) {
	return NewWithOptions(dbPath, Options{})
}

// NewWithOptions opens a database with configurable options
func NewWithOptions(dbPath string, opts Options) (*DB, error) {
	opts = opts.withDefaults()
	if dbPath == "" {
		dbPath = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	conn.SetMaxOpenConns(opts.MaxConns)
	conn.SetMaxIdleConns(opts.MaxConns)

	if !opts.SkipSchemaCheck {
		version, err := schemaVersion(conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		if version == 0 {
			conn.Close()
			return nil, ErrNotInitialized
		}
	}

	return &DB{
		conn: conn,
		path: dbPath,
		opts: opts,
		log:  opts.Logger.With("db", dbPath),
	}, nil
}

// NewForTesting creates a new database with schema initialized.
// This is a convenience function for tests.
func NewForTesting(dbPath string) (*DB, error) {
	return NewForTestingWithOptions(dbPath, Options{})
}

// NewForTestingWithOptions is NewForTesting with explicit options
func NewForTestingWithOptions(dbPath string, opts Options) (*DB, error) {
	opts.SkipSchemaCheck = true
	db, err := NewWithOptions(dbPath, opts)
	if err != nil {
		return nil, err
	}

	if _, err := db.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// dsn applies the connection pragmas to every pooled connection
func dsn(path string) string {
	return path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_txlock=immediate"
}

func schemaVersion(conn *sql.DB) (int, error) {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, errors.Wrap(err, "failed to check schema version")
	}
	return version, nil
}

// InitSchema runs pending migrations.
// Returns true if the schema was created or upgraded, false if it was current.
func (db *DB) InitSchema() (bool, error) {
	before, err := schemaVersion(db.conn)
	if err != nil {
		return false, err
	}
	if err := migrations.Migrate(db.conn); err != nil {
		return false, errors.Wrap(err, "failed to migrate schema")
	}
	after, err := schemaVersion(db.conn)
	if err != nil {
		return false, err
	}
	if after != before {
		db.log.Info("schema migrated", "from", before, "to", after)
	}
	return after != before, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// acquire takes a pooled connection, waiting at most AcquireTimeout.
// The connection is not bound to the acquire deadline.
func (db *DB) acquire(ctx context.Context) (*sql.Conn, error) {
	actx, cancel := context.WithTimeout(ctx, db.opts.AcquireTimeout)
	defer cancel()

	conn, err := db.conn.Conn(actx)
	if err != nil {
		return nil, storageErr(err, "failed to acquire connection")
	}
	return conn, nil
}

// withTx runs fn inside one transaction on a pooled connection
func (db *DB) withTx(ctx context.Context, what string, fn func(tx *sql.Tx) error) error {
	conn, err := db.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(err, "failed to begin transaction for "+what)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr(err, "failed to commit "+what)
	}
	return nil
}

func (db *DB) exec(ctx context.Context, what, query string, args ...any) (sql.Result, error) {
	conn, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(err, "failed to "+what)
	}
	return res, nil
}

// queryHistory runs a statement that selects historyColumns
func (db *DB) queryHistory(ctx context.Context, what, query string, args ...any) ([]*models.History, error) {
	conn, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(err, "failed to "+what)
	}
	defer rows.Close()

	var out []*models.History
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, storageErr(err, "failed to scan history")
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "failed to "+what)
	}
	return out, nil
}

// queryOne returns the first row of a historyColumns statement, or nil
func (db *DB) queryOne(ctx context.Context, what, query string, args ...any) (*models.History, error) {
	res, err := db.queryHistory(ctx, what, query, args...)
	if err != nil || len(res) == 0 {
		return nil, err
	}
	return res[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanHistory decodes one row selected with historyColumns
func scanHistory(s scanner) (*models.History, error) {
	var (
		h         models.History
		ts        int64
		deletedAt sql.NullInt64
	)
	if err := s.Scan(&h.ID, &ts, &h.Duration, &h.Exit, &h.Command, &h.Cwd, &h.Session, &h.Hostname, &deletedAt); err != nil {
		return nil, err
	}
	h.Timestamp = fromNanos(ts)
	if deletedAt.Valid {
		t := fromNanos(deletedAt.Int64)
		h.DeletedAt = &t
	}
	return &h, nil
}

// toNanos is the on-disk time encoding
func toNanos(t time.Time) int64 {
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func nullableNanos(t *time.Time) any {
	if t == nil {
		return nil
	}
	return toNanos(*t)
}

const insertHistorySQL = `INSERT OR IGNORE INTO history (` + historyColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertArgs(h *models.History) []any {
	return []any{h.ID, toNanos(h.Timestamp), h.Duration, h.Exit, h.Command, h.Cwd, h.Session, h.Hostname, nullableNanos(h.DeletedAt)}
}

// Save inserts h, ignoring an existing row with the same id
func (db *DB) Save(ctx context.Context, h *models.History) error {
	db.log.Debug("saving history", "id", h.ID)
	return db.withTx(ctx, "save", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertHistorySQL, insertArgs(h)...); err != nil {
			return storageErr(err, "failed to insert history")
		}
		return nil
	})
}

// SaveBulk inserts every entry in one transaction
func (db *DB) SaveBulk(ctx context.Context, hs []*models.History) error {
	db.log.Debug("saving history batch", "count", len(hs))
	if len(hs) == 0 {
		return nil
	}
	return db.withTx(ctx, "bulk save", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertHistorySQL)
		if err != nil {
			return storageErr(err, "failed to prepare insert")
		}
		defer stmt.Close()

		for _, h := range hs {
			if _, err := stmt.ExecContext(ctx, insertArgs(h)...); err != nil {
				return storageErr(err, "failed to insert history "+h.ID)
			}
		}
		return nil
	})
}

// Load returns the entry with the given id, or nil if there is none
func (db *DB) Load(ctx context.Context, id string) (*models.History, error) {
	db.log.Debug("loading history", "id", id)
	query, args := selectQuery{}.Where(Eq("id", id)).Limit(1).mustCompile("load")
	return db.queryOne(ctx, "load history", query, args...)
}

// List returns entries matching every filter mode, newest first.
// A limit of zero returns everything.
func (db *DB) List(ctx context.Context, filters []models.FilterMode, shell models.Context, limit int, unique, includeDeleted bool) ([]*models.History, error) {
	db.log.Debug("listing history", "filters", filters, "limit", limit, "unique", unique)

	q := selectQuery{}.Where(filterPreds(filters, shell, false)...).Unique(unique)
	if !includeDeleted {
		q = q.Where(IsNull("deleted_at"))
	}
	if limit > 0 {
		q = q.Limit(int64(limit))
	}

	query, args := q.mustCompile("list")
	return db.queryHistory(ctx, "list history", query, args...)
}

// Range returns entries with from <= timestamp <= to, oldest first
func (db *DB) Range(ctx context.Context, from, to time.Time) ([]*models.History, error) {
	db.log.Debug("listing history range", "from", from, "to", to)
	query, args := selectQuery{}.
		Where(Ge("timestamp", toNanos(from)), Le("timestamp", toNanos(to))).
		Ascending(true).
		mustCompile("range")
	return db.queryHistory(ctx, "list history range", query, args...)
}

// Update replaces every field of the row with h.ID
func (db *DB) Update(ctx context.Context, h *models.History) error {
	db.log.Debug("updating history", "id", h.ID)
	_, err := db.exec(ctx, "update history",
		`UPDATE history
		SET timestamp = ?, duration = ?, exit = ?, command = ?, cwd = ?, session = ?, hostname = ?, deleted_at = ?
		WHERE id = ?`,
		toNanos(h.Timestamp), h.Duration, h.Exit, h.Command, h.Cwd, h.Session, h.Hostname, nullableNanos(h.DeletedAt),
		h.ID,
	)
	return err
}

// HistoryCount returns the number of stored entries
func (db *DB) HistoryCount(ctx context.Context, includeDeleted bool) (int64, error) {
	query := "SELECT count(1) FROM history"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}

	conn, err := db.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var n int64
	if err := conn.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, storageErr(err, "failed to count history")
	}
	return n, nil
}

// Last returns the newest finished entry, or nil if there is none
func (db *DB) Last(ctx context.Context) (*models.History, error) {
	db.log.Debug("loading last history")
	query, args := selectQuery{}.Where(Ge("duration", 0)).Limit(1).mustCompile("last")
	return db.queryOne(ctx, "load last history", query, args...)
}

// Before returns the count newest entries strictly older than timestamp
func (db *DB) Before(ctx context.Context, timestamp time.Time, count int64) ([]*models.History, error) {
	db.log.Debug("listing history before", "timestamp", timestamp, "count", count)
	if count <= 0 {
		return nil, nil
	}
	query, args := selectQuery{}.Where(Lt("timestamp", toNanos(timestamp))).Limit(count).mustCompile("before")
	return db.queryHistory(ctx, "list history before", query, args...)
}

// Delete soft-deletes h: the command is overwritten and DeletedAt is set.
// h is modified in place.
func (db *DB) Delete(ctx context.Context, h *models.History) error {
	db.log.Debug("deleting history", "id", h.ID)
	now := db.opts.Now().UTC()
	h.Command = db.opts.Scrub(scrubLength)
	h.DeletedAt = &now
	return db.Update(ctx, h)
}

// DeleteRows removes the given ids in one transaction
func (db *DB) DeleteRows(ctx context.Context, ids []string) error {
	db.log.Debug("purging history", "count", len(ids))
	if len(ids) == 0 {
		return nil
	}
	return db.withTx(ctx, "delete rows", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, "DELETE FROM history WHERE id = ?")
		if err != nil {
			return storageErr(err, "failed to prepare delete")
		}
		defer stmt.Close()

		for _, id := range ids {
			if _, err := stmt.ExecContext(ctx, id); err != nil {
				return storageErr(err, "failed to delete history "+id)
			}
		}
		return nil
	})
}

// Deleted returns every soft-deleted entry, newest first
func (db *DB) Deleted(ctx context.Context) ([]*models.History, error) {
	db.log.Debug("listing deleted history")
	query, args := selectQuery{}.Where(IsNotNull("deleted_at")).mustCompile("deleted")
	return db.queryHistory(ctx, "list deleted history", query, args...)
}

// Search returns the newest entry of each distinct command matching query.
// Deleted entries are never returned. Fuzzy results are re-ranked so
// tighter matches come first.
func (db *DB) Search(ctx context.Context, mode models.SearchMode, filter models.FilterMode, shell models.Context, query string, opts models.OptFilters) ([]*models.History, error) {
	db.log.Debug("searching history", "mode", mode, "filter", filter, "query", query)

	q := selectQuery{}.Unique(true).Where(IsNull("deleted_at"))
	if p := filterPred(filter, shell, true); p != nil {
		q = q.Where(p)
	}
	q = q.Where(searchPreds(parseQuery(mode, query))...)
	q = q.Where(db.optPreds(opts)...)

	if opts.Limit != nil && *opts.Limit > 0 {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil && *opts.Offset > 0 {
		q = q.Offset(*opts.Offset)
	}
	q = q.Ascending(opts.Reverse)

	sqlText, args := q.mustCompile("search")
	res, err := db.queryHistory(ctx, "search history", sqlText, args...)
	if err != nil {
		return nil, err
	}
	return reorderFuzzy(mode, query, res), nil
}

// optPreds turns the optional search refinements into predicates.
// A date bound that does not parse is skipped.
func (db *DB) optPreds(opts models.OptFilters) []Pred {
	var preds []Pred
	if opts.Exit != nil {
		preds = append(preds, Eq("exit", *opts.Exit))
	}
	if opts.ExcludeExit != nil {
		preds = append(preds, Ne("exit", *opts.ExcludeExit))
	}
	if opts.Cwd != nil {
		preds = append(preds, Eq("cwd", *opts.Cwd))
	}
	if opts.ExcludeCwd != nil {
		preds = append(preds, Ne("cwd", *opts.ExcludeCwd))
	}
	if t, ok := db.parseBound("before", opts.Before); ok {
		preds = append(preds, Lt("timestamp", toNanos(t)))
	}
	if t, ok := db.parseBound("after", opts.After); ok {
		preds = append(preds, Gt("timestamp", toNanos(t)))
	}
	return preds
}

func (db *DB) parseBound(name string, s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, err := db.opts.Dates.Parse(*s, db.opts.Now())
	if err != nil {
		db.log.Debug("ignoring unparseable date bound", "bound", name, "value", *s, "error", err)
		return time.Time{}, false
	}
	return t, true
}

// QueryHistory runs a raw SQL statement and decodes every row it returns.
// Columns are matched to History fields by name; unknown columns are ignored.
// Never pass untrusted input.
func (db *DB) QueryHistory(ctx context.Context, query string) ([]*models.History, error) {
	db.log.Debug("running raw history query", "query", query)

	conn, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr(err, "failed to run query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, storageErr(err, "failed to read columns")
	}

	var out []*models.History
	for rows.Next() {
		h, err := scanNamed(rows, cols)
		if err != nil {
			return nil, storageErr(err, "failed to scan history")
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "failed to run query")
	}
	return out, nil
}

// scanNamed decodes a row whose column set is not known in advance
func scanNamed(rows *sql.Rows, cols []string) (*models.History, error) {
	var (
		h         models.History
		ts        sql.NullInt64
		deletedAt sql.NullInt64
		duration  sql.NullInt64
		exit      sql.NullInt64
		text      = make(map[string]*sql.NullString)
	)

	dest := make([]any, len(cols))
	for i, col := range cols {
		switch strings.ToLower(col) {
		case "timestamp":
			dest[i] = &ts
		case "deleted_at":
			dest[i] = &deletedAt
		case "duration":
			dest[i] = &duration
		case "exit":
			dest[i] = &exit
		case "id", "command", "cwd", "session", "hostname":
			s := new(sql.NullString)
			text[strings.ToLower(col)] = s
			dest[i] = s
		default:
			dest[i] = new(any)
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	str := func(name string) string {
		if s, ok := text[name]; ok {
			return s.String
		}
		return ""
	}
	h.ID = str("id")
	h.Command = str("command")
	h.Cwd = str("cwd")
	h.Session = str("session")
	h.Hostname = str("hostname")
	h.Duration = -1
	if duration.Valid {
		h.Duration = duration.Int64
	}
	h.Exit = -1
	if exit.Valid {
		h.Exit = exit.Int64
	}
	if ts.Valid {
		h.Timestamp = fromNanos(ts.Int64)
	}
	if deletedAt.Valid {
		t := fromNanos(deletedAt.Int64)
		h.DeletedAt = &t
	}
	return &h, nil
}

// AllWithCount groups active entries by (command, exit), most frequent first
func (db *DB) AllWithCount(ctx context.Context) ([]*models.HistoryCount, error) {
	db.log.Debug("counting history by command")

	conn, err := db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// ids are time-ordered, so max(id) is the newest row of the group
	rows, err := conn.QueryContext(ctx, `
		SELECT max(id), max(timestamp), max(duration), exit, command,
			json_group_array(cwd), json_group_array(session), json_group_array(hostname),
			count(*) AS n
		FROM history
		WHERE deleted_at IS NULL
		GROUP BY command, exit
		ORDER BY n DESC, max(timestamp) DESC`)
	if err != nil {
		return nil, storageErr(err, "failed to count history")
	}
	defer rows.Close()

	var out []*models.HistoryCount
	for rows.Next() {
		var (
			hc                        models.HistoryCount
			ts                        int64
			cwds, sessions, hostnames string
		)
		if err := rows.Scan(&hc.ID, &ts, &hc.Duration, &hc.Exit, &hc.Command, &cwds, &sessions, &hostnames, &hc.Count); err != nil {
			return nil, storageErr(err, "failed to scan history count")
		}
		hc.Timestamp = fromNanos(ts)
		if err := errors.CombineErrors(
			errors.CombineErrors(decodeStrings(cwds, &hc.Cwds), decodeStrings(sessions, &hc.Sessions)),
			decodeStrings(hostnames, &hc.Hostnames),
		); err != nil {
			return nil, storageErr(err, fmt.Sprintf("failed to decode groups of %q", hc.Command))
		}
		out = append(out, &hc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err, "failed to count history")
	}
	return out, nil
}

// decodeStrings reads a json_group_array result
func decodeStrings(src string, dst *[]string) error {
	return json.Unmarshal([]byte(src), dst)
}
