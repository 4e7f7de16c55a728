package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"macdStreamBot/internal/domain"
	"macdStreamBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Journal implements ports.OrderJournal using SQLite.
type Journal struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite journal.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewJournal creates a new SQLite order journal.
func NewJournal(cfg Config) (*Journal, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite journal")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/orders.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver behaves best with
	// a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	journal := &Journal{db: db, logger: cfg.Logger}
	if err := journal.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize journal schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite journal initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite order journal ready", map[string]interface{}{"path": dbPath})

	return journal, nil
}

func (j *Journal) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		submitted_at TIMESTAMP NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		limit_price REAL DEFAULT NULL,
		order_type TEXT NOT NULL,
		status TEXT NOT NULL,
		broker_order_id TEXT DEFAULT NULL,
		error TEXT DEFAULT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_symbol_submitted_at ON orders (symbol, submitted_at);
	`
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		j.logger.Info(context.Background(), "Closing SQLite order journal")
		return j.db.Close()
	}
	return nil
}

// Record saves a new journal entry and returns its assigned ID.
func (j *Journal) Record(ctx context.Context, rec *ports.OrderRecord) (int64, error) {
	const query = `
	INSERT INTO orders (submitted_at, symbol, side, quantity, limit_price, order_type, status, broker_order_id, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := j.db.ExecContext(ctx, query,
		rec.SubmittedAt, rec.Symbol, string(rec.Side), rec.Quantity, rec.LimitPrice,
		rec.OrderType, rec.Status, rec.BrokerOrderID, rec.Error)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to insert order record for %s: %v", ports.ErrQueryFailed, rec.Symbol, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get last insert ID for %s: %v", ports.ErrQueryFailed, rec.Symbol, err)
	}
	rec.ID = id
	j.logger.Debug(ctx, "Order recorded", map[string]interface{}{"orderRecordID": id, "symbol": rec.Symbol})
	return id, nil
}

// UpdateOutcome stores the brokerage's response for an existing entry.
func (j *Journal) UpdateOutcome(ctx context.Context, id int64, status, brokerOrderID, errMsg string) error {
	const query = `UPDATE orders SET status = ?, broker_order_id = ?, error = ? WHERE id = ?`

	result, err := j.db.ExecContext(ctx, query, status, brokerOrderID, errMsg, id)
	if err != nil {
		return fmt.Errorf("%w: failed to update order record %d: %v", ports.ErrUpdateFailed, id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check rows affected for record %d: %v", ports.ErrUpdateFailed, id, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: no order record with id %d", ports.ErrUpdateFailed, id)
	}
	j.logger.Debug(ctx, "Order outcome updated", map[string]interface{}{"orderRecordID": id, "status": status})
	return nil
}

// FindBySymbol retrieves the most recent entries for a symbol, up to limit.
func (j *Journal) FindBySymbol(ctx context.Context, symbol string, limit int) ([]*ports.OrderRecord, error) {
	const query = `
	SELECT id, submitted_at, symbol, side, quantity, limit_price, order_type, status, broker_order_id, error
	FROM orders WHERE symbol = ? ORDER BY submitted_at DESC LIMIT ?`

	rows, err := j.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query order records for %s: %v", ports.ErrQueryFailed, symbol, err)
	}
	defer rows.Close()

	var records []*ports.OrderRecord
	for rows.Next() {
		rec := &ports.OrderRecord{}
		var side string
		var limitPrice sql.NullFloat64
		var brokerOrderID, errMsg sql.NullString
		if err := rows.Scan(&rec.ID, &rec.SubmittedAt, &rec.Symbol, &side, &rec.Quantity,
			&limitPrice, &rec.OrderType, &rec.Status, &brokerOrderID, &errMsg); err != nil {
			return nil, fmt.Errorf("%w: failed to scan order record: %v", ports.ErrQueryFailed, err)
		}
		rec.Side = domain.OrderSide(side)
		if limitPrice.Valid {
			price := limitPrice.Float64
			rec.LimitPrice = &price
		}
		rec.BrokerOrderID = brokerOrderID.String
		rec.Error = errMsg.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration failed for %s: %v", ports.ErrQueryFailed, symbol, err)
	}
	return records, nil
}
