package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"papertrade/pkg/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS ticks (
	ts TIMESTAMP,
	symbol VARCHAR,
	last DOUBLE,
	bid DOUBLE,
	ask DOUBLE
);
CREATE TABLE IF NOT EXISTS trade_events (
	ts TIMESTAMP,
	kind VARCHAR,
	symbol VARCHAR,
	order_id UBIGINT,
	side VARCHAR,
	lots DOUBLE,
	price DOUBLE,
	realized_pnl DOUBLE
);`

// Writer appends ticks and trade events to a DuckDB file for post-session
// inspection. Best effort by construction: the caller decides whether a
// write failure is fatal.
type Writer struct {
	dataSourceName string
	db             *sql.DB
}

func NewWriter(dataSourceName string) *Writer {
	return &Writer{
		dataSourceName: dataSourceName,
	}
}

func (w *Writer) Connect() error {
	db, err := sql.Open("duckdb", w.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	w.db = db
	return nil
}

func (w *Writer) Close() {
	_ = w.db.Close()
}

func (w *Writer) WriteTick(ctx context.Context, tick common.Tick) error {
	last, _ := tick.Last.Float64()
	bid, _ := tick.Bid.Float64()
	ask, _ := tick.Ask.Float64()

	_, err := w.db.ExecContext(ctx,
		`INSERT INTO ticks (ts, symbol, last, bid, ask) VALUES (?, ?, ?, ?, ?)`,
		tick.TimeStamp, tick.Symbol, last, bid, ask)
	if err != nil {
		return fmt.Errorf("insert tick: %w", err)
	}
	return nil
}

func (w *Writer) WriteTradeEvent(ctx context.Context, event common.TradeEvent) error {
	var (
		symbol  string
		orderId uint64
		side    string
		lots    float64
		price   float64
	)
	switch {
	case event.Order != nil:
		symbol = event.Order.Symbol
		orderId = uint64(event.Order.Id)
		side = string(event.Order.Side)
		lots, _ = event.Order.Lots.Float64()
		price, _ = event.Order.FilledPrice.Float64()
	case event.Position != nil:
		symbol = event.Position.Symbol
		orderId = uint64(event.Position.Id)
		side = string(event.Position.Side)
		lots, _ = event.Position.Lots.Float64()
		price, _ = event.Position.MarkPrice.Float64()
	}
	realized, _ := event.RealizedPnl.Float64()

	_, err := w.db.ExecContext(ctx,
		`INSERT INTO trade_events (ts, kind, symbol, order_id, side, lots, price, realized_pnl)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.TimeStamp, string(event.Kind), symbol, orderId, side, lots, price, realized)
	if err != nil {
		return fmt.Errorf("insert trade event: %w", err)
	}
	return nil
}
