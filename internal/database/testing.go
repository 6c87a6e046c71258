package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

var testDBSeq atomic.Int64

// NewTestConnections opens a fresh in-memory sqlite database with the schema
// applied. Each call yields an isolated database; the connection is closed
// when the test finishes.
func NewTestConnections(tb testing.TB) *Connections {
	tb.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	// A single connection keeps the shared in-memory database alive.
	sqldb.SetMaxOpenConns(1)

	db := newBunDB(sqldb, sqlitedialect.New())
	if err := CreateSchema(context.Background(), db); err != nil {
		tb.Fatalf("create schema: %v", err)
	}

	tb.Cleanup(func() {
		_ = db.Close()
	})

	return &Connections{Writer: db, Reader: db}
}
