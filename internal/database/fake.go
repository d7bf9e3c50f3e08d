package database

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call 記錄 FakeDB 收到的一次查詢
type Call struct {
	Op   string
	SQL  string
	Args []any
}

// FakeDB 供 handler 與 store 測試替換資料庫；未設定的函式被呼叫時 panic
type FakeDB struct {
	ExecFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	PingFn     func(ctx context.Context) error
	CloseFn    func()

	mu    sync.Mutex
	calls []Call
}

func (f *FakeDB) record(op, sql string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, SQL: sql, Args: args})
}

// Calls 回傳目前為止記錄的查詢副本
func (f *FakeDB) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *FakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.ExecFn == nil {
		panic("unexpected Exec")
	}
	f.record("exec", sql, args)
	return f.ExecFn(ctx, sql, args...)
}

func (f *FakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.QueryFn == nil {
		panic("unexpected Query")
	}
	f.record("query", sql, args)
	return f.QueryFn(ctx, sql, args...)
}

func (f *FakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.QueryRowFn == nil {
		panic("unexpected QueryRow")
	}
	f.record("row", sql, args)
	return f.QueryRowFn(ctx, sql, args...)
}

func (f *FakeDB) Ping(ctx context.Context) error {
	if f.PingFn == nil {
		panic("unexpected Ping")
	}
	return f.PingFn(ctx)
}

func (f *FakeDB) Close() {
	if f.CloseFn != nil {
		f.CloseFn()
	}
}

// FakeRows 實作 pgx.Rows，逐列把 Data 指派給 Scan 的目的地
// 值的型別需與目的地元素一致；nil 代表零值
type FakeRows struct {
	Data [][]any
	idx  int
}

func (r *FakeRows) Close()                                       {}
func (r *FakeRows) Err() error                                   { return nil }
func (r *FakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *FakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *FakeRows) Next() bool                                   { return r.idx < len(r.Data) }
func (r *FakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *FakeRows) RawValues() [][]byte                          { return nil }
func (r *FakeRows) Conn() *pgx.Conn                              { return nil }

func (r *FakeRows) Scan(dest ...any) error {
	if r.idx >= len(r.Data) {
		return pgx.ErrNoRows
	}
	vals := r.Data[r.idx]
	r.idx++
	if len(dest) != len(vals) {
		return fmt.Errorf("FakeRows.Scan: %d destinations for %d values", len(dest), len(vals))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		v := reflect.ValueOf(vals[i])
		if !v.IsValid() {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(v)
	}
	return nil
}
