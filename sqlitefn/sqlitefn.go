package sqlitefn

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/hupe1980/packset"
	"github.com/mattn/go-sqlite3"
)

// SQL function names.
const (
	FuncB64          = "mpack_b64"
	FuncArray        = "mpack_array"
	FuncContains     = "mpack_contains"
	FuncContainsOne  = "mpack_contains_one"
	FuncContainsSome = "mpack_contains_some"
	FuncDebugList    = "mpack_dbg_list"
)

// Options configures the registered functions.
type Options struct {
	// Engine evaluates the functions. Defaults to packset.New().
	Engine *packset.Engine
	// Logger receives argument validation failures. Defaults to packset.NoopLogger().
	Logger *packset.Logger
}

func buildOptions(optFns []func(o *Options)) Options {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Engine == nil {
		opts.Engine = packset.New()
	}
	if opts.Logger == nil {
		opts.Logger = packset.NoopLogger()
	}
	return opts
}

// Register adds the packset functions to conn.
func Register(conn *sqlite3.SQLiteConn, optFns ...func(o *Options)) error {
	f := &funcs{opts: buildOptions(optFns)}

	impls := []struct {
		name string
		impl any
	}{
		{FuncB64, f.b64},
		{FuncArray, f.array},
		{FuncContains, f.containsFunc(FuncContains, packset.MatchAll)},
		{FuncContainsOne, f.containsFunc(FuncContainsOne, packset.MatchAny)},
		{FuncContainsSome, f.containsFunc(FuncContainsSome, packset.MatchAny)},
		{FuncDebugList, f.debugList},
	}

	for _, fn := range impls {
		if err := conn.RegisterFunc(fn.name, fn.impl, true); err != nil {
			return fmt.Errorf("sqlitefn: register %s: %w", fn.name, err)
		}
	}
	return nil
}

// NewDriver returns a SQLite driver that registers the packset functions on
// every new connection.
func NewDriver(optFns ...func(o *Options)) *sqlite3.SQLiteDriver {
	return &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return Register(conn, optFns...)
		},
	}
}

// OpenDB opens dsn with a driver from NewDriver. No global driver name is
// registered, so it may be called any number of times.
func OpenDB(dsn string, optFns ...func(o *Options)) *sql.DB {
	return sql.OpenDB(&connector{dsn: dsn, driver: NewDriver(optFns...)})
}

type connector struct {
	dsn    string
	driver *sqlite3.SQLiteDriver
}

func (c *connector) Connect(context.Context) (driver.Conn, error) { return c.driver.Open(c.dsn) }

func (c *connector) Driver() driver.Driver { return c.driver }

type funcs struct {
	opts Options
}

func (f *funcs) fail(name string, err error) error {
	var ae *packset.ArityError
	var ge *packset.ArgumentError
	if errors.As(err, &ae) || errors.As(err, &ge) {
		f.opts.Logger.WithFunc(name).Warn("invalid call", "error", err)
	}
	return err
}

func (f *funcs) b64(text any) ([]byte, error) {
	s, ok := text.(string)
	if !ok {
		return nil, f.fail(FuncB64, &packset.ArgumentError{Func: FuncB64, Index: 0, Expected: "TEXT", Actual: sqlType(text)})
	}

	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, rawErr := base64.RawStdEncoding.DecodeString(s)
		if rawErr != nil {
			return nil, fmt.Errorf("%s: %w", FuncB64, err)
		}
		buf = raw
	}
	return buf, nil
}

func (f *funcs) array(args ...any) ([]byte, error) {
	values, err := integers(FuncArray, args, 0)
	if err != nil {
		return nil, f.fail(FuncArray, err)
	}
	return f.opts.Engine.Encode(context.Background(), values...)
}

// containsFunc binds a contains implementation to its SQL name so errors
// report the name the query used.
func (f *funcs) containsFunc(name string, mode packset.Mode) func(args ...any) (int64, error) {
	return func(args ...any) (int64, error) {
		return f.contains(name, mode, args)
	}
}

func (f *funcs) contains(name string, mode packset.Mode, args []any) (int64, error) {
	if len(args) < 2 {
		return 0, f.fail(name, &packset.ArityError{Func: name, Min: 2, Got: len(args)})
	}

	blob, ok := blobArg(args[0])
	if !ok {
		return 0, f.fail(name, &packset.ArgumentError{Func: name, Index: 0, Expected: "BLOB", Actual: sqlType(args[0])})
	}

	query, err := integers(name, args[1:], 1)
	if err != nil {
		return 0, f.fail(name, err)
	}

	found, err := f.opts.Engine.Contains(context.Background(), mode, blob, query...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if found {
		return 1, nil
	}
	return 0, nil
}

func (f *funcs) debugList(blob any) (string, error) {
	b, ok := blobArg(blob)
	if !ok {
		return "", f.fail(FuncDebugList, &packset.ArgumentError{Func: FuncDebugList, Index: 0, Expected: "BLOB", Actual: sqlType(blob)})
	}

	text, err := f.opts.Engine.Dump(context.Background(), b)
	if err != nil {
		return "", fmt.Errorf("%s: %w", FuncDebugList, err)
	}
	return text, nil
}

// integers converts SQL arguments to int64 values. offset is the position of
// args[0] in the full argument list.
func integers(name string, args []any, offset int) ([]int64, error) {
	out := make([]int64, len(args))
	for i, a := range args {
		v, ok := a.(int64)
		if !ok {
			return nil, &packset.ArgumentError{Func: name, Index: offset + i, Expected: "INTEGER", Actual: sqlType(a)}
		}
		out[i] = v
	}
	return out, nil
}

// blobArg accepts non-NULL BLOB arguments. The driver passes NULL to
// generic arguments as a nil byte slice.
func blobArg(v any) ([]byte, bool) {
	b, ok := v.([]byte)
	return b, ok && b != nil
}

func sqlType(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return "INTEGER"
	case float64:
		return "REAL"
	case string:
		return "TEXT"
	case []byte:
		if v == nil {
			return "NULL"
		}
		return "BLOB"
	default:
		return fmt.Sprintf("%T", v)
	}
}
