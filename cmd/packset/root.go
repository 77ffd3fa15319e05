package main

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hupe1980/packset"
	"github.com/hupe1980/packset/codec"
	"github.com/hupe1980/packset/sqlitefn"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	logLevel     string
	logFormat    string
	verifySorted bool
	dumpCodec    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "packset",
		Short:         "Encode and query MessagePack integer sets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "text", "log format (text, json)")
	pf.BoolVar(&flags.verifySorted, "verify-sorted", false, "reject sets that are not strictly ascending")
	pf.StringVar(&flags.dumpCodec, "dump-codec", "go-json", "codec used by dump (json, go-json)")

	cmd.AddCommand(
		newEncodeCmd(flags),
		newDecodeCmd(flags),
		newContainsCmd(flags, "contains-all", packset.MatchAll),
		newContainsCmd(flags, "contains-any", packset.MatchAny),
		newDumpCmd(flags),
		newSQLCmd(flags),
	)

	return cmd
}

func (f *rootFlags) logger(w io.Writer) (*packset.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", f.logLevel, err)
	}

	switch f.logFormat {
	case "text":
		return packset.NewTextLogger(w, level), nil
	case "json":
		return packset.NewJSONLogger(w, level), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", f.logFormat)
	}
}

func (f *rootFlags) engine(cmd *cobra.Command) (*packset.Engine, *packset.Logger, error) {
	logger, err := f.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}

	c, ok := codec.ByName(f.dumpCodec)
	if !ok {
		return nil, nil, fmt.Errorf("invalid --dump-codec %q", f.dumpCodec)
	}

	e := packset.New(
		packset.WithLogger(logger),
		packset.WithVerifySorted(f.verifySorted),
		packset.WithDumpCodec(c),
	)
	return e, logger, nil
}

func newEncodeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "encode [value...]",
		Short:   "Encode integers as a sorted, deduplicated set",
		Example: "  packset encode 3 1 2\n  packset encode -- -5 7",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := flags.engine(cmd)
			if err != nil {
				return err
			}

			values, err := parseInts(args, 0)
			if err != nil {
				return err
			}

			buf, err := e.Encode(cmd.Context(), values...)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(buf))
			return err
		},
	}
}

func newDecodeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <set>",
		Short: "Print the elements of a base64 encoded set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := flags.engine(cmd)
			if err != nil {
				return err
			}

			buf, err := decodeSet(args[0])
			if err != nil {
				return err
			}

			values, err := e.Decode(cmd.Context(), buf)
			if err != nil {
				return err
			}

			out := make([]string, len(values))
			for i, v := range values {
				out[i] = strconv.FormatInt(v, 10)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, " "))
			return err
		},
	}
}

func newContainsCmd(flags *rootFlags, use string, mode packset.Mode) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <set> <value> [value...]",
		Short: fmt.Sprintf("Report whether the set contains %s of the values", mode),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return &packset.ArityError{Func: use, Min: 2, Got: len(args)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := flags.engine(cmd)
			if err != nil {
				return err
			}

			buf, err := decodeSet(args[0])
			if err != nil {
				return err
			}

			query, err := parseInts(args[1:], 1)
			if err != nil {
				return err
			}

			found, err := e.Contains(cmd.Context(), mode, buf, query...)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), found)
			return err
		},
	}

	// Flags end at the set so negative values parse as arguments.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func newDumpCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <msgpack>",
		Short: "Render any base64 encoded MessagePack value as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := flags.engine(cmd)
			if err != nil {
				return err
			}

			buf, err := decodeSet(args[0])
			if err != nil {
				return err
			}

			text, err := e.Dump(cmd.Context(), buf)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newSQLCmd(flags *rootFlags) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Run a SQLite query with the mpack_* functions registered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, logger, err := flags.engine(cmd)
			if err != nil {
				return err
			}

			db := sqlitefn.OpenDB(dsn, func(o *sqlitefn.Options) {
				o.Engine = e
				o.Logger = logger
			})
			defer db.Close()

			// Keep :memory: databases on a single connection.
			db.SetMaxOpenConns(1)

			return runQuery(cmd.Context(), db, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&dsn, "db", ":memory:", "SQLite data source name")

	return cmd
}

func runQuery(ctx context.Context, db *sql.DB, query string, w io.Writer) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}

		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = formatColumn(v)
		}

		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}

	return rows.Err()
}

func formatColumn(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	default:
		return fmt.Sprint(v)
	}
}

func decodeSet(s string) ([]byte, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 set %q: %w", s, err)
	}
	return buf, nil
}

// parseInts parses decimal integers. offset is the position of args[0]
// among the command arguments.
func parseInts(args []string, offset int) ([]int64, error) {
	out := make([]int64, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, &packset.ArgumentError{Func: "packset", Index: offset + i, Expected: "an integer", Actual: strconv.Quote(a)}
		}
		out[i] = v
	}
	return out, nil
}
