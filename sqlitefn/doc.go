// Package sqlitefn exposes packset as SQLite scalar functions through
// github.com/mattn/go-sqlite3.
//
// Registered functions (all deterministic):
//
//	mpack_b64(text)                  decode base64 text into a BLOB
//	mpack_array(int, ...)            sorted, deduplicated set as a MessagePack BLOB
//	mpack_contains(blob, int, ...)   1 if the set contains every value, else 0
//	mpack_contains_one(blob, int, ...) 1 if the set contains any value, else 0
//	mpack_contains_some(blob, int, ...) alias of mpack_contains_one
//	mpack_dbg_list(blob)             JSON-like rendering of any MessagePack BLOB
//
// The contains functions require at least one query value; fewer arguments
// fail with *packset.ArityError. Arguments of the wrong SQL type fail with
// *packset.ArgumentError. Both surface as SQL errors.
//
// Use OpenDB for a ready-to-use *sql.DB, or NewDriver/Register to integrate
// with an existing driver setup.
package sqlitefn
