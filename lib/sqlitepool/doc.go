// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens the client's local SQLite databases.
//
// It wraps zombiezen.com/go/sqlite's sqlitex.Pool and applies the same
// pragmas to every connection: WAL journaling so a reader never waits
// on a writer, synchronous=NORMAL, and a busy timeout so two CLI
// processes touching the same session database queue instead of
// failing with SQLITE_BUSY.
//
// Callers [Pool.Take] a connection, run statements with sqlitex, and
// [Pool.Put] it back:
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path: path,
//	    OnConnect: func(conn *sqlite.Conn) error {
//	        return sqlitex.ExecuteScript(conn, schema, nil)
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
// There is no query builder. Statements are plain SQL.
package sqlitepool
