// Package storage persists extracted documentation catalogues in SQLite.
//
// The extraction engine itself holds nodes only in memory for the duration
// of one parse call; this package is the downstream surface that lets the
// CLI and MCP server answer queries about previously extracted modules.
//
// One catalogue row set per module: re-extracting replaces the module's
// nodes and slots atomically inside a transaction. Node order (reverse
// encounter order, as the engine produced it) is preserved through the seq
// column. Parameter lists and slot reference lists are stored as JSON
// arrays.
//
//	store, err := storage.NewSQLiteStorage("~/.quilldoc/catalogue.db")
//	err = store.SaveCatalogue(ctx, "my-module", nodes)
//	records, err := store.ListNodes(ctx, "my-module", "function")
//
// The database runs in WAL mode with a single writer connection.
package storage
