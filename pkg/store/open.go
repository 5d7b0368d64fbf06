package store

import "fmt"

// Open constructs a KV backend by name. DSN meaning per backend:
// memory ignores it, file and sqlite treat it as a path, postgres as a
// connection string, redis as host:port.
func Open(backend, dsn string) (KV, error) {
	switch backend {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(dsn)
	case "sqlite":
		return OpenSQLite(dsn)
	case "postgres":
		return OpenPostgres(dsn)
	case "redis":
		return NewRedis(dsn, "", 0), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
