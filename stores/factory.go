package stores

import (
	"fmt"
)

const defaultSQLitePath = "traces.sqlite"

// NewTraceStore creates a trace store based on the configuration. An empty
// type disables tracing and returns a NopTraceStore.
func NewTraceStore(config *StoreConfig) (TraceStore, error) {
	switch config.Type {
	case "", "none":
		return NopTraceStore{}, nil
	case "sqlite":
		path := config.Connection
		if path == "" {
			path = defaultSQLitePath
		}
		return NewSQLiteTraceStore(path)
	case "postgres":
		if config.Connection == "" {
			return nil, fmt.Errorf("postgres trace store needs a DSN")
		}
		return NewPostgresTraceStore(config.Connection)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
