// Package drivers selects a store implementation from configuration.
package drivers

import (
	"context"
	"fmt"

	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/store"
	"github.com/jonathan/career-counselor/internal/store/memstore"
	"github.com/jonathan/career-counselor/internal/store/mongostore"
	"github.com/jonathan/career-counselor/internal/store/pgstore"
)

// Dialer dials the driver named by config.Store.Driver.
type Dialer struct {
	// Memory backs the "memory" driver; nil uses memstore.Shared.
	Memory *memstore.Store
}

// Dial opens a session with the configured driver.
func (d Dialer) Dial(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		mem := d.Memory
		if mem == nil {
			mem = memstore.Shared()
		}
		return mem.Dial(ctx, cfg)
	case config.DriverPostgres:
		s, err := pgstore.Dial(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMongo, "":
		s, err := mongostore.Dial(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
