package components

import (
	"log/slog"

	"reservation-engine/internal/infra/memstore"
	"reservation-engine/internal/infra/outbox"
	"reservation-engine/internal/infra/readstore"
	"reservation-engine/internal/infra/uow"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"
	"reservation-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPersistence,
	),
)

// Persistence is the driver-selected storage: the write side, the committed-state
// reads, the resource catalog and the outbox the relay drains.
type Persistence struct {
	fx.Out

	UoW         shared.UnitOfWork
	Catalog     shared.ResourceCatalog
	Reader      commands.ReservationReader
	ReadStore   queries.ReservationReadStore
	OutboxStore outbox.Store
}

type persistenceParams struct {
	fx.In

	Config config.Config
	Clock  clock.Clock
	Retry  shared.RetryPolicy
	Logger *slog.Logger
	Pool   *pgxpool.Pool
}

func NewPersistence(p persistenceParams) (Persistence, error) {
	switch p.Config.Store.Driver {
	case config.StoreDriverMemory:
		return newMemoryPersistence(p)
	case config.StoreDriverPostgres:
		if p.Pool == nil {
			return Persistence{}, errs.New("postgres store driver selected without a connection pool")
		}
		return newPostgresPersistence(p.Pool, p), nil
	default:
		return Persistence{}, errs.Newf("unknown store driver %q", p.Config.Store.Driver)
	}
}

func newMemoryPersistence(p persistenceParams) (Persistence, error) {
	ob := outbox.NewMemoryStore(p.Clock)
	store := memstore.NewStore(p.Clock, p.Logger, ob)
	catalog := memstore.NewCatalog(p.Logger)

	if p.Config.Store.SeedFile != "" {
		n, err := catalog.LoadSeed(p.Config.Store.SeedFile)
		if err != nil {
			return Persistence{}, err
		}
		p.Logger.Info("resource catalog seeded", "file", p.Config.Store.SeedFile, "resources", n)
	}

	return Persistence{
		UoW:         store,
		Catalog:     catalog,
		Reader:      store,
		ReadStore:   store,
		OutboxStore: ob,
	}, nil
}

func newPostgresPersistence(pool *pgxpool.Pool, p persistenceParams) Persistence {
	reads := readstore.NewReservationReadStore(pool, p.Logger)
	return Persistence{
		UoW:         uow.NewPostgresUoW(pool, p.Retry, p.Logger),
		Catalog:     readstore.NewResourceCatalog(pool, p.Logger),
		Reader:      reads,
		ReadStore:   reads,
		OutboxStore: outbox.NewPostgresStore(pool, p.Logger),
	}
}
