package router

import (
	"context"
	"net/http"
	"time"

	_ "virtual-pet/docs"
	ledgermem "virtual-pet/internal/adapters/ledger/memory"
	mem "virtual-pet/internal/adapters/storage/memory"
	"virtual-pet/internal/adapters/storage/sqldb"
	"virtual-pet/internal/domain/events"
	"virtual-pet/internal/domain/items"
	"virtual-pet/internal/domain/ownership"
	"virtual-pet/internal/domain/pets"
	"virtual-pet/internal/domain/uow"
	"virtual-pet/internal/middleware"
	"virtual-pet/internal/platform/keylock"
	"virtual-pet/internal/platform/logger"
	"virtual-pet/internal/platform/metrics"
	"virtual-pet/internal/ports/auth"
	"virtual-pet/internal/ports/ledger"
	"virtual-pet/internal/ports/tx"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Store agrupa los repos de un backend y su límite transaccional.
type Store struct {
	Tx        tx.Transactor
	Pets      pets.Repository
	Items     items.Repository
	Ownership ownership.Repository
	Events    events.Repository
}

func MemoryStore() Store {
	s := mem.NewStore()
	return Store{
		Tx:        s,
		Pets:      s.Pets(),
		Items:     s.Items(),
		Ownership: s.OwnershipRequests(),
		Events:    s.Events(),
	}
}

func SQLStore(db *sqldb.DB) Store {
	return Store{
		Tx:        db,
		Pets:      sqldb.NewPetsRepo(db),
		Items:     sqldb.NewItemsRepo(db),
		Ownership: sqldb.NewOwnershipRepo(db),
		Events:    sqldb.NewEventsRepo(db),
	}
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si Store.Tx es nil, todo in-memory.
	Store Store

	// Opcional: si es nil, ledger in-memory.
	Ledger ledger.Ledger

	Logger   logger.Logger
	Throttle *middleware.Throttle

	EnableSwagger bool

	// Health opcional (p.ej. ping a la DB).
	Health func(ctx context.Context) error
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	store := opts.Store
	if store.Tx == nil {
		store = MemoryStore()
	}
	led := opts.Ledger
	if led == nil {
		led = ledgermem.New()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", healthHandler(opts.Health))
	r.Handle("/metrics", metrics.Handler())
	if opts.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	// Una sola unidad de trabajo para todos los módulos: comparten locks,
	// transacción y compensación del ledger.
	tracked := ledger.NewTracked(led)
	runner := uow.NewRunner(store.Tx, tracked, keylock.New(), log)

	// Services por módulo
	eventsSvc := events.NewService(store.Events)
	itemsSvc := items.NewService(store.Items, tracked, runner)
	petsSvc := pets.NewService(store.Pets, pets.Deps{
		Items:   itemsSvc,
		Journal: eventsSvc,
		Ledger:  tracked,
		Runner:  runner,
		Logger:  log,
	})
	ownershipSvc := ownership.NewService(store.Ownership, store.Pets, eventsSvc, runner, log)

	// Rutas por módulo
	r.Group(func(api chi.Router) {
		if opts.Throttle != nil {
			api.Use(opts.Throttle.Middleware)
		}

		pets.RegisterRoutes(api, petsSvc)
		items.RegisterRoutes(api, itemsSvc)
		ownership.RegisterRoutes(api, ownershipSvc)
		events.RegisterRoutes(api, eventsSvc, petsSvc)

		api.Get("/me/balance", balanceHandler(tracked))
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
