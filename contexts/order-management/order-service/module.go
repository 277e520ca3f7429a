package orderservice

import (
	"log/slog"
	"time"

	httpadapter "orderhub/contexts/order-management/order-service/adapters/http"
	"orderhub/contexts/order-management/order-service/adapters/memory"
	"orderhub/contexts/order-management/order-service/application/commands"
	"orderhub/contexts/order-management/order-service/application/queries"
	"orderhub/contexts/order-management/order-service/application/workers"
	"orderhub/contexts/order-management/order-service/domain/entities"
	"orderhub/contexts/order-management/order-service/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Processor workers.OrderMessageProcessor
	Store     *memory.Store
}

type Dependencies struct {
	Queries  ports.OrderQueries
	Commands ports.OrderCommands
	Payment  ports.PaymentGateway
	Dedup    ports.DedupCache
	DedupTTL time.Duration
	Clock    ports.Clock
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createOrder := commands.CreateOrderUseCase{
		Commands: deps.Commands,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	updateOrder := commands.UpdateOrderUseCase{
		Queries:  deps.Queries,
		Commands: deps.Commands,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	deleteOrder := commands.DeleteOrderUseCase{
		Queries:  deps.Queries,
		Commands: deps.Commands,
		Logger:   deps.Logger,
	}
	orderQueries := queries.QueryUseCase{
		Queries: deps.Queries,
		Logger:  deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateOrder: createOrder,
			UpdateOrder: updateOrder,
			DeleteOrder: deleteOrder,
			Queries:     orderQueries,
			Logger:      deps.Logger,
		},
		Processor: workers.OrderMessageProcessor{
			Queries:  deps.Queries,
			Commands: deps.Commands,
			Payment:  deps.Payment,
			Dedup:    deps.Dedup,
			DedupTTL: deps.DedupTTL,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the in-memory store. Payment is
// left to the caller through deps in NewModule; here it stays nil because the
// HTTP surface never calls the gateway.
func NewInMemoryModule(seed []entities.Order, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Queries:  store,
		Commands: store,
		Dedup:    store,
		DedupTTL: 24 * time.Hour,
		Clock:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
