package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chopnowhq/chopnow-backend/api/controllers"
	webhookcontrollers "github.com/chopnowhq/chopnow-backend/api/controllers/webhooks"
	"github.com/chopnowhq/chopnow-backend/api/middleware"
	directorysvc "github.com/chopnowhq/chopnow-backend/internal/directory"
	feesvc "github.com/chopnowhq/chopnow-backend/internal/fees"
	menusvc "github.com/chopnowhq/chopnow-backend/internal/menu"
	ordersvc "github.com/chopnowhq/chopnow-backend/internal/orders"
	paymentsvc "github.com/chopnowhq/chopnow-backend/internal/payments"
	reservationsvc "github.com/chopnowhq/chopnow-backend/internal/reservations"
	paystackwebhook "github.com/chopnowhq/chopnow-backend/internal/webhooks/paystack"
	pkgAuth "github.com/chopnowhq/chopnow-backend/pkg/auth"
	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/db"
	"github.com/chopnowhq/chopnow-backend/pkg/logger"
	"github.com/chopnowhq/chopnow-backend/pkg/metrics"
	"github.com/chopnowhq/chopnow-backend/pkg/paystack"
	"github.com/chopnowhq/chopnow-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       db.Pinger
	CachePinger    redis.Pinger
	Sessions       pkgAuth.SessionChecker
	Metrics        *metrics.APIMetrics
	Menu           menusvc.Service
	Directory      directorysvc.Service
	Fees           feesvc.Service
	Orders         ordersvc.Service
	Payments       paymentsvc.Service
	Reservations   reservationsvc.Service
	PaystackClient *paystack.Client
	WebhookService *paystackwebhook.Service
	WebhookGuard   *paystackwebhook.IdempotencyGuard
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DBPinger, deps.CachePinger, logg))
	})

	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/menu", controllers.ListMenu(deps.Menu, logg))
		r.Get("/categories", controllers.ListCategories(deps.Menu, logg))
		r.Get("/branches", controllers.ListBranches(deps.Directory, logg))
		r.Get("/branches/{branchId}", controllers.GetBranch(deps.Directory, logg))
		r.Get("/delivery-zones", controllers.ListDeliveryZones(deps.Directory, logg))
		r.Get("/delivery-fee", controllers.DeliveryFee(deps.Fees, logg))

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/paystack", webhookcontrollers.PaystackWebhook(deps.WebhookService, deps.PaystackClient, deps.WebhookGuard, deps.Metrics, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Post("/orders", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Get("/orders/{orderId}", controllers.GetOrder(deps.Orders, logg))
			r.Post("/orders/{orderId}/pay", controllers.InitiatePayment(deps.Payments, logg))

			r.Post("/reservations", controllers.CreateReservation(deps.Reservations, logg))
			r.Get("/reservations", controllers.ListReservations(deps.Reservations, logg))
		})
	})

	return r
}
