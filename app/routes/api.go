package routes

import (
	"net/http"
	"time"

	"github.com/dnguyen-dev/bistro/app/controllers"
	"github.com/dnguyen-dev/bistro/app/repositories"
	"github.com/dnguyen-dev/bistro/app/services"
	"github.com/dnguyen-dev/bistro/pkg/metrics"
	"github.com/dnguyen-dev/bistro/pkg/middleware"
	"github.com/dnguyen-dev/bistro/pkg/router"
	"github.com/dnguyen-dev/bistro/pkg/workerpool"
)

// App bundles the long-lived services the HTTP layer is built on, so the
// server can hand them to the scheduler and shut them down cleanly.
type App struct {
	Bookings *services.BookingService
	Flow     *services.FlowService
	Payments *services.PaymentEngine
	Pool     *workerpool.Pool
}

// RegisterAPI wires every HTTP endpoint onto the router and returns the
// service graph behind them.
func RegisterAPI(r *router.Router) (*App, error) {
	bookings := services.NewBookingService(
		repositories.NewBookingRepository(),
		repositories.NewTableRepository(),
	)
	flow := services.NewFlowService(bookings)
	pool := workerpool.New(4)
	payments := services.NewPaymentEngine(flow, pool)

	authController := controllers.NewAuthController(services.NewAuthService(), flow)
	menuController := controllers.NewMenuController()
	tableController := controllers.NewTableController()
	flowController := controllers.NewFlowController(flow)
	paymentController := controllers.NewPaymentController(payments)
	bookingController := controllers.NewBookingController(bookings)
	graphqlController, err := controllers.NewGraphQLController(bookings)
	if err != nil {
		return nil, err
	}

	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/ws/payment", "payment.stream", paymentController.Stream)

	api := r.Group("/api")

	// Login and register are rate limited a little harder than the rest
	// to slow down credential stuffing.
	guest := api.Group("", middleware.RateLimit(10, time.Minute))
	guest.Post("/register", "auth.register", authController.Register)
	guest.Post("/login", "auth.login", authController.Login)

	api.Post("/logout", "auth.logout", authController.Logout)

	api.Get("/menu", "menu.index", menuController.Index)
	api.Get("/menu/{code}", "menu.show", menuController.Show)
	api.Get("/tables", "tables.index", tableController.Index)
	api.Get("/tables/slots", "tables.slots", tableController.Slots)

	api.Post("/cart", "cart.add", flowController.AddToCart)
	api.Patch("/cart", "cart.update", flowController.UpdateQuantity)
	api.Post("/reservation", "reservation.submit", flowController.SubmitReservation)

	flowGroup := api.Group("/flow")
	flowGroup.Get("", "flow.show", flowController.Show)
	flowGroup.Post("/visit", "flow.visit", flowController.Visit)
	flowGroup.Post("/proceed", "flow.proceed", flowController.Proceed)
	flowGroup.Post("/confirm", "flow.confirm", flowController.Confirm)
	flowGroup.Post("/cancel-booking", "flow.cancel-booking", flowController.CancelBooking)
	flowGroup.Post("/complete", "flow.complete", flowController.Complete)

	payment := api.Group("/payment")
	payment.Get("", "payment.show", paymentController.Show)
	payment.Post("/start", "payment.start", paymentController.Start)
	payment.Post("/confirm", "payment.confirm", paymentController.Confirm)
	payment.Post("/cancel", "payment.cancel", paymentController.Cancel)
	payment.Get("/qr", "payment.qr", paymentController.QRImage)

	api.Post("/graphql", "graphql", graphqlController.Query)

	protected := api.Group("", middleware.Auth)
	protected.Get("/profile", "auth.profile", authController.Profile)
	protected.Get("/bookings", "bookings.index", bookingController.Index)
	protected.Get("/bookings/{code}", "bookings.show", bookingController.Show)

	return &App{
		Bookings: bookings,
		Flow:     flow,
		Payments: payments,
		Pool:     pool,
	}, nil
}
