package http

import (
	"context"
	"net/http"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/worklog"
	"lastmile/internal/core/ports"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler is the shape shared by every command and query handler.
type Handler[In any, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// Handlers lists the use cases exposed over HTTP.
type Handlers struct {
	CreateCourier Handler[commands.CreateCourierCommand, *courier.Courier]
	CreateOrder   Handler[commands.CreateOrderCommand, *order.Order]

	AcceptOrder      Handler[commands.AcceptOrderCommand, *order.Order]
	AssignOrder      Handler[commands.AssignOrderCommand, *order.Order]
	SkipOrder        Handler[commands.SkipOrderCommand, *order.Order]
	AdvanceOrder     Handler[commands.AdvanceOrderCommand, *order.Order]
	CompleteDelivery Handler[commands.CompleteDeliveryCommand, commands.CompleteDeliveryResult]
	RateDelivery     Handler[commands.RateDeliveryCommand, *order.Order]

	CreateSettlement    Handler[commands.CreateSettlementCommand, commands.CreateSettlementResult]
	ConfirmPayable      Handler[commands.ConfirmPayableCommand, *ledger.Settlement]
	ReconcileSettlement Handler[commands.ReconcileSettlementCommand, *ledger.Settlement]
	ReconcileWallet     Handler[commands.ReconcileWalletCommand, commands.ReconcileWalletResult]

	ChangeShift    Handler[commands.ChangeShiftCommand, *worklog.WorkLog]
	UpdateLocation Handler[commands.UpdateCourierLocationCommand, ports.CourierLocation]

	GetOrderTracking      Handler[queries.GetOrderTrackingQuery, queries.GetOrderTrackingQueryResponse]
	GetOrderPayments      Handler[queries.GetOrderPaymentSummaryQuery, queries.GetOrderPaymentSummaryQueryResponse]
	GetDispatchCandidates Handler[queries.GetDispatchCandidatesQuery, queries.GetDispatchCandidatesQueryResponse]
	GetWallet             Handler[queries.GetWalletQuery, queries.GetWalletQueryResponse]
	GetPayableQR          Handler[queries.GetPayableQRQuery, queries.GetPayableQRQueryResponse]
	GetEarnings           Handler[queries.GetEarningsQuery, queries.GetEarningsQueryResponse]
	GetDeductions         Handler[queries.GetDeductionsQuery, queries.GetDeductionsQueryResponse]
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	doc    *openapi3.T
	logger *zap.Logger
}

func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	return &Server{h: handlers, logger: logger}
}

// NewEcho builds the echo instance with middleware, error handling and all
// routes registered.
func NewEcho(s *Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(Recover(s.logger), RequestLogger(s.logger))
	s.Register(e)
	return e
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	s.registerDocs(e)

	api := e.Group("/api/v1")

	// Routes called by other services, not by the courier app.
	api.POST("/couriers", s.RegisterCourier)
	api.POST("/orders", s.IntakeOrder)
	api.POST("/orders/:id/assign", s.AssignOrder)
	api.GET("/orders/:id/payments", s.GetOrderPayments)
	api.GET("/orders/:id/candidates", s.GetDispatchCandidates)
	api.POST("/settlements/:id/reconcile", s.ReconcileSettlement)

	app := api.Group("", CourierAuth())

	app.POST("/orders/:id/accept", s.AcceptOrder)
	app.POST("/orders/:id/skip", s.SkipOrder)
	app.POST("/orders/:id/pickup", s.PickupOrder)
	app.POST("/orders/:id/navigation", s.StartNavigation)
	app.POST("/orders/:id/reached", s.ReachedLocation)
	app.POST("/orders/:id/complete", s.CompleteDelivery)
	app.POST("/orders/:id/rating", s.RateDelivery)
	app.GET("/orders/:id/tracking", s.GetOrderTracking)

	app.POST("/settlements", s.CreateSettlement)
	app.POST("/settlements/:id/confirm", s.ConfirmPayable)

	app.GET("/wallet", s.GetWallet)
	app.GET("/wallet/payable-qr", s.GetPayableQR)
	app.POST("/wallet/reconcile", s.ReconcileWallet)
	app.GET("/earnings", s.GetEarnings)
	app.GET("/deductions", s.GetDeductions)

	app.POST("/couriers/me/online", s.GoOnline)
	app.POST("/couriers/me/offline", s.GoOffline)
	app.PUT("/couriers/me/location", s.UpdateLocation)
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
