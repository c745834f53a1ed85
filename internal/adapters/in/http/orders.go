package http

import (
	"net/http"
	"strconv"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PointRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type AmountsRequest struct {
	GrandTotal  decimal.Decimal `json:"grandTotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Discount    decimal.Decimal `json:"discount"`
}

type IntakeOrderRequest struct {
	ID            string         `json:"id"`
	Number        string         `json:"number"`
	Amounts       AmountsRequest `json:"amounts"`
	PaymentMethod string         `json:"paymentMethod"`
	Prepaid       bool           `json:"prepaid"`
	Pickup        *PointRequest  `json:"pickup"`
	Drop          *PointRequest  `json:"drop"`
	Store         Contact        `json:"store"`
	Customer      Contact        `json:"customer"`
}

type AssignOrderRequest struct {
	CourierID string `json:"courierId"`
}

type CompleteDeliveryRequest struct {
	PaymentMethod   string          `json:"paymentMethod"`
	AmountCollected decimal.Decimal `json:"amountCollected"`
	Notes           string          `json:"notes"`
}

type RateDeliveryRequest struct {
	Score int `json:"score"`
}

// IntakeOrder handles POST /api/v1/orders. The storefront may pass its own
// order id; posting the same id again returns the stored order.
func (s *Server) IntakeOrder(c echo.Context) error {
	var req IntakeOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	orderID := kernel.NewUUID()
	if req.ID != "" {
		id, err := kernel.UUIDFromString(req.ID)
		if err != nil {
			return err
		}
		orderID = id
	}

	amounts, err := order.NewAmounts(req.Amounts.GrandTotal, req.Amounts.ShippingFee, req.Amounts.Discount)
	if err != nil {
		return err
	}
	method, err := ledger.ParseMethod(req.PaymentMethod)
	if err != nil {
		return err
	}
	pickup, err := toGeoPoint(req.Pickup)
	if err != nil {
		return err
	}
	drop, err := toGeoPoint(req.Drop)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(
		orderID, req.Number, amounts, method, req.Prepaid, pickup, drop,
		order.Contact(req.Store), order.Contact(req.Customer),
	)
	if err != nil {
		return err
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrder(o))
}

// AssignOrder handles POST /api/v1/orders/:id/assign, the dispatcher path.
func (s *Server) AssignOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req AssignOrderRequest
	if err = c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignOrderCommand(orderID, courierID)
	if err != nil {
		return err
	}
	o, err := s.h.AssignOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(o))
}

func (s *Server) AcceptOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAcceptOrderCommand(orderID, CallerCourierID(c))
	if err != nil {
		return err
	}
	o, err := s.h.AcceptOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(o))
}

func (s *Server) SkipOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSkipOrderCommand(orderID, CallerCourierID(c))
	if err != nil {
		return err
	}
	o, err := s.h.SkipOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(o))
}

func (s *Server) PickupOrder(c echo.Context) error {
	return s.advance(c, commands.NewPickupOrderCommand)
}

func (s *Server) StartNavigation(c echo.Context) error {
	return s.advance(c, commands.NewStartNavigationCommand)
}

func (s *Server) ReachedLocation(c echo.Context) error {
	return s.advance(c, commands.NewReachedLocationCommand)
}

func (s *Server) advance(
	c echo.Context,
	newCommand func(orderID kernel.UUID, courierID kernel.UUID) (commands.AdvanceOrderCommand, error),
) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := newCommand(orderID, CallerCourierID(c))
	if err != nil {
		return err
	}
	o, err := s.h.AdvanceOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(o))
}

func (s *Server) CompleteDelivery(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req CompleteDeliveryRequest
	if err = c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	var method ledger.Method
	if req.PaymentMethod != "" {
		if method, err = ledger.ParseMethod(req.PaymentMethod); err != nil {
			return err
		}
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID, CallerCourierID(c), method, req.AmountCollected, req.Notes)
	if err != nil {
		return err
	}
	result, err := s.h.CompleteDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCompleteDelivery(result))
}

func (s *Server) RateDelivery(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var req RateDeliveryRequest
	if err = c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	cmd, err := commands.NewRateDeliveryCommand(orderID, req.Score)
	if err != nil {
		return err
	}
	o, err := s.h.RateDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(o))
}

func (s *Server) GetOrderTracking(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderTrackingQuery(orderID, CallerCourierID(c))
	if err != nil {
		return err
	}
	view, err := s.h.GetOrderTracking.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTracking(view))
}

func (s *Server) GetOrderPayments(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderPaymentSummaryQuery(orderID)
	if err != nil {
		return err
	}
	summary, err := s.h.GetOrderPayments.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentSummary(summary))
}

// GetDispatchCandidates handles GET /api/v1/orders/:id/candidates?limit=.
func (s *Server) GetDispatchCandidates(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return badRequest("limit must be an integer")
		}
	}

	query, err := queries.NewGetDispatchCandidatesQuery(orderID, limit)
	if err != nil {
		return err
	}
	result, err := s.h.GetDispatchCandidates.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCandidates(result))
}

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, badRequest("invalid id in path")
	}
	return id, nil
}

func toGeoPoint(p *PointRequest) (*kernel.GeoPoint, error) {
	if p == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(p.Lat, p.Lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
