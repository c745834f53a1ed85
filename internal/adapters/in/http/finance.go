package http

import (
	"net/http"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CreateSettlementRequest struct {
	PaymentIDs []string `json:"paymentIds"`
	Method     string   `json:"method"`
}

type ConfirmPayableRequest struct {
	ReferenceID string          `json:"referenceId"`
	Amount      decimal.Decimal `json:"amount"`
}

func (s *Server) CreateSettlement(c echo.Context) error {
	var req CreateSettlementRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	ids := make([]kernel.UUID, 0, len(req.PaymentIDs))
	for _, raw := range req.PaymentIDs {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	method, err := ledger.ParseSettlementMethod(req.Method)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateSettlementCommand(CallerCourierID(c), ids, method)
	if err != nil {
		return err
	}
	result, err := s.h.CreateSettlement.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreateSettlementResponse{
		SettlementID:  result.SettlementID.String(),
		Amount:        result.Amount,
		Count:         result.Count,
		WalletBalance: result.WalletBalance,
		OwesCompany:   result.OwesCompany,
	})
}

func (s *Server) ConfirmPayable(c echo.Context) error {
	settlementID, err := pathID(c)
	if err != nil {
		return err
	}
	var req ConfirmPayableRequest
	if err = c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	cmd, err := commands.NewConfirmPayableCommand(settlementID, CallerCourierID(c), req.ReferenceID, req.Amount)
	if err != nil {
		return err
	}
	settlement, err := s.h.ConfirmPayable.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSettlement(settlement))
}

// ReconcileSettlement handles the ops call that marks a paid settlement as
// matched against the bank statement.
func (s *Server) ReconcileSettlement(c echo.Context) error {
	settlementID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewReconcileSettlementCommand(settlementID)
	if err != nil {
		return err
	}
	settlement, err := s.h.ReconcileSettlement.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSettlement(settlement))
}

func (s *Server) GetWallet(c echo.Context) error {
	query, err := queries.NewGetWalletQuery(CallerCourierID(c))
	if err != nil {
		return err
	}
	wallet, err := s.h.GetWallet.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWallet(wallet))
}

func (s *Server) GetPayableQR(c echo.Context) error {
	query, err := queries.NewGetPayableQRQuery(CallerCourierID(c))
	if err != nil {
		return err
	}
	qr, err := s.h.GetPayableQR.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PayableQR{AmountToPay: qr.AmountToPay, UPIURI: qr.UPIURI})
}

func (s *Server) ReconcileWallet(c echo.Context) error {
	cmd, err := commands.NewReconcileWalletCommand(CallerCourierID(c))
	if err != nil {
		return err
	}
	result, err := s.h.ReconcileWallet.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ReconcileWalletResponse{
		CourierID: result.CourierID.String(),
		Cached:    result.Cached,
		Derived:   result.Derived,
		Drift:     result.Drift(),
		Repaired:  result.Repaired(),
	})
}

func (s *Server) GetEarnings(c echo.Context) error {
	query, err := queries.NewGetEarningsQuery(CallerCourierID(c), c.QueryParam("period"))
	if err != nil {
		return err
	}
	earnings, err := s.h.GetEarnings.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEarnings(earnings))
}

func (s *Server) GetDeductions(c echo.Context) error {
	query, err := queries.NewGetDeductionsQuery(CallerCourierID(c))
	if err != nil {
		return err
	}
	deductions, err := s.h.GetDeductions.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeductions(deductions))
}
