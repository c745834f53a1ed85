package http

import (
	"net/http"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

type RegisterCourierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type UpdateLocationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (s *Server) RegisterCourier(c echo.Context) error {
	var req RegisterCourierRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	cmd, err := commands.NewCreateCourierCommand(req.Name, req.Phone)
	if err != nil {
		return err
	}
	created, err := s.h.CreateCourier.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCourier(created))
}

func (s *Server) GoOnline(c echo.Context) error {
	return s.changeShift(c, commands.NewGoOnlineCommand)
}

func (s *Server) GoOffline(c echo.Context) error {
	return s.changeShift(c, commands.NewGoOfflineCommand)
}

func (s *Server) changeShift(c echo.Context, newCommand func(kernel.UUID) (commands.ChangeShiftCommand, error)) error {
	cmd, err := newCommand(CallerCourierID(c))
	if err != nil {
		return err
	}
	shift, err := s.h.ChangeShift.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWorkLog(shift))
}

func (s *Server) UpdateLocation(c echo.Context) error {
	var req UpdateLocationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.Lat == nil || req.Lng == nil {
		return badRequest("lat and lng are required")
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(CallerCourierID(c), *req.Lat, *req.Lng)
	if err != nil {
		return err
	}
	loc, err := s.h.UpdateLocation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Location{
		CourierID: loc.CourierID.String(),
		Lat:       loc.Point.Lat(),
		Lng:       loc.Point.Lng(),
		UpdatedAt: loc.UpdatedAt,
	})
}
