package http

import (
	"fmt"
	"net/http"

	"lastmile/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// CourierIDHeader carries the authenticated courier. The auth gateway in
// front of the service sets it.
const CourierIDHeader = "X-Courier-ID"

const courierIDKey = "courierID"

// CourierAuth rejects requests without a valid courier id header.
func CourierAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(CourierIDHeader)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+CourierIDHeader+" header")
			}
			id, err := kernel.UUIDFromString(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid "+CourierIDHeader+" header")
			}
			c.Set(courierIDKey, id)
			return next(c)
		}
	}
}

// CallerCourierID returns the id stored by CourierAuth.
func CallerCourierID(c echo.Context) kernel.UUID {
	id, _ := c.Get(courierIDKey).(kernel.UUID)
	return id
}

func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if id := CallerCourierID(c); id.Validate() == nil {
				fields = append(fields, zap.String("courier_id", id.String()))
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}

			switch {
			case v.Status >= http.StatusInternalServerError:
				logger.Error("request", fields...)
			case v.Status >= http.StatusBadRequest:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
			return nil
		},
	})
}

// Recover turns a panic in a handler into a 500 response.
func Recover(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic in handler",
						zap.Any("panic", r),
						zap.String("path", c.Path()),
						zap.Stack("stack"),
					)
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}
