package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gastos-api/pkg/logger"
)

// requestObserver contador de peticiones (Prometheus en producción).
type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger registra cada petición con request id, usuario, empresa, status y latencia.
// 5xx a nivel error, 4xx a warn. obs puede ser nil.
func RequestLogger(log *logger.Logger, obs requestObserver) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		if obs != nil {
			obs.ObserveRequest(c.Method(), route, status, elapsed)
		}

		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		if err, ok := c.Locals(localError).(error); ok {
			ev = ev.Err(err)
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			ev = ev.Str("request_id", rid)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("ip", c.IP()).
			Str("user_id", GetUserID(c)).
			Str("company_id", GetCompanyID(c)).
			Msg("petición HTTP")
		return nil
	}
}
