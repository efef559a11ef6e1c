package http

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/millet-kiosk/internal/application/cart"
	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

// Server estado compartido por los handlers. No guarda nada por usuario: la
// sesión y el carrito viajan en cookies y cada petición crea su controlador.
type Server struct {
	gateway    ports.Gateway
	docs       ports.DocumentRenderer
	session    SessionOptions
	cartCookie string
	pageSize   int
	csv        listview.CSVOptions
	log        zerolog.Logger
	views      *views
	now        func() time.Time
}

func newServer(deps RouterDeps) (*Server, error) {
	v, err := newViews()
	if err != nil {
		return nil, err
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	cartCookie := deps.CartCookie
	if cartCookie == "" {
		cartCookie = "cart"
	}
	return &Server{
		gateway:    deps.Gateway,
		docs:       deps.Documents,
		session:    deps.Session.withDefaults(),
		cartCookie: cartCookie,
		pageSize:   deps.PageSize,
		csv:        deps.CSV,
		log:        deps.Logger,
		views:      v,
		now:        now,
	}, nil
}

// backend cliente REST atado al token de la petición.
func (s *Server) backend(c *fiber.Ctx) ports.Backend {
	return s.gateway.ForSession(CurrentSession(c).Token)
}

// ctx contexto de la petición; se cancela con el apagado del servidor.
func requestContext(c *fiber.Ctx) context.Context {
	return c.Context()
}

func queryValues(c *fiber.Ctx) url.Values {
	v, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	return v
}

// layout datos comunes; current marca la entrada activa del menú.
func (s *Server) layout(c *fiber.Ctx, title, current string) Layout {
	sess := CurrentSession(c)
	return Layout{
		Title:     title,
		Session:   sess,
		CartCount: s.readCart(c).Count(),
		Nav:       navFor(sess, current),
	}
}

func (s *Server) readCart(c *fiber.Ctx) cart.Cart {
	return cart.Decode(c.Cookies(s.cartCookie))
}

func (s *Server) writeCart(c *fiber.Ctx, ct cart.Cart) error {
	if ct.Empty() {
		clearCookie(c, s.cartCookie, s.session.Secure)
		return nil
	}
	value, err := ct.Encode()
	if err != nil {
		return err
	}
	setCookie(c, s.cartCookie, value, 30*24*time.Hour, s.session.Secure)
	return nil
}

// ── Errores ───────────────────────────────────────────────────────────────────

// statusFor traduce un error de aplicación a código HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrMalformed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func codeFor(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION"
	case fiber.StatusBadGateway:
		return "BACKEND_UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

// failPage responde a un error de backend en una página HTML. Un 401/403 del
// backend expulsa la sesión; el resto se muestra como banner.
func (s *Server) failPage(c *fiber.Ctx, title string, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return EvictSession(c, s.session)
	}
	status := statusFor(err)
	s.logFailure(c, status, err)
	back := c.Path()
	if c.Method() != fiber.MethodGet {
		back = homeFor(GetRole(c))
	}
	return s.views.render(c, status, "message", messagePage{
		Layout: s.withError(s.layout(c, title, back), domain.UserMessage(err)),
		Back:   back,
	})
}

// failAPI mismo criterio para /api/v1, con cuerpo dto.ErrorResponse.
func (s *Server) failAPI(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return EvictSession(c, s.session)
	}
	status := statusFor(err)
	s.logFailure(c, status, err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: codeFor(status), Message: domain.UserMessage(err)})
}

func (s *Server) logFailure(c *fiber.Ctx, status int, err error) {
	ev := s.log.Warn()
	if status >= fiber.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Err(err).
		Str("route", c.Route().Path).
		Str("role", GetRole(c)).
		Int("status", status).
		Msg("operación fallida")
}

func (s *Server) withError(l Layout, msg string) Layout {
	l.Error = msg
	return l
}

// messagePage página simple de confirmación o error.
type messagePage struct {
	Layout
	Heading string
	Body    string
	Back    string
	Links   []NavLink
}

// errorHandler ErrorHandler de fiber: páginas de error para el navegador y
// JSON para /api.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := domain.GenericMessage
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	} else {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	}
	if isAPI(c) {
		return c.Status(status).JSON(dto.ErrorResponse{Code: codeFor(status), Message: msg})
	}
	return s.views.render(c, status, "message", messagePage{
		Layout:  s.withError(s.layout(c, "Error", ""), msg),
		Heading: "No se pudo completar la solicitud",
		Back:    "/",
	})
}
