package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	"github.com/jhoicas/millet-kiosk/pkg/jwt"
)

// AuthHandler maneja login, logout y la selección de tienda.
type AuthHandler struct {
	s *Server
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(s *Server) *AuthHandler {
	return &AuthHandler{s: s}
}

type loginPage struct {
	Layout
	Email string
	Next  string
}

// Home redirige a la consola del rol.
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	return c.Redirect(homeFor(GetRole(c)), fiber.StatusSeeOther)
}

// LoginPage GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.s.views.render(c, fiber.StatusOK, "login", loginPage{
		Layout: h.s.layout(c, "Ingresar", "/login"),
		Next:   safeNext(c.Query("next")),
	})
}

// Login POST /login: obtiene el token del backend y lo guarda en la cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return h.loginFailed(c, in, fiber.StatusBadRequest, "formulario inválido")
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return h.loginFailed(c, in, fiber.StatusUnprocessableEntity, "email y contraseña son requeridos")
	}
	token, claims, err := h.authenticate(c, in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, jwt.ErrInvalidToken) {
			return h.loginFailed(c, in, fiber.StatusUnauthorized, "credenciales inválidas")
		}
		h.s.logFailure(c, statusFor(err), err)
		return h.loginFailed(c, in, statusFor(err), domain.UserMessage(err))
	}

	opts := h.s.session
	setCookie(c, opts.TokenCookie, token, opts.MaxAge, opts.Secure)
	if claims.ShopID != "" {
		setCookie(c, opts.ShopCookie, claims.ShopID, opts.MaxAge, opts.Secure)
	}
	h.s.log.Info().Str("user_id", claims.User()).Str("role", claims.Role).Msg("login")

	next := safeNext(c.FormValue("next"))
	if next == "" {
		next = homeFor(claims.Role)
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}

// APILogin godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) APILogin(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	token, claims, err := h.authenticate(c, in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, jwt.ErrInvalidToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		return h.s.failAPI(c, err)
	}
	return c.JSON(dto.LoginResponse{Token: token, Role: claims.Role, ShopID: claims.ShopID})
}

// Logout POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	opts := h.s.session
	clearCookie(c, opts.TokenCookie, opts.Secure)
	clearCookie(c, opts.ShopCookie, opts.Secure)
	return c.Redirect(opts.LoginPath, fiber.StatusSeeOther)
}

// SelectShop POST /shop/select: cambia la tienda activa (cookie shopId).
func (h *AuthHandler) SelectShop(c *fiber.Ctx) error {
	shopID := strings.TrimSpace(c.FormValue("shopId"))
	opts := h.s.session
	if shopID == "" {
		clearCookie(c, opts.ShopCookie, opts.Secure)
	} else {
		setCookie(c, opts.ShopCookie, shopID, opts.MaxAge, opts.Secure)
	}
	return c.Redirect(homeFor(GetRole(c)), fiber.StatusSeeOther)
}

func (h *AuthHandler) authenticate(c *fiber.Ctx, in dto.LoginRequest) (string, *jwt.Claims, error) {
	token, err := h.s.gateway.Login(requestContext(c), in)
	if err != nil {
		return "", nil, err
	}
	claims, err := jwt.Parse(h.s.session.JWTSecret, token)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, in dto.LoginRequest, status int, msg string) error {
	return h.s.views.render(c, status, "login", loginPage{
		Layout: h.s.withError(h.s.layout(c, "Ingresar", "/login"), msg),
		Email:  in.Email,
		Next:   safeNext(c.FormValue("next")),
	})
}

// homeFor página de inicio de cada rol.
func homeFor(role string) string {
	switch role {
	case entity.RoleSeller:
		return "/seller/orders"
	case entity.RoleAdmin:
		return "/admin/dashboard"
	default:
		return "/shop"
	}
}

// safeNext solo acepta rutas locales para evitar redirecciones abiertas.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
