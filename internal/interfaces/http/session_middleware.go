package http

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/pkg/jwt"
)

// Locals keys para la sesión en Fiber.
const (
	LocalSession   = "session"
	localLoginPath = "session_login_path"
)

// Session datos de la sesión actual, leídos una vez por petición.
type Session struct {
	Token  string
	UserID string
	Role   string
	ShopID string
}

// Authenticated indica si la petición trae un token válido.
func (s Session) Authenticated() bool { return s.Token != "" }

// SessionOptions cookies y verificación del token.
type SessionOptions struct {
	TokenCookie string
	ShopCookie  string
	LoginPath   string
	Secure      bool
	MaxAge      time.Duration
	JWTSecret   string // vacío = el token solo se decodifica
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.TokenCookie == "" {
		o.TokenCookie = "token"
	}
	if o.ShopCookie == "" {
		o.ShopCookie = "shopId"
	}
	if o.LoginPath == "" {
		o.LoginPath = "/login"
	}
	if o.MaxAge <= 0 {
		o.MaxAge = 24 * time.Hour
	}
	return o
}

// SessionMiddleware lee el token de la cookie (o del header Authorization
// Bearer, para scripts) y la tienda seleccionada, y deja la Session en
// c.Locals. Un token inválido o expirado se descarta junto con su cookie; la
// petición sigue como anónima y RequireRole decide.
func SessionMiddleware(opts SessionOptions) fiber.Handler {
	opts = opts.withDefaults()
	return func(c *fiber.Ctx) error {
		c.Locals(localLoginPath, opts.LoginPath)

		token := c.Cookies(opts.TokenCookie)
		fromCookie := token != ""
		if token == "" {
			token = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			c.Locals(LocalSession, Session{})
			return c.Next()
		}

		claims, err := jwt.Parse(opts.JWTSecret, token)
		if err != nil {
			if fromCookie {
				clearCookie(c, opts.TokenCookie, opts.Secure)
			}
			c.Locals(LocalSession, Session{})
			return c.Next()
		}

		shopID := c.Cookies(opts.ShopCookie)
		if shopID == "" {
			shopID = claims.ShopID
		}
		c.Locals(LocalSession, Session{
			Token:  token,
			UserID: claims.User(),
			Role:   claims.Role,
			ShopID: shopID,
		})
		return c.Next()
	}
}

// CurrentSession devuelve la sesión de la petición (vacía si es anónima).
func CurrentSession(c *fiber.Ctx) Session {
	s, _ := c.Locals(LocalSession).(Session)
	return s
}

// GetRole devuelve el rol del token (después de SessionMiddleware).
func GetRole(c *fiber.Ctx) string {
	return CurrentSession(c).Role
}

// RequireRole autoriza la ruta a los roles indicados. Debe usarse DESPUÉS de
// SessionMiddleware.
//
// Comportamiento:
//   - Sin sesión: las páginas redirigen al login; /api responde 401 MISSING_TOKEN.
//   - Token sin rol: 401 MISSING_ROLE.
//   - Rol no permitido: 403 FORBIDDEN.
func RequireRole(allowedRoles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		s := CurrentSession(c)
		if !s.Authenticated() {
			if isAPI(c) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión requerida"})
			}
			return redirectToLogin(c)
		}
		if s.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if _, ok := allowed[s.Role]; !ok {
			if isAPI(c) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
			}
			return fiber.NewError(fiber.StatusForbidden, "FORBIDDEN: tu rol no tiene acceso a esta sección")
		}
		return c.Next()
	}
}

// EvictSession borra las cookies de sesión y redirige al login. Se usa cuando
// el backend rechaza el token (401/403).
func EvictSession(c *fiber.Ctx, opts SessionOptions) error {
	opts = opts.withDefaults()
	clearCookie(c, opts.TokenCookie, opts.Secure)
	clearCookie(c, opts.ShopCookie, opts.Secure)
	if isAPI(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión expirada"})
	}
	return c.Redirect(opts.LoginPath, fiber.StatusSeeOther)
}

func redirectToLogin(c *fiber.Ctx) error {
	path, _ := c.Locals(localLoginPath).(string)
	if path == "" {
		path = "/login"
	}
	if c.Method() == fiber.MethodGet {
		path += "?next=" + url.QueryEscape(c.OriginalURL())
	}
	return c.Redirect(path, fiber.StatusSeeOther)
}

func setCookie(c *fiber.Ctx, name, value string, maxAge time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearCookie(c *fiber.Ctx, name string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}
