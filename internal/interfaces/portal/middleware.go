package portal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const localClient = "portal_client"

// CookieConfig cookie que identifica al navegador.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// ClientMiddleware asegura la cookie de cliente y deja su *Client en c.Locals.
// Un valor ausente o que no sea un UUID se reemplaza por uno nuevo.
func ClientMiddleware(reg *Registry, cfg CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// el id sobrevive al request como clave del registro; fasthttp reutiliza el buffer
		id := utils.CopyString(c.Cookies(cfg.Name))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cfg.Name,
				Value:    id,
				Path:     "/",
				HTTPOnly: true,
				Secure:   cfg.Secure,
				SameSite: fiber.CookieSameSiteLaxMode,
				MaxAge:   int(cfg.MaxAge / time.Second),
			})
		}
		c.Locals(localClient, reg.Get(c.UserContext(), id))
		return c.Next()
	}
}

// GetClient cliente del request (después de ClientMiddleware).
func GetClient(c *fiber.Ctx) *Client {
	cl, _ := c.Locals(localClient).(*Client)
	return cl
}
