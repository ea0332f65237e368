package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ledgerpay/walletd/internal/user"
)

// RegisterUserRoutes wires user listing and registration endpoints.
func RegisterUserRoutes(r fiber.Router, h *user.Handler) {
	r.Get("/users", h.List)
	r.Post("/users", h.Register)
}
