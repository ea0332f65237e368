package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ledgerpay/walletd/internal/wallet"
)

// RegisterWalletRoutes wires wallet mutation and history endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallet/update", h.Update)
	r.Get("/wallet/:userID", h.Wallet)
	r.Get("/transactions/:userID", h.Transactions)
}
