package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerpay/walletd/internal/ledger"
	"github.com/ledgerpay/walletd/internal/user"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type updateRequest struct {
	UserID          *int64  `json:"user_id"`
	Amount          *string `json:"amount"`
	TransactionType *string `json:"transaction_type"`
	Description     string  `json:"description"`
}

type walletResponse struct {
	ID        int64         `json:"id"`
	User      user.Response `json:"user"`
	Balance   string        `json:"balance"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type transactionResponse struct {
	ID              int64     `json:"id"`
	User            int64     `json:"user"`
	Amount          string    `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}

func newWalletResponse(state State) walletResponse {
	return walletResponse{
		ID:        state.Wallet.ID,
		User:      user.NewResponse(state.User),
		Balance:   state.Wallet.Balance.StringFixed(2),
		CreatedAt: state.Wallet.CreatedAt,
		UpdatedAt: state.Wallet.UpdatedAt,
	}
}

func newTransactionResponse(t ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		User:            t.UserID,
		Amount:          t.Amount.StringFixed(2),
		TransactionType: string(t.Type),
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

// Update credits or debits a user's wallet.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == nil || req.Amount == nil || req.TransactionType == nil {
		return fiber.NewError(http.StatusBadRequest, "user_id, amount and transaction_type are required")
	}

	state, err := h.service.ApplyMutation(c.UserContext(), ApplyInput{
		UserID:      *req.UserID,
		Amount:      *req.Amount,
		Type:        *req.TransactionType,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidTransactionType):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUserNotFound):
			return fiber.NewError(http.StatusNotFound, "user not found")
		case errors.Is(err, ledger.ErrInsufficientBalance):
			return fiber.NewError(http.StatusBadRequest, "insufficient balance")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(newWalletResponse(state))
}

// Wallet returns the current wallet state for a user.
func (h *Handler) Wallet(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "user id must be an integer")
	}

	state, err := h.service.Wallet(c.UserContext(), int64(userID))
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			return fiber.NewError(http.StatusNotFound, "user not found")
		case errors.Is(err, ledger.ErrWalletNotFound):
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(newWalletResponse(state))
}

// Transactions lists a user's history newest first.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("userID")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "user id must be an integer")
	}

	entries, err := h.service.Transactions(c.UserContext(), int64(userID))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]transactionResponse, 0, len(entries))
	for _, t := range entries {
		out = append(out, newTransactionResponse(t))
	}
	return c.Status(http.StatusOK).JSON(out)
}
