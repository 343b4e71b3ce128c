package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
	"github.com/RocketMenace/Wallet/internal/service"
)

type WalletHandler struct {
	walletService *service.WalletService
}

func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

type CreateWalletRequest struct {
	Balance *string `json:"balance"`
}

type WalletResponse struct {
	ID        string `json:"id"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func walletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID.String(),
		Balance:   w.Balance.StringFixed(2),
		CreatedAt: w.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: w.UpdatedAt.UTC().Format(timeFormat),
	}
}

const timeFormat = "2006-01-02T15:04:05.000000Z07:00"

func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid request body").WithDetails(err.Error()))
		return
	}

	initialBalance := decimal.Zero
	if req.Balance != nil {
		parsed, err := decimal.NewFromString(*req.Balance)
		if err != nil {
			writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid balance format").WithDetails(err.Error()))
			return
		}
		initialBalance = parsed
	}

	wallet, err := h.walletService.CreateWallet(r.Context(), initialBalance)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, walletResponse(wallet))
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	walletID, err := uuid.Parse(mux.Vars(r)["wallet_id"])
	if err != nil {
		writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid wallet id").WithDetails(err.Error()))
		return
	}

	wallet, err := h.walletService.GetWallet(r.Context(), walletID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, walletResponse(wallet))
}
