package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/RocketMenace/Wallet/internal/domain"
	apperrors "github.com/RocketMenace/Wallet/internal/errors"
	"github.com/RocketMenace/Wallet/internal/service"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
}

func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// OperationRequest carries the operation payload. The wallet id in the URL
// path is authoritative; a wallet_id field in the body is accepted for
// backward compatibility and ignored.
type OperationRequest struct {
	WalletID string `json:"wallet_id,omitempty"`
	Amount   string `json:"amount"`
	Kind     string `json:"kind"`
}

type TransactionResponse struct {
	ID        string `json:"id"`
	WalletID  string `json:"wallet_id"`
	Amount    string `json:"amount"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func transactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        tx.ID.String(),
		WalletID:  tx.WalletID.String(),
		Amount:    tx.Amount.StringFixed(2),
		Kind:      string(tx.Kind),
		CreatedAt: tx.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: tx.UpdatedAt.UTC().Format(timeFormat),
	}
}

func (h *TransactionHandler) ApplyOperation(w http.ResponseWriter, r *http.Request) {
	walletID, err := uuid.Parse(mux.Vars(r)["wallet_id"])
	if err != nil {
		writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid wallet id").WithDetails(err.Error()))
		return
	}

	var req OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid request body").WithDetails(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid amount format").WithDetails(err.Error()))
		return
	}

	kind, err := domain.ParseOperationKind(req.Kind)
	if err != nil {
		writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid operation kind").WithDetails(err.Error()))
		return
	}

	tx, err := h.transactionService.ApplyOperation(r.Context(), walletID, amount, kind)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, transactionResponse(tx))
}

func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	walletID, err := uuid.Parse(mux.Vars(r)["wallet_id"])
	if err != nil {
		writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid wallet id").WithDetails(err.Error()))
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid offset parameter").WithDetails(err.Error()))
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, apperrors.NewAppError(apperrors.ValidationError, "invalid limit parameter").WithDetails(err.Error()))
		return
	}

	transactions, err := h.transactionService.ListTransactions(r.Context(), walletID, offset, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		response = append(response, transactionResponse(&transactions[i]))
	}

	writeJSON(w, r, http.StatusOK, response)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
