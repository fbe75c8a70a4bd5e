package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ridenow/internal/domain"
	"ridenow/internal/middleware"
	"ridenow/internal/repository"
	"ridenow/internal/service"
)

// maxTopUpAmount caps a single wallet top-up.
var maxTopUpAmount = decimal.NewFromInt(100000)

// WalletHandler handles wallet and ledger HTTP requests.
type WalletHandler struct {
	walletRepo    repository.WalletRepository
	ledgerService *service.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletRepo repository.WalletRepository, ledgerService *service.LedgerService) *WalletHandler {
	return &WalletHandler{
		walletRepo:    walletRepo,
		ledgerService: ledgerService,
	}
}

// AddMoneyRequest is the HTTP request body for topping up a wallet.
type AddMoneyRequest struct {
	Amount string `json:"amount"`
}

// WalletResponse is the HTTP response for wallet requests.
type WalletResponse struct {
	WalletID string `json:"wallet_id"`
	UserID   string `json:"user_id"`
	Balance  string `json:"balance"`
}

// TransactionResponse is one ledger entry in an HTTP response.
type TransactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// GetWallet handles GET /v1/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	wallet, err := h.walletRepo.GetByUserID(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, walletResponse(wallet))
}

// AddMoney handles POST /v1/wallet/add-money
func (h *WalletHandler) AddMoney(c *gin.Context) {
	var req AddMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	if amount.GreaterThan(maxTopUpAmount) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount exceeds the maximum top-up of 100000"})
		return
	}

	ctx := c.Request.Context()
	wallet, err := h.walletRepo.GetByUserID(ctx, c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	txn, err := h.ledgerService.ApplyEntry(ctx, wallet.ID, domain.TransactionCredit, amount, "Wallet top-up")
	if err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.ledgerService.GetBalance(ctx, wallet.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"transaction": transactionResponse(txn),
		"balance":     balance.StringFixed(2),
	})
}

// Transactions handles GET /v1/wallet/transactions
func (h *WalletHandler) Transactions(c *gin.Context) {
	ctx := c.Request.Context()
	wallet, err := h.walletRepo.GetByUserID(ctx, c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	txns, err := h.ledgerService.Transactions(ctx, wallet.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, transactionResponse(txn))
	}

	respondJSON(c, http.StatusOK, gin.H{"transactions": out})
}

// Reconcile handles GET /v1/wallet/reconcile
func (h *WalletHandler) Reconcile(c *gin.Context) {
	ctx := c.Request.Context()
	wallet, err := h.walletRepo.GetByUserID(ctx, c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.ledgerService.Reconcile(ctx, wallet.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"wallet_id":        result.WalletID,
		"cached_balance":   result.CachedBalance.StringFixed(2),
		"computed_balance": result.ComputedBalance.StringFixed(2),
		"consistent":       result.Consistent,
	})
}

func walletResponse(wallet *domain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID: wallet.ID,
		UserID:   wallet.UserID,
		Balance:  wallet.Balance.StringFixed(2),
	}
}

func transactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          txn.ID,
		Type:        string(txn.Type),
		Amount:      txn.Amount.StringFixed(2),
		Description: txn.Description,
		CreatedAt:   txn.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
