// Package transactiondelivery manages delivery layer of deposits, withdrawals and transfers.
package transactiondelivery

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Deposit(ctx context.Context, requesterID, toAccountID uuid.UUID, amount moneypkg.Money) (domain.Transaction, error)
	Withdraw(ctx context.Context, requesterID, fromAccountID uuid.UUID, amount moneypkg.Money) (domain.Transaction, error)
	Transfer(ctx context.Context, requesterID, fromAccountID, toAccountID uuid.UUID, amount moneypkg.Money) (domain.Transaction, error)
	GetTransaction(ctx context.Context, requesterID, id uuid.UUID) (domain.Transaction, error)
	ListAccountTransactions(ctx context.Context, requesterID, accountID uuid.UUID, limit, offset int32) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) Handler {
	return Handler{service: ts}
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// Amounts are bound as json.Number so that the money validator sees the
// literal the client sent, not a float.
type depositRequest struct {
	ToAccountID string      `json:"toAccountId" binding:"required,uuid"`
	Amount      json.Number `json:"amount" binding:"required,money"`
}

type withdrawRequest struct {
	FromAccountID string      `json:"fromAccountId" binding:"required,uuid"`
	Amount        json.Number `json:"amount" binding:"required,money"`
}

type transferRequest struct {
	FromAccountID string      `json:"fromAccountId" binding:"required,uuid"`
	ToAccountID   string      `json:"toAccountId" binding:"required,uuid"`
	Amount        json.Number `json:"amount" binding:"required,money"`
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(gctx *gin.Context, req any) bool {
	if err := gctx.ShouldBindJSON(req); err != nil {
		zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindingErrorMsg(err)})

		return false
	}

	return true
}

// parseAmount converts an amount that already passed the money validator.
func parseAmount(gctx *gin.Context, n json.Number) (moneypkg.Money, bool) {
	amount, err := moneypkg.Parse(n.String())
	if err != nil {
		web.RespondError(gctx, err)
		return moneypkg.Money{}, false
	}

	return amount, true
}

func (h *Handler) respondTransaction(gctx *gin.Context, t domain.Transaction, err error) {
	if err != nil {
		web.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{t}})
}

// Deposit handles http request to credit an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	var req depositRequest
	if !bindJSON(gctx, &req) {
		return
	}

	amount, ok := parseAmount(gctx, req.Amount)
	if !ok {
		return
	}

	t, err := h.service.Deposit(gctx.Request.Context(), middleware.UserID(gctx), uuid.MustParse(req.ToAccountID), amount)
	h.respondTransaction(gctx, t, err)
}

// Withdraw handles http request to debit an account of the authenticated user.
func (h *Handler) Withdraw(gctx *gin.Context) {
	var req withdrawRequest
	if !bindJSON(gctx, &req) {
		return
	}

	amount, ok := parseAmount(gctx, req.Amount)
	if !ok {
		return
	}

	t, err := h.service.Withdraw(gctx.Request.Context(), middleware.UserID(gctx), uuid.MustParse(req.FromAccountID), amount)
	h.respondTransaction(gctx, t, err)
}

// Transfer handles http request to move money between accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	var req transferRequest
	if !bindJSON(gctx, &req) {
		return
	}

	amount, ok := parseAmount(gctx, req.Amount)
	if !ok {
		return
	}

	t, err := h.service.Transfer(
		gctx.Request.Context(),
		middleware.UserID(gctx),
		uuid.MustParse(req.FromAccountID),
		uuid.MustParse(req.ToAccountID),
		amount,
	)
	h.respondTransaction(gctx, t, err)
}

type getRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Get handles http request to get a transaction.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindingErrorMsg(err)})

		return
	}

	t, err := h.service.GetTransaction(ctx, middleware.UserID(gctx), uuid.MustParse(req.ID))
	if err != nil {
		web.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{t}})
}

type listURI struct {
	AccountID string `uri:"accountId" binding:"required,uuid"`
}

type listQuery struct {
	Limit  int32 `form:"limit"`
	Offset int32 `form:"offset"`
}

// ListByAccount handles http request to list the history of an account, newest first.
func (h *Handler) ListByAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri listURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.BindingErrorMsg(err)})

		return
	}

	var query listQuery
	if err := gctx.ShouldBindQuery(&query); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: domain.ErrInvalidPagination.Error()})

		return
	}

	items, err := h.service.ListAccountTransactions(ctx, middleware.UserID(gctx), uuid.MustParse(uri.AccountID), query.Limit, query.Offset)
	if err != nil {
		web.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataTransactions{items}})
}
