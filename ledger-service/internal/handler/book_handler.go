package handler

import (
	"fmt"
	"net/http"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/export"
	"github.com/Preet1920/finebookeasyaccounting/shared/cqrs"
	"github.com/Preet1920/finebookeasyaccounting/shared/middleware"
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BookCommander defines the write-side operations used by BookHandler.
type BookCommander interface {
	AddBook(cqrs.AddBookCommand) (*models.BookView, error)
	UpdateBookCurrency(cqrs.UpdateBookCurrencyCommand) (*models.BookView, error)
	SelectBook(cqrs.SelectBookCommand) (*models.SessionView, error)
	RequestDeleteBook(cqrs.RequestDeleteBookCommand) (*models.Deletion, error)
	RequestDeleteTransaction(cqrs.RequestDeleteTransactionCommand) (*models.Deletion, error)
	ConfirmDelete(cqrs.ConfirmDeleteCommand) (*models.Deletion, error)
	AddTransaction(cqrs.AddTransactionCommand) (*models.Transaction, error)
	UpdateTransaction(cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	AddMSBTransaction(cqrs.AddMSBTransactionCommand) (*models.Transaction, error)
	UpdateMSBTransaction(cqrs.UpdateMSBTransactionCommand) (*models.Transaction, error)
	UpdateMSBStatus(cqrs.UpdateMSBStatusCommand) (*models.Transaction, error)
}

// BookQuerier defines the read-side operations used by BookHandler.
type BookQuerier interface {
	ListBooks(cqrs.ListBooksQuery) ([]models.BookView, error)
	GetBook(cqrs.GetBookQuery) (*models.BookView, error)
	GetTransaction(cqrs.GetTransactionQuery) (*models.Transaction, error)
}

// BookHandler handles books, transactions, remittances and deletions.
type BookHandler struct {
	commands BookCommander
	queries  BookQuerier
}

type CreateBookRequest struct {
	Name     string          `json:"name" validate:"required"`
	Currency string          `json:"currency" validate:"required"`
	Type     models.BookType `json:"type" validate:"required,oneof=GENERAL MSB"`
}

type UpdateBookRequest struct {
	Currency string `json:"currency" validate:"required"`
}

type CreateTransactionRequest struct {
	Description string                 `json:"description"`
	Amount      *decimal.Decimal       `json:"amount" validate:"required"`
	Type        models.TransactionType `json:"type" validate:"required,oneof=INCOME EXPENSE"`
}

type UpdateTransactionRequest struct {
	Description *string                 `json:"description"`
	Amount      *decimal.Decimal        `json:"amount"`
	Type        *models.TransactionType `json:"type" validate:"omitempty,oneof=INCOME EXPENSE"`
}

type MSBTransactionRequest struct {
	Description string            `json:"description"`
	MSBDetails  models.MSBDetails `json:"msbDetails"`
}

type UpdateStatusRequest struct {
	Status models.MSBStatus `json:"status" validate:"required,oneof=PENDING PAID"`
}

type ListBooksResponse struct {
	Books []models.BookView `json:"books"`
}

func NewBookHandler(commands BookCommander, queries BookQuerier) *BookHandler {
	return &BookHandler{commands: commands, queries: queries}
}

// ---------- Books ----------

func (h *BookHandler) CreateBook(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateBookRequest
	if !bindRequest(c, &req) {
		return
	}

	book, err := h.commands.AddBook(cqrs.AddBookCommand{
		OwnerID:  userID,
		Name:     req.Name,
		Currency: req.Currency,
		Type:     req.Type,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to create book")
		return
	}

	c.JSON(http.StatusCreated, book)
}

// ListBooks accepts an optional ?type=GENERAL|MSB filter.
func (h *BookHandler) ListBooks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	books, err := h.queries.ListBooks(cqrs.ListBooksQuery{
		UserID: userID,
		Type:   models.BookType(c.Query("type")),
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to list books")
		return
	}

	c.JSON(http.StatusOK, ListBooksResponse{Books: books})
}

func (h *BookHandler) GetBook(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	book, err := h.queries.GetBook(cqrs.GetBookQuery{UserID: userID, BookID: c.Param("bookId")})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to fetch book")
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) UpdateBook(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateBookRequest
	if !bindRequest(c, &req) {
		return
	}

	book, err := h.commands.UpdateBookCurrency(cqrs.UpdateBookCurrencyCommand{
		OwnerID:  userID,
		BookID:   c.Param("bookId"),
		Currency: req.Currency,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to update book")
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *BookHandler) SelectBook(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	session, err := h.commands.SelectBook(cqrs.SelectBookCommand{OwnerID: userID, BookID: c.Param("bookId")})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to select book")
		return
	}

	c.JSON(http.StatusOK, session)
}

// RequestBookDeletion answers 202 with a confirmation token; the book stays
// until POST /confirmations/:token.
func (h *BookHandler) RequestBookDeletion(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	pending, err := h.commands.RequestDeleteBook(cqrs.RequestDeleteBookCommand{OwnerID: userID, BookID: c.Param("bookId")})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to request book deletion")
		return
	}

	c.JSON(http.StatusAccepted, pending)
}

func (h *BookHandler) ExportBook(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	view, err := h.queries.GetBook(cqrs.GetBookQuery{UserID: userID, BookID: c.Param("bookId")})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to export book")
		return
	}

	job := export.Start(c.Request.Context(), models.Book{
		ID:           view.ID,
		Name:         view.Name,
		Currency:     view.Currency,
		Type:         view.Type,
		Transactions: view.Transactions,
	})
	data, err := job.Wait()
	if err != nil {
		respondWithLedgerError(c, err, "Failed to export book")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", view.ID+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ---------- Transactions ----------

func (h *BookHandler) CreateTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if !bindRequest(c, &req) {
		return
	}

	tx, err := h.commands.AddTransaction(cqrs.AddTransactionCommand{
		OwnerID:     userID,
		BookID:      c.Param("bookId"),
		Description: req.Description,
		Amount:      *req.Amount,
		Type:        req.Type,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, tx)
}

func (h *BookHandler) UpdateTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateTransactionRequest
	if !bindRequest(c, &req) {
		return
	}

	tx, err := h.commands.UpdateTransaction(cqrs.UpdateTransactionCommand{
		OwnerID:       userID,
		BookID:        c.Param("bookId"),
		TransactionID: c.Param("transactionId"),
		Description:   req.Description,
		Amount:        req.Amount,
		Type:          req.Type,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, tx)
}

func (h *BookHandler) GetTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	tx, err := h.queries.GetTransaction(cqrs.GetTransactionQuery{UserID: userID, TransactionID: c.Param("transactionId")})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to fetch transaction")
		return
	}

	c.JSON(http.StatusOK, tx)
}

func (h *BookHandler) RequestTransactionDeletion(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	pending, err := h.commands.RequestDeleteTransaction(cqrs.RequestDeleteTransactionCommand{
		OwnerID:       userID,
		TransactionID: c.Param("transactionId"),
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to request transaction deletion")
		return
	}

	c.JSON(http.StatusAccepted, pending)
}

func (h *BookHandler) ConfirmDeletion(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	done, err := h.commands.ConfirmDelete(cqrs.ConfirmDeleteCommand{OwnerID: userID, Token: c.Param("token")})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to confirm deletion")
		return
	}

	c.JSON(http.StatusOK, done)
}

// ---------- Remittances ----------

func (h *BookHandler) CreateMSBTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req MSBTransactionRequest
	if !bindRequest(c, &req) {
		return
	}

	tx, err := h.commands.AddMSBTransaction(cqrs.AddMSBTransactionCommand{
		OwnerID:     userID,
		BookID:      c.Param("bookId"),
		Description: req.Description,
		Details:     req.MSBDetails,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to create remittance")
		return
	}

	c.JSON(http.StatusCreated, tx)
}

func (h *BookHandler) ReplaceMSBTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req MSBTransactionRequest
	if !bindRequest(c, &req) {
		return
	}

	tx, err := h.commands.UpdateMSBTransaction(cqrs.UpdateMSBTransactionCommand{
		OwnerID:       userID,
		BookID:        c.Param("bookId"),
		TransactionID: c.Param("transactionId"),
		Description:   req.Description,
		Details:       req.MSBDetails,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to update remittance")
		return
	}

	c.JSON(http.StatusOK, tx)
}

func (h *BookHandler) UpdateMSBStatus(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateStatusRequest
	if !bindRequest(c, &req) {
		return
	}

	tx, err := h.commands.UpdateMSBStatus(cqrs.UpdateMSBStatusCommand{
		OwnerID:       userID,
		TransactionID: c.Param("transactionId"),
		Status:        req.Status,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to update status")
		return
	}

	c.JSON(http.StatusOK, tx)
}
