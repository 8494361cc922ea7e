package transaction

import (
	"time"

	"pos-backend/internal/auth"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TransactionItemRequest struct {
	MenuID       uint    `json:"menu_id"`
	Quantity     int     `json:"quantity"`
	CustomerName *string `json:"customer_name"`
	CustomerNote *string `json:"customer_note"`
}

type CreateTransactionRequest struct {
	TransactionItems []TransactionItemRequest `json:"transaction_items"`
	PaymentMethod    *string                  `json:"payment_method"`
	ShiftID          *uint                    `json:"shift_id"`
	Status           *string                  `json:"status"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type TransactionItemResponse struct {
	ID                 uint    `json:"id"`
	MenuID             uint    `json:"menu_id"`
	MenuName           string  `json:"menu_name,omitempty"`
	Quantity           int     `json:"quantity"`
	PriceAtTransaction float64 `json:"price_at_transaction"`
	CustomerName       *string `json:"customer_name,omitempty"`
	CustomerNote       *string `json:"customer_note,omitempty"`
}

type TransactionResponse struct {
	ID               uint                      `json:"id"`
	StoreID          uint                      `json:"store_id"`
	UserID           uint                      `json:"user_id"`
	ShiftID          *uint                     `json:"shift_id"`
	Status           models.TransactionStatus  `json:"status"`
	TotalAmount      float64                   `json:"total_amount"`
	PaymentMethod    *string                   `json:"payment_method"`
	TransactionDate  time.Time                 `json:"transaction_date"`
	TransactionItems []TransactionItemResponse `json:"transaction_items"`
}

type TransactionListResponse struct {
	Data       []TransactionResponse `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}

func toTransactionResponse(t *models.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, 0, len(t.TransactionItems))
	for i := range t.TransactionItems {
		it := &t.TransactionItems[i]
		resp := TransactionItemResponse{
			ID:                 it.ID,
			MenuID:             it.MenuID,
			Quantity:           it.Quantity,
			PriceAtTransaction: it.PriceAtTransaction,
			CustomerName:       it.CustomerName,
			CustomerNote:       it.CustomerNote,
		}
		if it.Menu != nil {
			resp.MenuName = it.Menu.Name
		}
		items = append(items, resp)
	}

	return TransactionResponse{
		ID:               t.ID,
		StoreID:          t.StoreID,
		UserID:           t.UserID,
		ShiftID:          t.ShiftID,
		Status:           t.Status,
		TotalAmount:      t.TotalAmount,
		PaymentMethod:    t.PaymentMethod,
		TransactionDate:  t.TransactionDate,
		TransactionItems: items,
	}
}

// -------------------------------------------------
// POST /api/transactions
// -------------------------------------------------
func CreateTransactionHandler(proc *Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		in := CreateInput{
			PaymentMethod: body.PaymentMethod,
			ShiftID:       body.ShiftID,
			Status:        body.Status,
		}
		for _, item := range body.TransactionItems {
			in.Items = append(in.Items, CreateItemInput{
				MenuID:       item.MenuID,
				Quantity:     item.Quantity,
				CustomerName: item.CustomerName,
				CustomerNote: item.CustomerNote,
			})
		}

		txn, err := proc.Create(storeID, userID, in)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(txn))
	}
}

// -------------------------------------------------
// GET /api/transactions?page=1&limit=10
// -------------------------------------------------
func ListTransactionsHandler(proc *Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)

		txns, total, page, limit, err := proc.List(storeID, page, limit)
		if err != nil {
			return err
		}

		data := make([]TransactionResponse, 0, len(txns))
		for i := range txns {
			data = append(data, toTransactionResponse(&txns[i]))
		}

		totalPages := int((total + int64(limit) - 1) / int64(limit))
		return c.JSON(TransactionListResponse{
			Data:       data,
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		})
	}
}

// -------------------------------------------------
// GET /api/transactions/:id
// -------------------------------------------------
func GetTransactionHandler(proc *Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "İşlem ID geçersiz")
		}

		txn, err := proc.Get(storeID, uint(id))
		if err != nil {
			return err
		}

		return c.JSON(toTransactionResponse(txn))
	}
}

// -------------------------------------------------
// PATCH /api/transactions/:id/status
// -------------------------------------------------
func UpdateTransactionStatusHandler(proc *Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "İşlem ID geçersiz")
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Durum (status) zorunlu")
		}

		txn, err := proc.UpdateStatus(storeID, uint(id), body.Status)
		if err != nil {
			return err
		}

		return c.JSON(toTransactionResponse(txn))
	}
}
