package shift

import (
	"time"

	"pos-backend/internal/auth"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StartShiftRequest struct {
	InitialCash *float64 `json:"initial_cash"` // boşsa 0
}

type CloseShiftRequest struct {
	FinalCash *float64 `json:"final_cash"`
}

type ShiftResponse struct {
	ID                   uint               `json:"id"`
	StoreID              uint               `json:"store_id"`
	Status               models.ShiftStatus `json:"status"`
	StartTime            time.Time          `json:"start_time"`
	EndTime              *time.Time         `json:"end_time"`
	InitialCash          float64            `json:"initial_cash"`
	FinalCash            *float64           `json:"final_cash"`
	TotalSalesCalculated *float64           `json:"total_sales_calculated"`
	OpenedByUserID       uint               `json:"opened_by_user_id"`
	ClosedByUserID       *uint              `json:"closed_by_user_id"`
}

func toShiftResponse(s *models.Shift) ShiftResponse {
	return ShiftResponse{
		ID:                   s.ID,
		StoreID:              s.StoreID,
		Status:               s.Status,
		StartTime:            s.StartTime,
		EndTime:              s.EndTime,
		InitialCash:          s.InitialCash,
		FinalCash:            s.FinalCash,
		TotalSalesCalculated: s.TotalSalesCalculated,
		OpenedByUserID:       s.OpenedByUserID,
		ClosedByUserID:       s.ClosedByUserID,
	}
}

// -------------------------------------------------
// POST /api/shifts/start
// -------------------------------------------------
func StartShiftHandler(ledger *Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		// Gövde opsiyonel; boş istekle açılış kasası 0 kabul edilir
		var body StartShiftRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
			}
		}

		initialCash := 0.0
		if body.InitialCash != nil {
			initialCash = *body.InitialCash
		}

		shift, err := ledger.Start(storeID, userID, initialCash)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toShiftResponse(shift))
	}
}

// -------------------------------------------------
// GET /api/shifts
// -------------------------------------------------
func ListShiftsHandler(ledger *Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		shifts, err := ledger.List(storeID, userID, role)
		if err != nil {
			return err
		}

		resp := make([]ShiftResponse, 0, len(shifts))
		for i := range shifts {
			resp = append(resp, toShiftResponse(&shifts[i]))
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// POST /api/shifts/:shiftId/close
// -------------------------------------------------
func CloseShiftHandler(ledger *Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		shiftID, err := c.ParamsInt("shiftId")
		if err != nil || shiftID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Vardiya ID geçersiz")
		}

		var body CloseShiftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.FinalCash == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kapanış kasası (final_cash) zorunlu")
		}

		shift, err := ledger.Close(storeID, uint(shiftID), userID, *body.FinalCash)
		if err != nil {
			return err
		}

		return c.JSON(toShiftResponse(shift))
	}
}
