// Package report, mağaza sahibine satış özetleri sunar. Veriler işlem
// kayıtlarından okunur; rapor hiçbir şey yazmaz.
package report

import (
	"fmt"
	"time"

	"pos-backend/internal/auth"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type SalesReportResponse struct {
	ReportDate        string  `json:"report_date"`
	TotalTransactions int64   `json:"total_transactions"`
	TotalSales        float64 `json:"total_sales"`
	TotalItemsSold    int64   `json:"total_items_sold"`
}

func dayRange(dateStr string) (time.Time, time.Time, error) {
	var day time.Time
	if dateStr == "" {
		now := time.Now()
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	} else {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		day = parsed
	}
	return day, day.AddDate(0, 0, 1), nil
}

// -------------------------------------------------
// GET /api/reports/sales?date=2026-08-28  (boşsa bugün)
// -------------------------------------------------
func SalesReportHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		start, end, err := dayRange(c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı geçersiz, 'YYYY-MM-DD' olmalı")
		}

		var count int64
		if err := db.Model(&models.Transaction{}).
			Where("store_id = ? AND transaction_date >= ? AND transaction_date < ?", storeID, start, end).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor hesaplanamadı")
		}

		var totalSales float64
		if err := db.Model(&models.Transaction{}).
			Where("store_id = ? AND transaction_date >= ? AND transaction_date < ?", storeID, start, end).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&totalSales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor hesaplanamadı")
		}

		var itemsSold int64
		err = db.Model(&models.TransactionItem{}).
			Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
			Where("transactions.store_id = ? AND transactions.transaction_date >= ? AND transactions.transaction_date < ?",
				storeID, start, end).
			Select("COALESCE(SUM(transaction_items.quantity), 0)").
			Scan(&itemsSold).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor hesaplanamadı")
		}

		return c.JSON(SalesReportResponse{
			ReportDate:        start.Format("2006-01-02"),
			TotalTransactions: count,
			TotalSales:        totalSales,
			TotalItemsSold:    itemsSold,
		})
	}
}

// -------------------------------------------------
// GET /api/reports/sales/export?from=2026-08-01&to=2026-08-28
// -------------------------------------------------
func SalesExportHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from ve to zorunlu")
		}

		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
		}
		// to günü dahil
		to = to.AddDate(0, 0, 1)

		var txns []models.Transaction
		err = db.Where("store_id = ? AND transaction_date >= ? AND transaction_date < ?", storeID, from, to).
			Order("transaction_date asc").
			Find(&txns).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler okunamadı")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Satışlar"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"İşlem ID", "Tarih", "Durum", "Ödeme Yöntemi", "Vardiya ID", "Tutar"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		var grandTotal float64
		for row, txn := range txns {
			r := row + 2
			payment := ""
			if txn.PaymentMethod != nil {
				payment = *txn.PaymentMethod
			}
			shiftID := ""
			if txn.ShiftID != nil {
				shiftID = fmt.Sprintf("%d", *txn.ShiftID)
			}

			f.SetCellValue(sheet, fmt.Sprintf("A%d", r), txn.ID)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", r), txn.TransactionDate.Format("2006-01-02 15:04"))
			f.SetCellValue(sheet, fmt.Sprintf("C%d", r), string(txn.Status))
			f.SetCellValue(sheet, fmt.Sprintf("D%d", r), payment)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", r), shiftID)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", r), txn.TotalAmount)
			grandTotal += txn.TotalAmount
		}

		totalRow := len(txns) + 2
		f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), "TOPLAM")
		f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), grandTotal)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("satis-raporu-%s-%s.xlsx", fromStr, toStr)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
