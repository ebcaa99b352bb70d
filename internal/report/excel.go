package report

import (
	"fmt"

	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelRenderer builds the XLSX rendition of a quotation
type ExcelRenderer struct {
	logger *zap.Logger
}

func NewExcelRenderer(logger *zap.Logger) *ExcelRenderer {
	return &ExcelRenderer{logger: logger}
}

// Render produces a workbook with the quotation header, its line items and
// the totals block
func (r *ExcelRenderer) Render(quotation *domain.QuotationDetailDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]

	r.setCell(f, sheet, "A1", "Quotation")
	r.setCell(f, sheet, "B1", quotation.CustomID)
	r.setCell(f, sheet, "A2", "Client")
	r.setCell(f, sheet, "B2", quotation.ClientName)
	r.setCell(f, sheet, "A3", "Supervisor")
	r.setCell(f, sheet, "B3", quotation.SupervisorName)
	r.setCell(f, sheet, "A4", "Status")
	r.setCell(f, sheet, "B4", quotation.Status)
	r.setCell(f, sheet, "A5", "Delivery date")
	r.setCell(f, sheet, "B5", quotation.DeliveryDate)
	r.setCell(f, sheet, "A6", "Delivery type")
	r.setCell(f, sheet, "B6", quotation.DeliveryType)
	if quotation.SalesRep != nil {
		r.setCell(f, sheet, "A7", "Sales rep")
		r.setCell(f, sheet, "B7", quotation.SalesRep.Name)
	}

	// Line items table
	headerRow := 9
	headers := []string{"Section", "Type", "Description", "Quantity", "Price", "VAT", "Subtotal"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell reference: %w", err)
		}
		r.setCell(f, sheet, cell, h)
	}

	for i, p := range quotation.Products {
		rowNum := headerRow + 1 + i
		values := []interface{}{p.Section, p.Type, p.Description, p.Quantity, p.Price, p.VAT, p.Subtotal}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell reference: %w", err)
			}
			r.setCell(f, sheet, cell, v)
		}
	}

	totalsRow := headerRow + len(quotation.Products) + 2
	r.setCell(f, sheet, fmt.Sprintf("F%d", totalsRow), "Total price")
	r.setCell(f, sheet, fmt.Sprintf("G%d", totalsRow), quotation.TotalPrice)
	r.setCell(f, sheet, fmt.Sprintf("F%d", totalsRow+1), "Total VAT")
	r.setCell(f, sheet, fmt.Sprintf("G%d", totalsRow+1), quotation.TotalVAT)
	r.setCell(f, sheet, fmt.Sprintf("F%d", totalsRow+2), "Total subtotal")
	r.setCell(f, sheet, fmt.Sprintf("G%d", totalsRow+2), quotation.TotalSubtotal)

	if err := f.SetColWidth(sheet, "A", "C", 24); err != nil {
		r.logger.Warn("failed to set column width", zap.Error(err))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *ExcelRenderer) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		r.logger.Warn("failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}
