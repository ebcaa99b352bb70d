package report

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func sampleQuotation() *domain.QuotationDetailDTO {
	return &domain.QuotationDetailDTO{
		ID:             uuid.New(),
		CustomID:       "ORD-1042 Rev2",
		Status:         "not Delivered",
		DeliveryDate:   "2026-09-15",
		DeliveryType:   "site",
		ClientName:     "Nordic Pipe AS",
		SupervisorName: "Kari Berg",
		SalesRep:       &domain.SalesRepDTO{Name: "Ola Vik"},
		Products: []domain.QuotationProductDTO{
			{Section: "pipes", Type: "steel", Description: "DN50 pipe", Quantity: 2, Price: 100, VAT: 30, Subtotal: 230},
			{Section: "fittings", Type: "brass", Description: "Elbow 90", Quantity: 4, Price: 25, VAT: 15, Subtotal: 115},
		},
		TotalPrice:    300,
		TotalVAT:      45,
		TotalSubtotal: 345,
		Notes:         "Deliver before noon",
	}
}

func TestExcelRendererRender(t *testing.T) {
	renderer := NewExcelRenderer(zap.NewNop())

	data, err := renderer.Render(sampleQuotation())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetList()[0]

	customID, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1042 Rev2", customID)

	client, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Nordic Pipe AS", client)

	firstSection, err := f.GetCellValue(sheet, "A10")
	require.NoError(t, err)
	assert.Equal(t, "pipes", firstSection)

	secondSection, err := f.GetCellValue(sheet, "A11")
	require.NoError(t, err)
	assert.Equal(t, "fittings", secondSection)
}

func TestExcelRendererHandlesEmptyQuotation(t *testing.T) {
	renderer := NewExcelRenderer(zap.NewNop())

	q := sampleQuotation()
	q.Products = nil
	q.SalesRep = nil

	data, err := renderer.Render(q)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestPDFRendererRender(t *testing.T) {
	renderer := NewPDFRenderer()

	data, err := renderer.Render(sampleQuotation())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	// PDF magic bytes
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPDFRendererHandlesEmptyQuotation(t *testing.T) {
	renderer := NewPDFRenderer()

	q := sampleQuotation()
	q.Products = nil
	q.SalesRep = nil
	q.Notes = ""

	data, err := renderer.Render(q)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
