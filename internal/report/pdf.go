package report

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/quotedesk/quotation-api/internal/domain"
)

var (
	pdfColorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}
	pdfColorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128}
	pdfColorAccent    = &props.Color{Red: 37, Green: 99, Blue: 235}
	pdfColorTableHead = &props.Color{Red: 241, Green: 245, Blue: 249}
	pdfColorBorder    = &props.Color{Red: 226, Green: 232, Blue: 240}
)

// PDFRenderer builds the PDF rendition of a quotation
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(quotation *domain.QuotationDetailDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRows(buildPDFHeader(quotation)...)
	m.AddRows(row.New(1).WithStyle(&props.Cell{
		BorderType:  border.Bottom,
		BorderColor: pdfColorBorder,
	}))
	m.AddRows(row.New(6))

	m.AddRows(buildPDFMeta(quotation)...)
	m.AddRows(row.New(6))

	m.AddRows(buildPDFItemsTable(quotation)...)
	m.AddRows(row.New(4))

	m.AddRows(buildPDFTotals(quotation)...)

	if quotation.Notes != "" {
		m.AddRows(row.New(6))
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(text.New("NOTES", props.Text{Size: 8, Style: fontstyle.Bold, Color: pdfColorAccent})),
			),
			row.New(12).Add(
				col.New(12).Add(text.New(quotation.Notes, props.Text{Size: 8, Color: pdfColorSecondary, Top: 1})),
			),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func buildPDFHeader(q *domain.QuotationDetailDTO) []core.Row {
	return []core.Row{
		row.New(20).Add(
			col.New(6).Add(
				text.New("QUOTATION", props.Text{
					Size:  24,
					Style: fontstyle.Bold,
					Color: pdfColorAccent,
				}),
			),
			col.New(6).Add(
				text.New(q.CustomID, props.Text{
					Size:  11,
					Align: align.Right,
					Color: pdfColorSecondary,
					Top:   12,
				}),
			),
		),
	}
}

func buildPDFMeta(q *domain.QuotationDetailDTO) []core.Row {
	labelStyle := props.Text{Size: 7, Style: fontstyle.Bold, Color: pdfColorAccent}
	valueStyle := props.Text{Size: 9, Color: pdfColorPrimary}

	salesRepName := ""
	if q.SalesRep != nil {
		salesRepName = q.SalesRep.Name
	}

	return []core.Row{
		row.New(5).Add(
			col.New(4).Add(text.New("CLIENT", labelStyle)),
			col.New(4).Add(text.New("SUPERVISOR", labelStyle)),
			col.New(4).Add(text.New("SALES REP", labelStyle)),
		),
		row.New(5).Add(
			col.New(4).Add(text.New(q.ClientName, valueStyle)),
			col.New(4).Add(text.New(q.SupervisorName, valueStyle)),
			col.New(4).Add(text.New(salesRepName, valueStyle)),
		),
		row.New(5).Add(
			col.New(4).Add(text.New("STATUS", labelStyle)),
			col.New(4).Add(text.New("DELIVERY DATE", labelStyle)),
			col.New(4).Add(text.New("DELIVERY TYPE", labelStyle)),
		),
		row.New(5).Add(
			col.New(4).Add(text.New(q.Status, valueStyle)),
			col.New(4).Add(text.New(q.DeliveryDate, valueStyle)),
			col.New(4).Add(text.New(q.DeliveryType, valueStyle)),
		),
	}
}

func buildPDFItemsTable(q *domain.QuotationDetailDTO) []core.Row {
	rows := []core.Row{
		row.New(7).Add(
			col.New(12).Add(text.New("LINE ITEMS", props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Color: pdfColorAccent,
			})),
		),
	}

	headerStyle := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: pdfColorPrimary, Top: 1.5}
	headerStyleRight := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: pdfColorPrimary, Align: align.Right, Top: 1.5}

	rows = append(rows, row.New(7).Add(
		col.New(2).Add(text.New("Section", headerStyle)),
		col.New(2).Add(text.New("Type", headerStyle)),
		col.New(3).Add(text.New("Description", headerStyle)),
		col.New(1).Add(text.New("Qty", headerStyleRight)),
		col.New(2).Add(text.New("Price", headerStyleRight)),
		col.New(2).Add(text.New("Subtotal", headerStyleRight)),
	).WithStyle(&props.Cell{
		BackgroundColor: pdfColorTableHead,
		BorderType:      border.Bottom,
		BorderColor:     pdfColorBorder,
	}))

	normalStyle := props.Text{Size: 8, Color: pdfColorPrimary, Top: 1}
	rightStyle := props.Text{Size: 8, Color: pdfColorPrimary, Align: align.Right, Top: 1}

	for _, item := range q.Products {
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(item.Section, normalStyle)),
			col.New(2).Add(text.New(item.Type, normalStyle)),
			col.New(3).Add(text.New(item.Description, normalStyle)),
			col.New(1).Add(text.New(fmt.Sprintf("%.2f", item.Quantity), rightStyle)),
			col.New(2).Add(text.New(fmt.Sprintf("%.2f", item.Price), rightStyle)),
			col.New(2).Add(text.New(fmt.Sprintf("%.2f", item.Subtotal), rightStyle)),
		))
	}

	return rows
}

func buildPDFTotals(q *domain.QuotationDetailDTO) []core.Row {
	labelStyle := props.Text{Size: 9, Color: pdfColorSecondary, Align: align.Right}
	valueStyle := props.Text{Size: 9, Color: pdfColorPrimary, Align: align.Right}

	return []core.Row{
		row.New(1).WithStyle(&props.Cell{
			BorderType:  border.Bottom,
			BorderColor: pdfColorBorder,
		}),
		row.New(3),
		row.New(6).Add(
			col.New(9).Add(text.New("Total price", labelStyle)),
			col.New(3).Add(text.New(fmt.Sprintf("%.2f", q.TotalPrice), valueStyle)),
		),
		row.New(6).Add(
			col.New(9).Add(text.New(fmt.Sprintf("VAT %.0f%%", domain.VATRate*100), labelStyle)),
			col.New(3).Add(text.New(fmt.Sprintf("%.2f", q.TotalVAT), valueStyle)),
		),
		row.New(10).Add(
			col.New(9).Add(text.New("TOTAL", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Color: pdfColorPrimary,
				Align: align.Right,
				Top:   2,
			})),
			col.New(3).Add(text.New(fmt.Sprintf("%.2f", q.TotalSubtotal), props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Color: pdfColorPrimary,
				Align: align.Right,
				Top:   2,
			})),
		).WithStyle(&props.Cell{
			BackgroundColor: pdfColorTableHead,
			BorderType:      border.Top + border.Bottom,
			BorderColor:     pdfColorBorder,
		}),
	}
}
