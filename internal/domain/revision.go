package domain

import (
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

var revisionSuffix = regexp.MustCompile(`^(.*Rev)(\d+)$`)

// NextCustomID derives the custom id for the next revision of a quotation.
// "ORD-1042 Rev3" becomes "ORD-1042 Rev4"; anything without a trailing
// "Rev<digits>" suffix gets " Rev1" appended. Whitespace is preserved as-is,
// so a malformed suffix like "Rev 3" is treated as unrevisioned.
func NextCustomID(customID string) string {
	if m := revisionSuffix.FindStringSubmatch(customID); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return m[1] + strconv.Itoa(n+1)
		}
	}
	return customID + " Rev1"
}

// Totals is the recomputed money summary of a quotation
type Totals struct {
	Price    float64
	VAT      float64
	Subtotal float64
}

// BuildProducts turns submitted line items into persistable rows, deriving
// per-line VAT and subtotal and the quotation totals. Stored values never
// come from the client.
func BuildProducts(quotationID uuid.UUID, inputs []QuotationProductInput) ([]QuotationProduct, Totals) {
	products := make([]QuotationProduct, 0, len(inputs))
	var totals Totals
	for i, in := range inputs {
		price := in.Price.Float64()
		quantity := in.Quantity.Float64()
		base := price * quantity
		vat := base * VATRate
		subtotal := base + vat

		products = append(products, QuotationProduct{
			QuotationID: quotationID,
			Section:     in.Section,
			ProductType: in.Type,
			Description: in.Description,
			Quantity:    quantity,
			Price:       price,
			VAT:         vat,
			Subtotal:    subtotal,
			Position:    i,
		})

		totals.Price += base
		totals.VAT += vat
		totals.Subtotal += subtotal
	}
	return products, totals
}
