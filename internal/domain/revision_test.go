package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNextCustomID(t *testing.T) {
	tests := []struct {
		name     string
		customID string
		want     string
	}{
		{"first revision", "ORD-1042", "ORD-1042 Rev1"},
		{"increments existing revision", "ORD-1042 Rev3", "ORD-1042 Rev4"},
		{"single digit to double digit", "Q-7 Rev9", "Q-7 Rev10"},
		{"multi digit revision", "Q-7 Rev12", "Q-7 Rev13"},
		{"rev zero", "Q-7 Rev0", "Q-7 Rev1"},
		{"empty id", "", " Rev1"},
		{"rev without number", "ORD Rev", "ORD Rev Rev1"},
		{"rev with space before number", "ORD Rev 3", "ORD Rev 3 Rev1"},
		{"lowercase rev not matched", "ORD rev3", "ORD rev3 Rev1"},
		{"rev in the middle only", "Rev3 ORD", "Rev3 ORD Rev1"},
		{"no space before rev still matched", "ORDRev2", "ORDRev3"},
		{"trailing whitespace not matched", "ORD Rev3 ", "ORD Rev3  Rev1"},
		{"rev with leading zeros", "ORD Rev007", "ORD Rev8"},
		{"number too large to parse", "ORD Rev99999999999999999999", "ORD Rev99999999999999999999 Rev1"},
		{"unicode id", "طلب-١٠ Rev2", "طلب-١٠ Rev3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextCustomID(tt.customID))
		})
	}
}

func TestBuildProducts(t *testing.T) {
	qid := uuid.New()

	t.Run("derives vat and subtotal per line", func(t *testing.T) {
		products, totals := BuildProducts(qid, []QuotationProductInput{
			{Section: "pipes", Type: "steel", Quantity: 2, Price: 100},
			{Section: "fittings", Type: "brass", Quantity: 4, Price: 25},
		})

		assert.Len(t, products, 2)
		assert.Equal(t, qid, products[0].QuotationID)
		assert.Equal(t, 0, products[0].Position)
		assert.Equal(t, 1, products[1].Position)

		assert.InDelta(t, 30.0, products[0].VAT, 1e-9)
		assert.InDelta(t, 230.0, products[0].Subtotal, 1e-9)
		assert.InDelta(t, 15.0, products[1].VAT, 1e-9)
		assert.InDelta(t, 115.0, products[1].Subtotal, 1e-9)

		assert.InDelta(t, 300.0, totals.Price, 1e-9)
		assert.InDelta(t, 45.0, totals.VAT, 1e-9)
		assert.InDelta(t, 345.0, totals.Subtotal, 1e-9)
	})

	t.Run("empty input yields zero totals", func(t *testing.T) {
		products, totals := BuildProducts(qid, nil)
		assert.Empty(t, products)
		assert.Zero(t, totals.Price)
		assert.Zero(t, totals.VAT)
		assert.Zero(t, totals.Subtotal)
	})

	t.Run("zero price or quantity contributes nothing", func(t *testing.T) {
		products, totals := BuildProducts(qid, []QuotationProductInput{
			{Quantity: 0, Price: 100},
			{Quantity: 3, Price: 0},
		})
		assert.Len(t, products, 2)
		assert.Zero(t, totals.Price)
		assert.Zero(t, totals.VAT)
		assert.Zero(t, totals.Subtotal)
	})
}
