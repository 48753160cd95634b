package service

import (
	"stockbook/internal/model"

	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	twoHundred = decimal.NewFromInt(200)
)

// CalculateGSTRequest carries the calculator inputs. Values are taken as
// given, so negative figures propagate into the result.
type CalculateGSTRequest struct {
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	GSTRate      decimal.Decimal `json:"gstRate"`
	IsInterState bool            `json:"isInterState"`
}

// CalculateGST splits the tax on unitPrice × quantity at gstRate percent.
// Inter-state supplies carry IGST at the full rate; intra-state supplies
// carry CGST and SGST at half the rate each. Every head is rounded half-up
// to 2 decimals before the total is summed. Inputs are not validated.
func CalculateGST(unitPrice decimal.Decimal, quantity int, gstRate decimal.Decimal, isInterState bool) model.GSTBreakdown {
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

	cgst, sgst, igst := decimal.Zero, decimal.Zero, decimal.Zero
	if isInterState {
		igst = subtotal.Mul(gstRate).Div(hundred).Round(2)
	} else {
		cgst = subtotal.Mul(gstRate).Div(twoHundred).Round(2)
		sgst = cgst
	}

	return model.GSTBreakdown{
		Subtotal: subtotal,
		CGST:     cgst,
		SGST:     sgst,
		IGST:     igst,
		Total:    subtotal.Add(cgst).Add(sgst).Add(igst),
	}
}

// IsInterState reports whether a supply crosses state lines. A missing state
// code on either side is treated as intra-state.
func IsInterState(fromState, toState string) bool {
	return fromState != "" && toState != "" && fromState != toState
}
