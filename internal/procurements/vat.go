package procurements

import "github.com/shopspring/decimal"

// NotApplicable replaces supplier fields on purchases without a valid receipt.
const NotApplicable = "N/A"

// vatFields is the slice of a procurement the VAT rules read and rewrite.
type vatFields struct {
	SupplierName   string
	Reference      string
	TIN            string
	Address        string
	Amount         decimal.Decimal
	NetOfVAT       decimal.Decimal
	InputVAT       decimal.Decimal
	IsNonVAT       bool
	NoValidReceipt bool
}

// normalizeVAT applies the receipt rules. Without a valid receipt nothing is
// claimable and the supplier is unknown; a non-VAT purchase books the whole
// amount as net.
func normalizeVAT(in vatFields) vatFields {
	out := in
	switch {
	case in.NoValidReceipt:
		out.NetOfVAT = decimal.Zero
		out.InputVAT = decimal.Zero
		out.IsNonVAT = true
		out.SupplierName = NotApplicable
		out.Reference = NotApplicable
		out.TIN = NotApplicable
		out.Address = NotApplicable
	case in.IsNonVAT:
		out.NetOfVAT = in.Amount
		out.InputVAT = decimal.Zero
	}
	return out
}
