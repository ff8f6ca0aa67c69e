package domain

// PurchaseType distinguishes stock coming in from stock going back out
// within the purchase ledger.
type PurchaseType string

const (
	PurchaseTypePurchase PurchaseType = "purchase"
	PurchaseTypeReturn   PurchaseType = "return"
)

// IsValid checks whether the type is one of the known values
func (t PurchaseType) IsValid() bool {
	switch t {
	case PurchaseTypePurchase, PurchaseTypeReturn:
		return true
	}
	return false
}
