package domain

// ReceiptCandidate is an amount/description pair extracted from a receipt image.
// Confidence is on a 0-100 scale.
type ReceiptCandidate struct {
	Amount      int64   `json:"amount"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}
