package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/splitledger/internal/apperrors"
)

// MaxAmount is the largest amount, in minor units, a single expense or payment may carry.
// It keeps event totals far from int64 overflow.
const MaxAmount int64 = 100_000_000_000

func validateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be a positive number of minor units", apperrors.ErrValidation)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%w: amount must not exceed %d minor units", apperrors.ErrValidation, MaxAmount)
	}
	return nil
}

// AuditFields holds standard audit information for domain entities.
// CreatedBy/LastUpdatedBy hold the acting participant handle or API subject.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
