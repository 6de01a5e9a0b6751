package utils

import (
	"fmt"
	"strings"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of minor units per major unit as a power of ten (paise, cents).
const MinorUnitExponent = 2

var currencyMarks = []string{"₹", "$", "€", "£", "rs.", "rs", "inr"}

// ParseMajorAmount converts user input such as "12.50" or "₹1,200" into minor units.
// The result must be a positive whole number of minor units.
func ParseMajorAmount(input string) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	for _, mark := range currencyMarks {
		s = strings.TrimPrefix(s, mark)
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("%w: amount is required", apperrors.ErrValidation)
	}

	major, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", apperrors.ErrValidation, input)
	}
	minor := major.Shift(MinorUnitExponent)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", apperrors.ErrValidation, input, MinorUnitExponent)
	}
	if !minor.IsPositive() {
		return 0, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if minor.GreaterThan(decimal.NewFromInt(domain.MaxAmount)) {
		return 0, fmt.Errorf("%w: amount is too large", apperrors.ErrValidation)
	}
	return minor.IntPart(), nil
}

// FormatMinor renders minor units for display, e.g. 125050 -> "₹1250.50".
func FormatMinor(amount int64, symbol string) string {
	d := decimal.New(amount, -MinorUnitExponent)
	if d.IsNegative() {
		return "-" + symbol + d.Neg().StringFixed(MinorUnitExponent)
	}
	return symbol + d.StringFixed(MinorUnitExponent)
}
