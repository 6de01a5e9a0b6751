package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/splitledger/internal/apperrors"
)

// ApprovalPolicy decides how many agree votes confirm an expense.
type ApprovalPolicy string

const (
	// ApprovalMajority needs ceil(n/2) agrees.
	ApprovalMajority ApprovalPolicy = "majority"
	// ApprovalUnanimous needs every participant to agree.
	ApprovalUnanimous ApprovalPolicy = "unanimous"
)

// ParseApprovalPolicy converts a config value into a policy. Empty means majority.
func ParseApprovalPolicy(s string) (ApprovalPolicy, error) {
	switch p := ApprovalPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ApprovalMajority, nil
	case ApprovalMajority, ApprovalUnanimous:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown approval policy %q", apperrors.ErrValidation, s)
	}
}

// RequiredApprovals returns the number of agree votes needed among n participants.
func (p ApprovalPolicy) RequiredApprovals(n int) int {
	if n <= 0 {
		return 0
	}
	if p == ApprovalUnanimous {
		return n
	}
	return (n + 1) / 2
}
