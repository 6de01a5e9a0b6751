package accounting

import (
	"sort"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// sharePrecision is the number of decimal places kept for per-participant shares.
// Shares are never rounded to minor units before they are summed.
const sharePrecision = 16

// exactLedger accumulates unrounded balances in first-seen order.
type exactLedger struct {
	order   []string
	amounts map[string]decimal.Decimal
}

func newExactLedger() *exactLedger {
	return &exactLedger{amounts: map[string]decimal.Decimal{}}
}

func (l *exactLedger) add(handle string, delta decimal.Decimal) {
	cur, ok := l.amounts[handle]
	if !ok {
		l.order = append(l.order, handle)
		cur = decimal.Zero
	}
	l.amounts[handle] = cur.Add(delta)
}

// ComputeNetBalances derives each participant's net position from the confirmed
// expenses and confirmed payments of one event. Pending and rejected items are ignored.
//
// For an expense of amount A split among S with payer p, the payer is credited
// A/|S| * (|S|-1) and every other participant is debited A/|S|. An expense whose
// payer is not among its participants is skipped. A payment from f to t adds the
// amount to f and subtracts it from t.
//
// Shares are accumulated exactly and only rounded to whole minor units at the end,
// with the rounding residue redistributed so the result still sums to zero.
func ComputeNetBalances(expenses []domain.Expense, payments []domain.Payment) *domain.NetBalances {
	ledger := newExactLedger()

	for _, exp := range expenses {
		if exp.Status != domain.ExpenseConfirmed || exp.Amount <= 0 {
			continue
		}
		participants := domain.DedupeHandles(exp.SplitAmong)
		payer := domain.NormalizeHandle(exp.Payer)
		if !contains(participants, payer) {
			continue
		}

		n := decimal.NewFromInt(int64(len(participants)))
		share := decimal.NewFromInt(exp.Amount).DivRound(n, sharePrecision)
		for _, h := range participants {
			if h == payer {
				ledger.add(h, share.Mul(n.Sub(decimal.NewFromInt(1))))
			} else {
				ledger.add(h, share.Neg())
			}
		}
	}

	for _, p := range payments {
		if p.Status != domain.PaymentConfirmed || p.Amount <= 0 {
			continue
		}
		amount := decimal.NewFromInt(p.Amount)
		ledger.add(domain.NormalizeHandle(p.FromHandle), amount)
		ledger.add(domain.NormalizeHandle(p.ToHandle), amount.Neg())
	}

	return ledger.toMinorUnits()
}

// toMinorUnits rounds every balance half away from zero, then moves single units
// between the entries with the largest rounding error until the total is zero again.
// Ties go to the earliest-seen handle.
func (l *exactLedger) toMinorUnits() *domain.NetBalances {
	n := len(l.order)
	rounded := make([]int64, n)
	residue := make([]decimal.Decimal, n)
	var total int64
	for i, h := range l.order {
		exact := l.amounts[h]
		r := exact.Round(0)
		rounded[i] = r.IntPart()
		residue[i] = exact.Sub(r)
		total += rounded[i]
	}

	if total != 0 && n > 0 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		// total > 0: take units back from the entries rounded up the most.
		// total < 0: give units to the entries rounded down the most.
		sort.SliceStable(idx, func(a, b int) bool {
			if total > 0 {
				return residue[idx[a]].LessThan(residue[idx[b]])
			}
			return residue[idx[a]].GreaterThan(residue[idx[b]])
		})
		for k := 0; total != 0; k++ {
			i := idx[k%n]
			if total > 0 {
				rounded[i]--
				total--
			} else {
				rounded[i]++
				total++
			}
		}
	}

	out := domain.NewNetBalances()
	for i, h := range l.order {
		out.Add(h, rounded[i])
	}
	return out
}

func contains(handles []string, h string) bool {
	for _, x := range handles {
		if x == h {
			return true
		}
	}
	return false
}
