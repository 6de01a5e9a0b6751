package accounting

import "github.com/SscSPs/splitledger/internal/core/domain"

// SettlementTolerance is the largest absolute balance, in minor units, that still
// counts as settled. Both the settlement reducer and the close gate use it.
const SettlementTolerance int64 = 1

type position struct {
	handle string
	amount int64 // Magnitude still to pay or receive
}

// ReduceSettlements turns net balances into pairwise transfers. Debtors and creditors
// keep the insertion order of the balance map and are matched greedily: each step moves
// min(debt, credit) and advances whichever side is within tolerance afterwards.
// The result never has more than debtors+creditors-1 transfers.
func ReduceSettlements(balances *domain.NetBalances) []domain.Settlement {
	return reduce(balances, SettlementTolerance)
}

// OutstandingTransfers is ReduceSettlements for a blocked close. When the tolerant
// reduction would leave someone unsettled (e.g. {a:-1, b:-1, d:+2}), it falls back to
// exact matching so every unsettled balance gets a transfer to act on.
func OutstandingTransfers(balances *domain.NetBalances) []domain.Settlement {
	transfers := reduce(balances, SettlementTolerance)
	if settles(balances, transfers) {
		return transfers
	}
	return reduce(balances, 0)
}

func reduce(balances *domain.NetBalances, tolerance int64) []domain.Settlement {
	var debtors, creditors []position
	for _, e := range balances.Entries() {
		switch {
		case e.Amount < -tolerance:
			debtors = append(debtors, position{handle: e.Handle, amount: -e.Amount})
		case e.Amount > tolerance:
			creditors = append(creditors, position{handle: e.Handle, amount: e.Amount})
		}
	}

	transfers := make([]domain.Settlement, 0, len(debtors)+len(creditors))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]
		amount := min(d.amount, c.amount)
		if amount > 0 {
			transfers = append(transfers, domain.Settlement{From: d.handle, To: c.handle, Amount: amount})
		}
		d.amount -= amount
		c.amount -= amount
		if d.amount <= tolerance {
			i++
		}
		if c.amount <= tolerance {
			j++
		}
	}
	return transfers
}

// settles reports whether applying transfers leaves every balance within tolerance.
func settles(balances *domain.NetBalances, transfers []domain.Settlement) bool {
	after := make(map[string]int64)
	for _, e := range balances.Entries() {
		after[e.Handle] = e.Amount
	}
	for _, t := range transfers {
		after[t.From] += t.Amount
		after[t.To] -= t.Amount
	}
	for _, amount := range after {
		if amount > SettlementTolerance || amount < -SettlementTolerance {
			return false
		}
	}
	return true
}

// UnsettledHandles lists the handles whose balance is outside tolerance, in map order.
func UnsettledHandles(balances *domain.NetBalances) []string {
	var out []string
	for _, e := range balances.Entries() {
		if e.Amount > SettlementTolerance || e.Amount < -SettlementTolerance {
			out = append(out, e.Handle)
		}
	}
	return out
}
