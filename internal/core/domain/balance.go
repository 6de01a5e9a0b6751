package domain

// BalanceEntry is one participant's net position in minor units.
// Positive means the participant is owed money, negative means they owe.
type BalanceEntry struct {
	Handle string `json:"handle"`
	Amount int64  `json:"amount"`
}

// NetBalances is an insertion-ordered map of handle to net balance.
// The order is the order in which handles were first seen, which keeps
// settlement output deterministic.
type NetBalances struct {
	order   []string
	amounts map[string]int64
}

// NewNetBalances creates an empty balance map.
func NewNetBalances() *NetBalances {
	return &NetBalances{amounts: map[string]int64{}}
}

// Touch registers handle with a zero balance if it is not present yet.
func (b *NetBalances) Touch(handle string) {
	if b.amounts == nil {
		b.amounts = map[string]int64{}
	}
	if _, ok := b.amounts[handle]; ok {
		return
	}
	b.order = append(b.order, handle)
	b.amounts[handle] = 0
}

// Add adjusts handle's balance by delta.
func (b *NetBalances) Add(handle string, delta int64) {
	b.Touch(handle)
	b.amounts[handle] += delta
}

// Get returns handle's balance, zero if unknown.
func (b *NetBalances) Get(handle string) int64 {
	return b.amounts[handle]
}

// Handles returns the handles in insertion order.
func (b *NetBalances) Handles() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Len returns the number of handles.
func (b *NetBalances) Len() int {
	return len(b.order)
}

// Sum returns the total of all balances; zero for any consistent ledger.
func (b *NetBalances) Sum() int64 {
	var sum int64
	for _, v := range b.amounts {
		sum += v
	}
	return sum
}

// Entries returns the balances in insertion order.
func (b *NetBalances) Entries() []BalanceEntry {
	out := make([]BalanceEntry, 0, len(b.order))
	for _, h := range b.order {
		out = append(out, BalanceEntry{Handle: h, Amount: b.amounts[h]})
	}
	return out
}

// Settlement is a single recommended transfer.
type Settlement struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}
