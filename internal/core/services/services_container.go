package services

import (
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/platform/config"
)

const defaultSessionTTL = 30 * time.Minute

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, sessions portsrepo.SessionStore) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Adapters register after construction, so services notify through one fan-out.
	fanOut := &listenerFanOut{}
	container.Listeners = fanOut

	policy := domain.ApprovalMajority
	ttl := defaultSessionTTL
	if cfg != nil {
		if cfg.ApprovalPolicy != "" {
			policy = cfg.ApprovalPolicy
		}
		if cfg.SessionTTL > 0 {
			ttl = cfg.SessionTTL
		}
	}

	container.Event = NewEventService(
		repos.EventRepo,
		repos.ExpenseRepo,
		repos.PaymentRepo,
		WithEventListeners(fanOut),
	)
	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		repos.EventRepo,
		WithApprovalPolicy(policy),
		WithSessionStore(sessions),
		WithExpenseListeners(fanOut),
	)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.EventRepo)
	container.Ledger = NewLedgerService(repos.EventRepo, repos.ExpenseRepo, repos.PaymentRepo)
	container.Session = NewSessionService(sessions, ttl)

	checks := map[string]portsrepo.HealthChecker{"database": repos.Health}
	if sessions != nil {
		checks["session_store"] = sessions
	}
	container.Health = NewHealthService(checks)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.EventSvcFacade   = (*eventService)(nil)
	_ portssvc.ExpenseSvcFacade = (*expenseService)(nil)
	_ portssvc.PaymentSvcFacade = (*paymentService)(nil)
)
