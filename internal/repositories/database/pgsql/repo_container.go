package pgsql

import (
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	eventRepo := newPgxEventRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool)

	return portsrepo.RepositoryProvider{
		EventRepo:   eventRepo,
		ExpenseRepo: expenseRepo,
		PaymentRepo: paymentRepo,
		Health:      &BaseRepository{Pool: dbPool},
	}
}
