package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by the HTTP handlers and the chat bot.
type ServiceContainer struct {
	Event   EventSvcFacade
	Expense ExpenseSvcFacade
	Payment PaymentSvcFacade
	Ledger  LedgerSvc
	Session SessionSvc
	Health  HealthSvc

	Listeners ListenerRegistry
}
