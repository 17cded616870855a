package database

import (
	"github.com/jmoiron/sqlx"

	"github.com/smartshopie/analytics-backend-go/internal/database/repositories"
	"github.com/smartshopie/analytics-backend-go/internal/database/sqlite"
)

// Repositories aggregates all repository implementations
type Repositories struct {
	Overview    repositories.OverviewRepository
	Conversion  repositories.ConversionRepository
	Customer    repositories.CustomerRepository
	Product     repositories.ProductRepository
	AI          repositories.AIRepository
	Interaction repositories.InteractionRepository
	Revenue     repositories.RevenueRepository
	Realtime    repositories.RealtimeRepository
	Billing     repositories.BillingRepository
	Config      repositories.ConfigRepository
}

// NewRepositories creates repository implementations bound to the shared
// connection pool and the resolved table registry.
func NewRepositories(db *sqlx.DB, registry *TableRegistry) *Repositories {
	paymentsTable, _ := registry.Resolve(ResourcePayments)
	alertsTable, _ := registry.Resolve(ResourceAlerts)

	return &Repositories{
		Overview:    sqlite.NewOverviewRepository(db),
		Conversion:  sqlite.NewConversionRepository(db),
		Customer:    sqlite.NewCustomerRepository(db),
		Product:     sqlite.NewProductRepository(db),
		AI:          sqlite.NewAIRepository(db),
		Interaction: sqlite.NewInteractionRepository(db),
		Revenue:     sqlite.NewRevenueRepository(db),
		Realtime:    sqlite.NewRealtimeRepository(db),
		Billing:     sqlite.NewBillingRepository(db, paymentsTable, alertsTable),
		Config:      sqlite.NewConfigRepository(db),
	}
}
