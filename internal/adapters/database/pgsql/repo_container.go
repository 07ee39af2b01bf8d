package pgsql

import (
	portsrepo "github.com/SscSPs/farm_payouts/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CollectionRepo: newPgxCollectionRepository(dbPool),
		LoanRepo:       newPgxLoanRepository(dbPool),
		FarmerRepo:     newPgxFarmerRepository(dbPool),
		PayoutRepo:     newPgxPayoutRepository(dbPool),
		UnitOfWork:     newPgxUnitOfWork(dbPool),
	}
}
