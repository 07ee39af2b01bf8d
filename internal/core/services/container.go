package services

import (
	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/farm_payouts/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/farm_payouts/internal/core/ports/services"
)

// NewServiceContainer wires all services from their repositories and external adapters.
func NewServiceContainer(repos portsrepo.RepositoryProvider, gateway gateways.PaymentGateway, notifier gateways.Notifier, cfg PayoutServiceConfig, opts ...PayoutServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Payout: NewPayoutService(repos, gateway, notifier, cfg, opts...),
	}
}
