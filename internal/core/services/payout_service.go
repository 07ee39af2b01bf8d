package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/farm_payouts/internal/apperrors"
	"github.com/SscSPs/farm_payouts/internal/core/domain"
	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/farm_payouts/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/farm_payouts/internal/core/ports/services"
	"github.com/SscSPs/farm_payouts/internal/middleware"
)

const (
	defaultReconcileBatch = 50
	defaultNotifyTimeout  = 3 * time.Second
)

// PayoutServiceConfig carries the payout policy and timing knobs.
type PayoutServiceConfig struct {
	Policy         domain.RecoveryPolicy
	GatewayTimeout time.Duration // AWAITING_GATEWAY payouts older than this are reconciled
	NotifyTimeout  time.Duration
	ReconcileBatch int
}

// PayoutServiceOption configures optional payoutService dependencies.
type PayoutServiceOption func(*payoutService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) PayoutServiceOption {
	return func(s *payoutService) {
		s.now = now
	}
}

// WithMetrics records payout outcomes.
func WithMetrics(m gateways.PayoutMetrics) PayoutServiceOption {
	return func(s *payoutService) {
		if m != nil {
			s.metrics = m
		}
	}
}

type noopMetrics struct{}

func (noopMetrics) PayoutFinished(domain.PayoutStatus) {}
func (noopMetrics) DispatchObserved(time.Duration, error) {}
func (noopMetrics) RecoveryApplied(domain.Money) {}
func (noopMetrics) Reconciled(domain.ReconciliationReport) {}

// payoutService orchestrates loan lookup, recovery calculation, gateway
// dispatch, loan ledger mutation, persistence and notification.
type payoutService struct {
	BaseService
	collectionRepo portsrepo.CollectionRepositoryFacade
	loanRepo       portsrepo.LoanRepositoryFacade
	farmerRepo     portsrepo.FarmerRepositoryFacade
	payoutRepo     portsrepo.PayoutRepositoryFacade
	uow            portsrepo.UnitOfWork
	gateway        gateways.PaymentGateway
	notifier       gateways.Notifier
	metrics        gateways.PayoutMetrics
	cfg            PayoutServiceConfig
	now            func() time.Time
}

// NewPayoutService creates a new PayoutService.
func NewPayoutService(repos portsrepo.RepositoryProvider, gateway gateways.PaymentGateway, notifier gateways.Notifier, cfg PayoutServiceConfig, opts ...PayoutServiceOption) portssvc.PayoutSvcFacade {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}
	s := &payoutService{
		collectionRepo: repos.CollectionRepo,
		loanRepo:       repos.LoanRepo,
		farmerRepo:     repos.FarmerRepo,
		payoutRepo:     repos.PayoutRepo,
		uow:            repos.UnitOfWork,
		gateway:        gateway,
		notifier:       notifier,
		metrics:        noopMetrics{},
		cfg:            cfg,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure payoutService implements the portssvc.PayoutSvcFacade interface
var _ portssvc.PayoutSvcFacade = (*payoutService)(nil)

// ProcessPayout settles a verified collection.
// Implements portssvc.PayoutSvcFacade
func (s *payoutService) ProcessPayout(ctx context.Context, collectionID string, processedBy string) (*domain.PayoutResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("collection_id", collectionID))
	ctx = middleware.WithLogger(ctx, logger)

	if collectionID == "" {
		return nil, fmt.Errorf("%w: collection ID is required", apperrors.ErrValidation)
	}
	if processedBy == "" {
		return nil, fmt.Errorf("%w: processedBy is required", apperrors.ErrValidation)
	}

	// --- Idempotency check ---
	attempt := 1
	var events []domain.DomainEvent
	existing, err := s.payoutRepo.FindLatestPayoutByCollectionID(ctx, collectionID)
	if err != nil {
		logger.Error("Failed to look up existing payout", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up payout for collection %s: %w", collectionID, err)
	}
	if existing != nil {
		switch {
		case existing.Status == domain.PayoutCompleted:
			logger.Info("Payout already completed, returning stored payout", slog.String("payout_id", existing.PayoutID))
			return &domain.PayoutResult{Payout: existing, Replayed: true}, nil
		case existing.Status == domain.PayoutFailed:
			attempt = existing.Attempt + 1
		case existing.IsReconcilable(s.now(), s.cfg.GatewayTimeout):
			rctx := middleware.WithLogger(ctx, logger.With(slog.String("payout_id", existing.PayoutID), slog.Int("attempt", existing.Attempt)))
			s.LogInfo(rctx, "Reconciling payout left awaiting gateway")
			reconciled, err := s.reconcile(rctx, existing)
			if err != nil {
				return nil, err
			}
			if reconciled.Payout.Status == domain.PayoutCompleted {
				return reconciled, nil
			}
			events = append(events, reconciled.Events...)
			attempt = reconciled.Payout.Attempt + 1
		default:
			logger.Warn("Payout already in progress", slog.String("payout_id", existing.PayoutID), slog.String("status", string(existing.Status)))
			return nil, fmt.Errorf("%w: payout %s for collection %s is %s", apperrors.ErrConflict, existing.PayoutID, collectionID, existing.Status)
		}
	}

	// --- Load collection and farmer ---
	collection, err := s.collectionRepo.FindCollectionByID(ctx, collectionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find collection", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to find collection %s: %w", collectionID, err)
	}
	if !collection.IsPayoutEligible() {
		return nil, fmt.Errorf("%w: collection %s is %s, must be %s", apperrors.ErrInvalidState, collectionID, collection.Status, domain.CollectionVerified)
	}
	farmer, err := s.farmerRepo.FindFarmerByID(ctx, collection.FarmerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find farmer", slog.String("farmer_id", collection.FarmerID), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to find farmer %s: %w", collection.FarmerID, err)
	}

	// --- Calculate ---
	payout := domain.NewPayoutTransaction(collectionID, farmer.FarmerID, processedBy, attempt, s.now())
	logger = logger.With(slog.String("payout_id", payout.PayoutID), slog.Int("attempt", attempt))
	ctx = middleware.WithLogger(ctx, logger)

	started, err := payout.StartCalculation(s.now())
	if err != nil {
		return nil, err
	}
	events = append(events, started...)

	outstanding, err := s.outstandingBalance(ctx, farmer.FarmerID, collection.CalculatedPayoutAmount.Currency())
	if err != nil {
		logger.Error("Failed to resolve loan balance", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve loan balance for farmer %s: %w", farmer.FarmerID, err)
	}

	calculated, calcErr := s.calculate(collection, farmer, outstanding, payout)
	if calcErr != nil {
		failed, err := payout.Fail(calcErr.Error(), false, s.now())
		if err != nil {
			logger.Error("Failed to mark rejected calculation as failed", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to record rejected calculation for collection %s: %w", collectionID, err)
		}
		events = append(events, failed...)
		s.recordFailedAttempt(ctx, payout)
		s.metrics.PayoutFinished(domain.PayoutFailed)
		logger.Warn("Payout calculation rejected", slog.String("error", calcErr.Error()))
		return nil, fmt.Errorf("failed to calculate payout for collection %s: %w", collectionID, calcErr)
	}
	events = append(events, calculated...)

	// Nothing is persisted before this point, so cancellation is still safe.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- Claim the collection ---
	if err := s.payoutRepo.CreatePayout(ctx, *payout); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Lost race to claim collection for payout")
			return nil, fmt.Errorf("%w: collection %s is already being paid out", apperrors.ErrConflict, collectionID)
		}
		logger.Error("Failed to persist payout", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist payout for collection %s: %w", collectionID, err)
	}

	logger.Info("Payout calculated",
		slog.String("gross", payout.GrossAmount.String()),
		slog.String("loan_recovery", payout.LoanRecoveryAmount.String()),
		slog.String("net", payout.NetAmount.String()),
		slog.Bool("living_wage_protected", payout.LivingWageProtected),
	)

	return s.dispatch(ctx, payout, farmer, events)
}

func (s *payoutService) calculate(collection *domain.Collection, farmer *domain.Farmer, outstanding domain.Money, payout *domain.PayoutTransaction) ([]domain.DomainEvent, error) {
	calc, err := domain.CalculatePayout(collection.CalculatedPayoutAmount, outstanding, s.cfg.Policy)
	if err != nil {
		return nil, err
	}
	destination, err := farmer.PayoutDestination()
	if err != nil {
		return nil, err
	}
	return payout.ApplyCalculation(calc, destination, s.now())
}

// outstandingBalance returns the farmer's loan balance, or zero when there is no loan.
func (s *payoutService) outstandingBalance(ctx context.Context, farmerID string, currency string) (domain.Money, error) {
	loan, err := s.loanRepo.FindLoanByFarmerID(ctx, farmerID)
	if err != nil {
		return domain.Money{}, err
	}
	if loan == nil {
		return domain.ZeroMoney(currency)
	}
	return loan.OutstandingBalance, nil
}

// recordFailedAttempt keeps a rejected calculation as an audit record.
func (s *payoutService) recordFailedAttempt(ctx context.Context, payout *domain.PayoutTransaction) {
	if err := s.payoutRepo.CreatePayout(context.WithoutCancel(ctx), *payout); err != nil {
		s.LogError(ctx, err, "Failed to record failed payout attempt")
	}
}

// dispatch sends the net amount to the gateway and settles the outcome. Once
// the gateway has been called the attempt runs to a persisted state even if
// the caller's context is cancelled.
func (s *payoutService) dispatch(ctx context.Context, payout *domain.PayoutTransaction, farmer *domain.Farmer, events []domain.DomainEvent) (*domain.PayoutResult, error) {
	persistCtx := context.WithoutCancel(ctx)

	if payout.NetAmount.IsZero() {
		return s.settle(persistCtx, payout, farmer, domain.NoDispatchReference, events)
	}

	payout.MarkDispatched(s.now())
	started := time.Now()
	result, err := s.gateway.Dispatch(ctx, gateways.DispatchRequest{
		IdempotencyKey: payout.PayoutID,
		Destination:    payout.Destination,
		Amount:         payout.NetAmount,
		Narration:      "Produce payout for collection " + payout.CollectionID,
	})
	s.metrics.DispatchObserved(time.Since(started), err)
	if err != nil {
		return nil, s.handleDispatchFailure(persistCtx, payout, err)
	}
	return s.settle(persistCtx, payout, farmer, result.GatewayReference, events)
}

// handleDispatchFailure persists the failed dispatch. Loan balances are never
// touched here: recovery is only committed once funds are confirmed.
func (s *payoutService) handleDispatchFailure(ctx context.Context, payout *domain.PayoutTransaction, dispatchErr error) error {
	logger := s.GetLogger(ctx)

	var gwErr *apperrors.GatewayError
	if !errors.As(dispatchErr, &gwErr) {
		// Unclassified failures may have moved funds; reconcile before retrying.
		gwErr = apperrors.NewRetryableGatewayError("unclassified gateway failure", dispatchErr)
	}

	if gwErr.Retryable {
		if _, err := payout.MarkDispatchUncertain(gwErr.Error(), s.now()); err != nil {
			return err
		}
		if err := s.payoutRepo.UpdatePayout(ctx, payout); err != nil {
			s.LogError(ctx, err, "Failed to persist uncertain dispatch")
		}
		s.metrics.PayoutFinished(domain.PayoutAwaitingGateway)
		logger.Warn("Gateway dispatch uncertain, payout left awaiting gateway", slog.String("error", gwErr.Error()))
		return fmt.Errorf("payout %s awaiting gateway confirmation: %w", payout.PayoutID, gwErr)
	}

	if _, err := payout.Fail(gwErr.Error(), false, s.now()); err != nil {
		return err
	}
	if err := s.payoutRepo.UpdatePayout(ctx, payout); err != nil {
		s.LogError(ctx, err, "Failed to persist failed payout")
	}
	s.metrics.PayoutFinished(domain.PayoutFailed)
	logger.Warn("Gateway rejected payout", slog.String("error", gwErr.Error()))
	return fmt.Errorf("payout %s failed: %w", payout.PayoutID, gwErr)
}

// settle commits a confirmed dispatch: payout COMPLETED, loan recovery applied
// and collection PAID in one unit of work, then notifies the farmer.
func (s *payoutService) settle(ctx context.Context, payout *domain.PayoutTransaction, farmer *domain.Farmer, gatewayReference string, events []domain.DomainEvent) (*domain.PayoutResult, error) {
	logger := s.GetLogger(ctx)
	now := s.now()

	completed, err := payout.Complete(gatewayReference, now)
	if err != nil {
		return nil, err
	}

	var ledgerEvents []domain.DomainEvent
	var recovered domain.Money
	err = s.uow.RunInTx(ctx, func(txCtx context.Context) error {
		ledgerEvents = nil
		if err := s.payoutRepo.UpdatePayout(txCtx, payout); err != nil {
			return err
		}
		if !payout.LoanRecoveryAmount.IsZero() {
			applied, balance, err := s.loanRepo.ApplyRecovery(txCtx, payout.FarmerID, payout.LoanRecoveryAmount)
			if err != nil {
				return fmt.Errorf("failed to apply loan recovery: %w", err)
			}
			recovered = applied
			ledgerEvents = append(ledgerEvents, recoveryEvents(payout, applied, balance, now)...)
		}
		return s.collectionRepo.MarkCollectionPaid(txCtx, payout.CollectionID, payout.ProcessedBy, now)
	})
	if err != nil {
		// Funds have moved; the payout stays AWAITING_GATEWAY in storage and is
		// picked up by reconciliation.
		logger.Error("Payout dispatched but settlement failed", slog.String("gateway_reference", gatewayReference), slog.String("error", err.Error()))
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("payout %s was settled concurrently: %w", payout.PayoutID, err)
		}
		return nil, fmt.Errorf("payout %s dispatched but settlement failed: %w", payout.PayoutID, err)
	}

	events = append(events, completed...)
	events = append(events, ledgerEvents...)
	s.metrics.PayoutFinished(domain.PayoutCompleted)
	if !recovered.IsZero() {
		s.metrics.RecoveryApplied(recovered)
	}
	logger.Info("Payout completed", slog.String("gateway_reference", gatewayReference), slog.String("net", payout.NetAmount.String()))

	s.notifyFarmer(ctx, farmer, payout)
	return &domain.PayoutResult{Payout: payout, Events: events}, nil
}

func recoveryEvents(payout *domain.PayoutTransaction, applied, balance domain.Money, now time.Time) []domain.DomainEvent {
	events := []domain.DomainEvent{{
		Type:         domain.EventLoanRecoveryApplied,
		PayoutID:     payout.PayoutID,
		CollectionID: payout.CollectionID,
		FarmerID:     payout.FarmerID,
		OccurredAt:   now,
		Payload:      map[string]any{"applied": applied, "outstandingBalance": balance},
	}}
	excess, err := payout.LoanRecoveryAmount.Subtract(applied)
	if err == nil && !excess.IsZero() && !excess.IsNegative() {
		events = append(events, domain.DomainEvent{
			Type:         domain.EventLoanRecoveryExcess,
			PayoutID:     payout.PayoutID,
			CollectionID: payout.CollectionID,
			FarmerID:     payout.FarmerID,
			OccurredAt:   now,
			Payload:      map[string]any{"excess": excess},
		})
	}
	return events
}

// notifyFarmer is best-effort: failures are logged and never fail the payout.
func (s *payoutService) notifyFarmer(ctx context.Context, farmer *domain.Farmer, payout *domain.PayoutTransaction) {
	if s.notifier == nil || farmer == nil || farmer.UserID == "" {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()
	if err := s.notifier.EmitToUser(nctx, farmer.UserID, string(domain.EventPayoutCompleted), payout); err != nil {
		s.GetLogger(ctx).Warn("Failed to notify farmer", slog.String("farmer_id", farmer.FarmerID), slog.String("error", err.Error()))
	}
}

// reconcile resolves an AWAITING_GATEWAY payout by asking the gateway what
// happened to its idempotency key. ctx must carry a logger scoped to the payout.
func (s *payoutService) reconcile(ctx context.Context, payout *domain.PayoutTransaction) (*domain.PayoutResult, error) {
	logger := s.GetLogger(ctx)

	status, err := s.gateway.Status(ctx, payout.PayoutID)
	if err != nil {
		logger.Warn("Gateway status query failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to reconcile payout %s: %w", payout.PayoutID, err)
	}

	switch status.State {
	case gateways.DispatchConfirmed:
		farmer, err := s.farmerRepo.FindFarmerByID(ctx, payout.FarmerID)
		if err != nil {
			logger.Warn("Farmer lookup failed during reconciliation, skipping notification", slog.String("error", err.Error()))
			farmer = nil
		}
		return s.settle(context.WithoutCancel(ctx), payout, farmer, status.GatewayReference, nil)
	case gateways.DispatchUnknown:
		if !payout.DispatchWindowElapsed(s.now(), s.cfg.GatewayTimeout) {
			logger.Info("Gateway has no record of payout yet, waiting for the dispatch window to elapse")
			return nil, fmt.Errorf("payout %s awaiting gateway confirmation: %w", payout.PayoutID,
				apperrors.NewRetryableGatewayError("gateway has no record of the disbursement yet", nil))
		}
		return s.failReconciled(ctx, logger, payout, status)
	case gateways.DispatchRejected:
		return s.failReconciled(ctx, logger, payout, status)
	default:
		return nil, fmt.Errorf("%w: payout %s is still in flight at the gateway", apperrors.ErrConflict, payout.PayoutID)
	}
}

// failReconciled marks an attempt FAILED after the gateway rejected it or
// never saw it within the dispatch window. A new attempt may follow.
func (s *payoutService) failReconciled(ctx context.Context, logger *slog.Logger, payout *domain.PayoutTransaction, status gateways.DispatchStatus) (*domain.PayoutResult, error) {
	reason := fmt.Sprintf("reconciled as %s", status.State)
	if status.Reason != "" {
		reason += ": " + status.Reason
	}
	failed, err := payout.Fail(reason, status.State == gateways.DispatchUnknown, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.payoutRepo.UpdatePayout(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to persist reconciled payout %s: %w", payout.PayoutID, err)
	}
	s.metrics.PayoutFinished(domain.PayoutFailed)
	logger.Info("Payout reconciled as failed", slog.String("state", string(status.State)))
	return &domain.PayoutResult{Payout: payout, Events: failed}, nil
}

// ReconcileStalePayouts sweeps payouts stuck in AWAITING_GATEWAY.
// Implements portssvc.PayoutSvcFacade
func (s *payoutService) ReconcileStalePayouts(ctx context.Context) (*domain.ReconciliationReport, error) {
	cutoff := s.now().Add(-s.cfg.GatewayTimeout)
	stale, err := s.payoutRepo.ListStalePayouts(ctx, cutoff, s.cfg.ReconcileBatch)
	if err != nil {
		s.LogError(ctx, err, "Failed to list stale payouts")
		return nil, fmt.Errorf("failed to list stale payouts: %w", err)
	}

	report := &domain.ReconciliationReport{Examined: len(stale)}
	for i := range stale {
		payout := &stale[i]
		result, err := s.reconcile(middleware.WithLogger(ctx, s.PayoutLogger(ctx, payout)), payout)
		if err != nil {
			report.Pending++
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		if result.Payout.Status == domain.PayoutCompleted {
			report.Completed++
		} else {
			report.Failed++
		}
	}

	s.metrics.Reconciled(*report)
	if report.Examined > 0 {
		s.LogInfo(ctx, "Stale payouts reconciled",
			slog.Int("examined", report.Examined),
			slog.Int("completed", report.Completed),
			slog.Int("failed", report.Failed),
			slog.Int("pending", report.Pending),
		)
	}
	return report, nil
}

// PreviewPayout computes the recovery split for a collection without side effects.
// Implements portssvc.PayoutSvcFacade
func (s *payoutService) PreviewPayout(ctx context.Context, collectionID string) (*domain.PayoutCalculation, error) {
	collection, err := s.collectionRepo.FindCollectionByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find collection %s: %w", collectionID, err)
	}
	outstanding, err := s.outstandingBalance(ctx, collection.FarmerID, collection.CalculatedPayoutAmount.Currency())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve loan balance for farmer %s: %w", collection.FarmerID, err)
	}
	calc, err := domain.CalculatePayout(collection.CalculatedPayoutAmount, outstanding, s.cfg.Policy)
	if err != nil {
		return nil, err
	}
	return &calc, nil
}

// GetPayoutByID retrieves a payout attempt.
// Implements portssvc.PayoutSvcFacade
func (s *payoutService) GetPayoutByID(ctx context.Context, payoutID string) (*domain.PayoutTransaction, error) {
	payout, err := s.payoutRepo.FindPayoutByID(ctx, payoutID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payout", slog.String("payout_id", payoutID))
		}
		return nil, fmt.Errorf("failed to find payout %s: %w", payoutID, err)
	}
	return payout, nil
}

// GetPayoutByCollectionID retrieves the latest payout attempt for a collection.
// Implements portssvc.PayoutSvcFacade
func (s *payoutService) GetPayoutByCollectionID(ctx context.Context, collectionID string) (*domain.PayoutTransaction, error) {
	payout, err := s.payoutRepo.FindLatestPayoutByCollectionID(ctx, collectionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find payout by collection", slog.String("collection_id", collectionID))
		return nil, fmt.Errorf("failed to find payout for collection %s: %w", collectionID, err)
	}
	if payout == nil {
		return nil, fmt.Errorf("no payout for collection %s: %w", collectionID, apperrors.ErrNotFound)
	}
	return payout, nil
}

// ListPayoutsByFarmer retrieves a paginated list of a farmer's payouts.
// Implements portssvc.PayoutSvcFacade
func (s *payoutService) ListPayoutsByFarmer(ctx context.Context, farmerID string, limit int, offset int) ([]domain.PayoutTransaction, error) {
	limit = domain.PageLimit(limit)
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", apperrors.ErrValidation)
	}
	payouts, err := s.payoutRepo.ListPayoutsByFarmer(ctx, farmerID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payouts", slog.String("farmer_id", farmerID))
		return nil, fmt.Errorf("failed to list payouts for farmer %s: %w", farmerID, err)
	}
	return payouts, nil
}
