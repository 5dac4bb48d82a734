/**
 * @description
 * This file contains the core business logic of the Klix ledger. The `Service`
 * runs every operation as one load -> mutate -> save cycle over the whole
 * Document, serialized by a single RWMutex so overlapping requests can never
 * lose an update.
 *
 * Key features:
 * - Task acceptance credits the influencer wallet and removes the task.
 * - Campaign creation derives a companion task with a never-reused id.
 * - Committed changes are announced on RabbitMQ; the document stays the source of truth.
 *
 * @dependencies
 * - github.com/go-playground/validator/v10: request validation.
 * - internal/domain, internal/store, internal/observability, pkg/rabbitmq.
 */

package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/domain"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/observability"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/store"
	"github.com/ayush-bhatt-07/klix-marketplace/pkg/rabbitmq"
	"github.com/go-playground/validator/v10"
)

// Routing keys of the ledger events.
const (
	EventTaskAccepted    = "task.accepted"
	EventCampaignCreated = "campaign.created"
	EventPayoutRequested = "payout.requested"
)

const publishTimeout = 5 * time.Second

// Service provides the ledger operations.
type Service struct {
	mu        sync.RWMutex
	repo      store.Repository
	publisher rabbitmq.Publisher
	metrics   *observability.Metrics
	payouts   PayoutGateway
	validate  *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPayoutGateway replaces the stub payout gateway.
func WithPayoutGateway(g PayoutGateway) Option {
	return func(s *Service) { s.payouts = g }
}

// NewService creates a new ledger service. A nil publisher disables event publishing.
func NewService(repo store.Repository, publisher rabbitmq.Publisher, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = &rabbitmq.EventProducerFallback{Logger: logger}
	}
	s := &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.payouts == nil {
		s.payouts = StubPayoutGateway{Now: s.now}
	}
	return s
}

// ListTasks returns the open tasks. With an influencer id, tasks that influencer
// already accepted are left out.
func (s *Service) ListTasks(ctx context.Context, influencerID *int64) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.repo.Load(ctx)
	if influencerID == nil {
		return doc.Tasks, nil
	}
	accepted := doc.AcceptedTaskIDs(*influencerID)
	tasks := make([]domain.Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if _, ok := accepted[t.ID]; !ok {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// AcceptTask records the acceptance, removes the task from the open list and
// credits its reward to the influencer's wallet, all in one save.
func (s *Service) AcceptTask(ctx context.Context, taskID int64, influencer domain.Influencer) (*domain.AcceptResult, error) {
	const op = "accept_task"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.repo.Load(ctx)
	idx := doc.FindTask(taskID)
	if idx < 0 {
		// The task leaves the open list once accepted, so a repeat by the same
		// influencer is reported as a conflict rather than a missing task.
		if doc.HasAccepted(taskID, influencer.ID) {
			s.metrics.ObserveOperation(op, observability.OutcomeConflict)
			return nil, ErrAlreadyAccepted
		}
		s.metrics.ObserveOperation(op, observability.OutcomeNotFound)
		return nil, ErrTaskNotFound
	}
	if doc.HasAccepted(taskID, influencer.ID) {
		s.metrics.ObserveOperation(op, observability.OutcomeConflict)
		return nil, ErrAlreadyAccepted
	}

	task := doc.Tasks[idx]
	now := s.now()

	doc.Accepted = append(doc.Accepted, domain.AcceptanceRecord{
		TaskID:     taskID,
		Influencer: influencer,
		AcceptedAt: now,
		Status:     domain.AcceptanceStatusAccepted,
	})
	doc.RemoveTask(taskID)
	doc.RecordIDs(taskID, 0)

	reward := task.Reward.Value()
	wallet := doc.WalletFor(influencer)
	tx := wallet.Credit(reward, fmt.Sprintf("task:%d", taskID), now)

	if err := s.repo.Save(ctx, doc); err != nil {
		s.metrics.ObserveOperation(op, observability.OutcomeError)
		s.logger.Error("failed to persist task acceptance", "task_id", taskID, "influencer_id", influencer.ID, "error", err)
		return nil, fmt.Errorf("accept task %d: %w", taskID, err)
	}

	s.metrics.ObserveOperation(op, observability.OutcomeOK)
	s.metrics.AddCredited(reward)
	s.logger.Info("task accepted", "task_id", taskID, "influencer_id", influencer.ID, "credited", reward, "balance", wallet.Balance)

	result := &domain.AcceptResult{
		Success:    true,
		TaskID:     taskID,
		Credited:   reward,
		NewBalance: wallet.Balance,
	}
	s.publish(ctx, EventTaskAccepted, now, map[string]interface{}{
		"taskId":      taskID,
		"influencer":  influencer,
		"transaction": tx,
		"newBalance":  wallet.Balance,
	})
	return result, nil
}

// ListCampaigns returns every campaign in creation order.
func (s *Service) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo.Load(ctx).Campaigns, nil
}

// CreateCampaign stores a live campaign and the task that puts it in the feed.
func (s *Service) CreateCampaign(ctx context.Context, req domain.CreateCampaignRequest) (*domain.CampaignResult, error) {
	const op = "create_campaign"
	if err := s.validate.StructCtx(ctx, req); err != nil {
		s.metrics.ObserveOperation(op, observability.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.repo.Load(ctx)
	now := s.now()

	campaign := domain.Campaign{
		ID:          doc.NextCampaignID(),
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
		Category:    req.Category,
		Location:    req.Location,
		Duration:    req.Duration,
		Brand:       req.Brand,
		CreatedAt:   now,
		Status:      domain.CampaignStatusLive,
	}
	if campaign.Brand == "" {
		campaign.Brand = req.BrandName
	}
	task := domain.Task{
		ID:          doc.NextTaskID(),
		Title:       req.Name,
		Description: req.Description,
		Brand:       req.TaskBrand(),
		Reward:      req.TaskReward(),
		Location:    req.Location,
		Deadline:    req.Duration,
		Category:    req.Category,
	}

	doc.Campaigns = append(doc.Campaigns, campaign)
	doc.Tasks = append(doc.Tasks, task)
	doc.RecordIDs(task.ID, campaign.ID)

	if err := s.repo.Save(ctx, doc); err != nil {
		s.metrics.ObserveOperation(op, observability.OutcomeError)
		s.logger.Error("failed to persist campaign", "campaign_id", campaign.ID, "error", err)
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	s.metrics.ObserveOperation(op, observability.OutcomeOK)
	s.logger.Info("campaign created", "campaign_id", campaign.ID, "task_id", task.ID)

	result := &domain.CampaignResult{Campaign: campaign, Task: task}
	s.publish(ctx, EventCampaignCreated, now, result)
	return result, nil
}

// GetWallet returns the influencer's wallet, or a zero wallet when there has been no activity.
func (s *Service) GetWallet(ctx context.Context, influencerID int64) (*domain.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.repo.Load(ctx)
	if w := doc.FindWallet(influencerID); w != nil {
		wallet := *w
		return &wallet, nil
	}
	return domain.EmptyWallet(influencerID), nil
}

// RequestPayout hands the payout to the gateway. Wallets are not debited.
func (s *Service) RequestPayout(ctx context.Context, req domain.PayoutRequest) (*domain.PayoutResult, error) {
	const op = "payout"
	if err := s.validate.StructCtx(ctx, req); err != nil {
		s.metrics.ObserveOperation(op, observability.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	txID, err := s.payouts.Payout(ctx, req.InfluencerID, req.Amount)
	if err != nil {
		s.metrics.ObserveOperation(op, observability.OutcomeError)
		s.logger.Error("payout gateway failed", "influencer_id", req.InfluencerID, "error", err)
		return nil, fmt.Errorf("payout: %w", err)
	}

	now := s.now()
	s.metrics.ObserveOperation(op, observability.OutcomeOK)
	s.logger.Info("payout requested", "influencer_id", req.InfluencerID, "amount", req.Amount, "tx_id", txID)

	result := &domain.PayoutResult{
		Success:      true,
		TxID:         txID,
		InfluencerID: req.InfluencerID,
		Amount:       req.Amount,
	}
	s.publish(ctx, EventPayoutRequested, now, payoutEvent{PayoutResult: *result, RequestedAt: now})
	return result, nil
}

// payoutEvent is the payout.requested payload. The HTTP response omits RequestedAt.
type payoutEvent struct {
	domain.PayoutResult
	RequestedAt time.Time `json:"requestedAt"`
}

// publish never fails the caller: the change is already saved.
func (s *Service) publish(ctx context.Context, eventType string, at time.Time, payload interface{}) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, eventType, rabbitmq.NewLedgerEvent(eventType, at, payload)); err != nil {
		s.logger.Warn("failed to publish ledger event", "event", eventType, "error", err)
	}
}
