package checkout

import (
	"context"
	"fmt"

	"github.com/erp/checkout-fields/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline dispatches the checkout lifecycle stages over registered
// extensions: field registration at startup, validation on every submission
// pass and order synchronization after the host stores submitted values.
type Pipeline struct {
	manager *ExtensionManager
	store   OrderStore
	logger  *zap.Logger
}

// NewPipeline creates a pipeline over the given extension manager and store
func NewPipeline(manager *ExtensionManager, store OrderStore, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		manager: manager,
		store:   store,
		logger:  logger,
	}
}

// RegisterFields runs the registration stage for every extension
func (p *Pipeline) RegisterFields(registry FieldRegistry, locales LocaleFilterRegistry) error {
	for _, ext := range p.manager.All() {
		if err := ext.RegisterFields(registry, locales); err != nil {
			return fmt.Errorf("extension %s: register fields: %w", ext.Name(), err)
		}
		p.logger.Debug("checkout fields registered", zap.String("extension", ext.Name()))
	}
	return nil
}

// Validate runs the validation stage and returns the collected field errors
func (p *Pipeline) Validate(ctx context.Context, sub *Submission) (*FieldErrors, error) {
	errs := NewFieldErrors()
	for _, ext := range p.manager.All() {
		if err := ext.ValidateSubmission(ctx, sub, errs); err != nil {
			return nil, fmt.Errorf("extension %s: validate submission: %w", ext.Name(), err)
		}
	}
	return errs, nil
}

// UpdateOrder loads the order and runs the synchronization stage
func (p *Pipeline) UpdateOrder(ctx context.Context, orderID uuid.UUID, sub *Submission) error {
	if p.store == nil {
		return fmt.Errorf("%w: pipeline has no order store", shared.ErrInvalidState)
	}

	order, err := p.store.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	for _, ext := range p.manager.All() {
		if err := ext.SyncOrder(ctx, order, sub); err != nil {
			return fmt.Errorf("extension %s: sync order: %w", ext.Name(), err)
		}
	}
	return nil
}
