package persistence

import (
	"context"
	"errors"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"github.com/erp/checkout-fields/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderStore implements checkout.OrderStore using GORM
type GormOrderStore struct {
	db *gorm.DB
}

// NewGormOrderStore creates a new GormOrderStore
func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

// FindByID loads an order with its metadata and additional-field entries
func (s *GormOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Order, error) {
	var model OrderModel
	if err := s.db.WithContext(ctx).
		Preload("Meta").
		Preload("Fields").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber loads an order by its order number
func (s *GormOrderStore) FindByNumber(ctx context.Context, number string) (*checkout.Order, error) {
	var model OrderModel
	if err := s.db.WithContext(ctx).
		Preload("Meta").
		Preload("Fields").
		First(&model, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists the order, its metadata and its additional-field entries in
// one transaction. Meta and field rows are replaced wholesale so deletions
// on the aggregate take effect.
func (s *GormOrderStore) Save(ctx context.Context, order *checkout.Order) error {
	if order == nil {
		return shared.ErrInvalidInput
	}

	model := orderModelFromDomain(order)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Meta", "Fields").
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Create(&OrderModel{
				ID:              model.ID,
				Number:          model.Number,
				Total:           model.Total,
				BillingCompany:  model.BillingCompany,
				ShippingCompany: model.ShippingCompany,
				CreatedAt:       model.CreatedAt,
				UpdatedAt:       model.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", model.ID).Delete(&OrderMetaModel{}).Error; err != nil {
			return err
		}
		if len(model.Meta) > 0 {
			if err := tx.Create(&model.Meta).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("order_id = ?", model.ID).Delete(&OrderFieldModel{}).Error; err != nil {
			return err
		}
		if len(model.Fields) > 0 {
			if err := tx.Create(&model.Fields).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
