package persistence

import (
	"time"

	"github.com/erp/checkout-fields/internal/domain/checkout"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the checkout Order aggregate
type OrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Total           decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	BillingCompany  string          `gorm:"type:varchar(200)"`
	ShippingCompany string          `gorm:"type:varchar(200)"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`

	Meta   []OrderMetaModel  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Fields []OrderFieldModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for OrderModel
func (OrderModel) TableName() string {
	return "checkout_orders"
}

// OrderMetaModel is one metadata key/value pair on an order
type OrderMetaModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_meta_key,priority:1"`
	MetaKey   string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_order_meta_key,priority:2"`
	MetaValue string    `gorm:"type:text"`
}

// TableName returns the table name for OrderMetaModel
func (OrderMetaModel) TableName() string {
	return "checkout_order_meta"
}

// OrderFieldModel is one generic additional-field entry on an order, keyed
// by storage group and field identifier
type OrderFieldModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_field,priority:1"`
	FieldGroup string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_order_field,priority:2"`
	FieldID    string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_order_field,priority:3"`
	Value      string    `gorm:"type:text"`
}

// TableName returns the table name for OrderFieldModel
func (OrderFieldModel) TableName() string {
	return "checkout_order_fields"
}

// ToDomain converts the persistence model to the domain aggregate
func (m *OrderModel) ToDomain() *checkout.Order {
	meta := make(map[string]string, len(m.Meta))
	for _, entry := range m.Meta {
		meta[entry.MetaKey] = entry.MetaValue
	}

	fields := make(map[checkout.FieldGroup]map[string]string)
	for _, entry := range m.Fields {
		group := checkout.FieldGroup(entry.FieldGroup)
		if fields[group] == nil {
			fields[group] = make(map[string]string)
		}
		fields[group][entry.FieldID] = entry.Value
	}

	return checkout.RehydrateOrder(
		m.ID, m.Number, m.Total,
		m.BillingCompany, m.ShippingCompany,
		meta, fields,
		m.CreatedAt, m.UpdatedAt,
	)
}

// orderModelFromDomain builds the persistence model for an order, including
// its meta and field rows
func orderModelFromDomain(o *checkout.Order) *OrderModel {
	m := &OrderModel{
		ID:              o.ID,
		Number:          o.Number,
		Total:           o.Total,
		BillingCompany:  o.BillingCompany,
		ShippingCompany: o.ShippingCompany,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}

	for key, value := range o.Metadata() {
		m.Meta = append(m.Meta, OrderMetaModel{
			OrderID:   o.ID,
			MetaKey:   key,
			MetaValue: value,
		})
	}

	for group, entries := range o.AdditionalFields() {
		for fieldID, value := range entries {
			m.Fields = append(m.Fields, OrderFieldModel{
				OrderID:    o.ID,
				FieldGroup: string(group),
				FieldID:    fieldID,
				Value:      value,
			})
		}
	}

	return m
}
