package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an order with its lines preloaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Order, error) {
	var order ecommerce.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByPurchaser finds a user's orders
func (r *GormOrderRepository) FindByPurchaser(ctx context.Context, purchaserID uuid.UUID, filter shared.Filter) ([]ecommerce.Order, error) {
	var orders []ecommerce.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ecommerce.Order{}).Where("purchaser_id = ?", purchaserID),
		filter,
	)
	if err := query.Preload("Lines").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order and its lines. Pending domain
// events are written to the outbox within the same transaction.
func (r *GormOrderRepository) Save(ctx context.Context, order *ecommerce.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error; err != nil {
			return err
		}
		if r.outboxSaver != nil {
			if events := order.GetDomainEvents(); len(events) > 0 {
				return r.outboxSaver.SaveEvents(ctx, tx, events...)
			}
		}
		return nil
	})
}

// SaveReceipt persists a gateway receipt
func (r *GormOrderRepository) SaveReceipt(ctx context.Context, receipt *ecommerce.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

// SaveAudit persists an order audit snapshot
func (r *GormOrderRepository) SaveAudit(ctx context.Context, record *shared.AuditRecord) error {
	return r.db.WithContext(ctx).Table("order_audits").Create(record).Error
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter, OrderSortFields)
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		}
	}
	return query
}

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*ecommerce.Company, error) {
	var company ecommerce.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindByName finds a company by its name
func (r *GormCompanyRepository) FindByName(ctx context.Context, name string) (*ecommerce.Company, error) {
	var company ecommerce.Company
	if err := r.db.WithContext(ctx).First(&company, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindAll lists all companies
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ecommerce.Company, error) {
	var companies []ecommerce.Company
	query := r.db.WithContext(ctx).Model(&ecommerce.Company{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	query = applyPaginationAndOrder(query, filter, CompanySortFields)
	if err := query.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *ecommerce.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

var (
	_ ecommerce.OrderRepository   = (*GormOrderRepository)(nil)
	_ ecommerce.CompanyRepository = (*GormCompanyRepository)(nil)
)
