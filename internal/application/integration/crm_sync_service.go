package integration

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xpro/backend/internal/domain/b2b"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Deal stages understood by the ecomm bridge pipeline
const (
	dealStagePending   = "checkout_pending"
	dealStageCompleted = "checkout_completed"
	dealStageAbandoned = "checkout_abandoned"
	dealStageProcessed = "processed"
)

const syncErrorPageSize = 200

// B2BDealIntegrationID returns the integrator object id for a bulk
// order deal, kept distinct from retail deal ids
func B2BDealIntegrationID(orderID uuid.UUID) string {
	return "B2B-" + orderID.String()
}

// CRMSyncService pushes users, products and orders to the CRM ecomm
// bridge as idempotent UPSERT messages. Failures surface to the caller,
// the event outbox retries them.
type CRMSyncService struct {
	userRepo     identity.UserRepository
	orderRepo    ecommerce.OrderRepository
	productRepo  ecommerce.ProductRepository
	b2bOrderRepo b2b.OrderRepository
	client       CRMClient
	logger       *zap.Logger

	// Guards lastErrorSweep; sweeps run from both the scheduler
	// worker and the admin trigger endpoint.
	sweepMu        sync.Mutex
	lastErrorSweep time.Time
}

// NewCRMSyncService creates a new CRMSyncService
func NewCRMSyncService(
	userRepo identity.UserRepository,
	orderRepo ecommerce.OrderRepository,
	productRepo ecommerce.ProductRepository,
	b2bOrderRepo b2b.OrderRepository,
	client CRMClient,
	logger *zap.Logger,
) *CRMSyncService {
	return &CRMSyncService{
		userRepo:       userRepo,
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		b2bOrderRepo:   b2bOrderRepo,
		client:         client,
		logger:         logger,
		lastErrorSweep: time.Now(),
	}
}

// SyncContact upserts one user as a CRM contact with their legal
// address flattened into contact properties
func (s *CRMSyncService) SyncContact(ctx context.Context, userID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "crm_sync", "sync_contact")
	defer span.End()
	span.SetAttributes(telemetry.AttrSyncObjectType.String(CRMObjectTypeContact))

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	message := s.contactMessage(user)
	return s.client.SyncObjects(ctx, CRMObjectTypeContact, []CRMSyncMessage{message})
}

// SyncProduct upserts one product using its latest version for the
// price and display name
func (s *CRMSyncService) SyncProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	message, ok := s.productMessage(product)
	if !ok {
		return shared.NewDomainError("INVALID_PRODUCT", "Product has no version to sync")
	}
	return s.client.SyncObjects(ctx, CRMObjectTypeProduct, []CRMSyncMessage{message})
}

// SyncOrder upserts a retail order as a deal plus one line item per
// order line
func (s *CRMSyncService) SyncOrder(ctx context.Context, orderID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "crm_sync", "sync_order")
	defer span.End()
	span.SetAttributes(telemetry.AttrSyncObjectType.String(CRMObjectTypeDeal))

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, order.PurchaserID)
	if err != nil {
		return err
	}

	listPrice := decimal.Zero
	lineMessages := make([]CRMSyncMessage, 0, len(order.Lines))
	for _, line := range order.Lines {
		version, err := s.productRepo.FindVersionByID(ctx, line.ProductVersionID)
		if err != nil {
			return err
		}
		linePrice := version.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		listPrice = listPrice.Add(linePrice)

		lineMessages = append(lineMessages, s.client.MakeSyncMessage(line.ID.String(), map[string]any{
			"order":    order.ID.String(),
			"product":  version.ProductID.String(),
			"name":     version.Description,
			"quantity": line.Quantity,
			"price":    version.Price.StringFixed(2),
		}))
	}

	discount := decimal.Zero
	if order.IsFulfilled() && listPrice.GreaterThan(order.TotalPaid) {
		discount = listPrice.Sub(order.TotalPaid)
	}

	dealMessage := s.client.MakeSyncMessage(order.ID.String(), map[string]any{
		"dealname":        "XPRO-ORDER-" + order.ID.String(),
		"dealstage":       retailDealStage(order.Status),
		"amount":          order.TotalPaid.StringFixed(2),
		"discount_amount": discount.StringFixed(2),
		"purchaser":       user.Email,
	})

	if err := s.client.SyncObjects(ctx, CRMObjectTypeDeal, []CRMSyncMessage{dealMessage}); err != nil {
		return err
	}
	return s.client.SyncObjects(ctx, CRMObjectTypeLineItem, lineMessages)
}

// SyncB2BOrder upserts a bulk enrollment order as a deal under the
// B2B integration id
func (s *CRMSyncService) SyncB2BOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.b2bOrderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	properties := map[string]any{
		"dealname":        "XPRO-B2B-ORDER-" + order.ID.String(),
		"dealstage":       b2bDealStage(order.Status),
		"amount":          order.TotalPrice.StringFixed(2),
		"num_seats":       order.NumSeats,
		"purchaser":       order.Email,
		"contract_number": order.ContractNumber,
	}
	if order.DiscountAmount != nil {
		properties["discount_amount"] = order.DiscountAmount.StringFixed(2)
	}

	message := s.client.MakeSyncMessage(B2BDealIntegrationID(order.ID), properties)
	return s.client.SyncObjects(ctx, CRMObjectTypeDeal, []CRMSyncMessage{message})
}

// SyncAllContacts pushes every user to the CRM, paging through the
// user table. Used by the admin full-sync trigger.
func (s *CRMSyncService) SyncAllContacts(ctx context.Context) (int, error) {
	synced := 0
	filter := shared.Filter{Page: 1, PageSize: 100}
	for {
		users, err := s.userRepo.FindAll(ctx, filter)
		if err != nil {
			return synced, err
		}
		if len(users) == 0 {
			return synced, nil
		}

		messages := make([]CRMSyncMessage, len(users))
		for i := range users {
			messages[i] = s.contactMessage(&users[i])
		}
		if err := s.client.SyncObjects(ctx, CRMObjectTypeContact, messages); err != nil {
			return synced, err
		}
		synced += len(users)

		if len(users) < filter.PageSize {
			return synced, nil
		}
		filter.Page++
	}
}

// SyncAllProducts pushes every visible product to the CRM
func (s *CRMSyncService) SyncAllProducts(ctx context.Context) (int, error) {
	synced := 0
	filter := shared.Filter{Page: 1, PageSize: 100}
	for {
		products, err := s.productRepo.FindVisible(ctx, filter)
		if err != nil {
			return synced, err
		}
		if len(products) == 0 {
			return synced, nil
		}

		messages := make([]CRMSyncMessage, 0, len(products))
		for i := range products {
			if message, ok := s.productMessage(&products[i]); ok {
				messages = append(messages, message)
			}
		}
		if err := s.client.SyncObjects(ctx, CRMObjectTypeProduct, messages); err != nil {
			return synced, err
		}
		synced += len(messages)

		if len(products) < filter.PageSize {
			return synced, nil
		}
		filter.Page++
	}
}

// SweepSyncErrors polls the bridge for sync errors reported since the
// last sweep, logs each one and re-queues deals and contacts whose
// integrator id still resolves. Runs on a schedule.
func (s *CRMSyncService) SweepSyncErrors(ctx context.Context) (int, error) {
	s.sweepMu.Lock()
	since := s.lastErrorSweep.UnixMilli()
	s.lastErrorSweep = time.Now()
	s.sweepMu.Unlock()

	seen := 0
	offset := 0
	for {
		syncErrors, total, err := s.client.GetSyncErrors(ctx, since, syncErrorPageSize, offset)
		if err != nil {
			return seen, err
		}

		for _, syncErr := range syncErrors {
			seen++
			s.logger.Warn("crm sync error",
				zap.String("object_type", syncErr.ObjectType),
				zap.String("integrator_object_id", syncErr.IntegratorObjectID),
				zap.String("type", syncErr.Type),
				zap.String("details", syncErr.Details),
			)
			s.requeue(ctx, syncErr)
		}

		offset += syncErrorPageSize
		if offset >= total || len(syncErrors) == 0 {
			return seen, nil
		}
	}
}

// requeue retries the object named by a sync error. A failed retry is
// logged and left for the next sweep.
func (s *CRMSyncService) requeue(ctx context.Context, syncErr CRMSyncError) {
	var err error
	switch syncErr.ObjectType {
	case CRMObjectTypeContact:
		var userID uuid.UUID
		if userID, err = uuid.Parse(syncErr.IntegratorObjectID); err == nil {
			err = s.SyncContact(ctx, userID)
		}
	case CRMObjectTypeDeal:
		if b2bID, ok := cutB2BPrefix(syncErr.IntegratorObjectID); ok {
			var orderID uuid.UUID
			if orderID, err = uuid.Parse(b2bID); err == nil {
				err = s.SyncB2BOrder(ctx, orderID)
			}
		} else {
			var orderID uuid.UUID
			if orderID, err = uuid.Parse(syncErr.IntegratorObjectID); err == nil {
				err = s.SyncOrder(ctx, orderID)
			}
		}
	case CRMObjectTypeProduct:
		var productID uuid.UUID
		if productID, err = uuid.Parse(syncErr.IntegratorObjectID); err == nil {
			err = s.SyncProduct(ctx, productID)
		}
	default:
		return
	}

	if err != nil {
		s.logger.Error("crm sync retry failed",
			zap.String("object_type", syncErr.ObjectType),
			zap.String("integrator_object_id", syncErr.IntegratorObjectID),
			zap.Error(err),
		)
	}
}

func (s *CRMSyncService) contactMessage(user *identity.User) CRMSyncMessage {
	return s.client.MakeSyncMessage(user.ID.String(), map[string]any{
		"email":          user.Email,
		"name":           user.Name,
		"username":       user.Username,
		"street_address": user.StreetAddress,
		"city":           user.City,
		"state":          user.State,
		"country":        user.Country,
		"postal_code":    user.PostalCode,
	})
}

func (s *CRMSyncService) productMessage(product *ecommerce.Product) (CRMSyncMessage, bool) {
	version := product.LatestVersion()
	if version == nil {
		return CRMSyncMessage{}, false
	}
	return s.client.MakeSyncMessage(product.ID.String(), map[string]any{
		"name":  version.Description,
		"price": version.Price.StringFixed(2),
		"type":  string(product.Type),
	}), true
}

func retailDealStage(status ecommerce.OrderStatus) string {
	switch status {
	case ecommerce.OrderStatusFulfilled:
		return dealStageCompleted
	case ecommerce.OrderStatusFailed:
		return dealStageAbandoned
	case ecommerce.OrderStatusRefunded:
		return dealStageProcessed
	default:
		return dealStagePending
	}
}

func b2bDealStage(status b2b.OrderStatus) string {
	switch status {
	case b2b.OrderStatusFulfilled:
		return dealStageCompleted
	case b2b.OrderStatusFailed:
		return dealStageAbandoned
	case b2b.OrderStatusRefunded:
		return dealStageProcessed
	default:
		return dealStagePending
	}
}

func cutB2BPrefix(integrationID string) (string, bool) {
	const prefix = "B2B-"
	if len(integrationID) > len(prefix) && integrationID[:len(prefix)] == prefix {
		return integrationID[len(prefix):], true
	}
	return "", false
}
