package ecommerce

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/domain/ecommerce"
	"github.com/xpro/backend/internal/domain/shared"
)

type fulfillmentServiceMocks struct {
	orderRepo  *MockOrderRepository
	basketRepo *MockBasketRepository
	gateway    *MockPaymentGateway
	publisher  *MockEventPublisher
}

func newTestFulfillmentService() (*FulfillmentService, *fulfillmentServiceMocks) {
	m := &fulfillmentServiceMocks{
		orderRepo:  new(MockOrderRepository),
		basketRepo: new(MockBasketRepository),
		gateway:    new(MockPaymentGateway),
		publisher:  new(MockEventPublisher),
	}
	service := NewFulfillmentService(m.orderRepo, m.basketRepo, m.gateway)
	service.SetEventPublisher(m.publisher)
	return service, m
}

func acceptForm(reference string) map[string]string {
	return map[string]string{
		"decision":             "ACCEPT",
		"req_reference_number": reference,
		"req_amount":           "950.00",
		"transaction_id":       "6612345678901234567890",
	}
}

func TestFulfillmentService_HandlePostback_Accept(t *testing.T) {
	service, m := newTestFulfillmentService()
	ctx := context.Background()

	order := ecommerce.NewOrder(uuid.New())
	require.NoError(t, order.AddLine(uuid.New(), 1))
	form := acceptForm("xpro-1-" + order.ID.String())

	selectedRun := uuid.New()
	basket := ecommerce.NewBasket(order.PurchaserID)
	basket.ReplaceItem(uuid.New(), 1)
	basket.SelectRuns([]uuid.UUID{selectedRun})

	m.gateway.On("VerifyPostback", form).Return(nil)
	m.gateway.On("ParseReferenceID", form["req_reference_number"]).Return(order.ID, false, nil)
	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("SaveReceipt", ctx, mock.MatchedBy(func(r *ecommerce.Receipt) bool {
		return r.OrderID != nil && *r.OrderID == order.ID
	})).Return(nil)
	m.orderRepo.On("Save", ctx, order).Return(nil)
	m.orderRepo.On("SaveAudit", ctx, mock.AnythingOfType("*shared.AuditRecord")).Return(nil)
	m.basketRepo.On("FindByUser", ctx, order.PurchaserID).Return(basket, nil)
	m.basketRepo.On("Save", ctx, basket).Return(nil)
	m.publisher.On("Publish", ctx, mock.MatchedBy(func(e shared.DomainEvent) bool {
		fulfilled, ok := e.(*ecommerce.OrderFulfilledEvent)
		return ok && len(fulfilled.RunIDs) == 1 && fulfilled.RunIDs[0] == selectedRun
	})).Return(nil)

	err := service.HandlePostback(ctx, form)

	require.NoError(t, err)
	assert.True(t, order.IsFulfilled())
	assert.True(t, order.TotalPaid.Equal(decimal.RequireFromString("950.00")))
	assert.True(t, basket.IsEmpty())
	m.orderRepo.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestFulfillmentService_HandlePostback_DeclineFailsOrder(t *testing.T) {
	service, m := newTestFulfillmentService()
	ctx := context.Background()

	order := ecommerce.NewOrder(uuid.New())
	form := map[string]string{
		"decision":             "DECLINE",
		"req_reference_number": "xpro-1-" + order.ID.String(),
	}

	m.gateway.On("VerifyPostback", form).Return(nil)
	m.gateway.On("ParseReferenceID", form["req_reference_number"]).Return(order.ID, false, nil)
	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("SaveReceipt", ctx, mock.AnythingOfType("*ecommerce.Receipt")).Return(nil)
	m.orderRepo.On("Save", ctx, order).Return(nil)
	m.orderRepo.On("SaveAudit", ctx, mock.AnythingOfType("*shared.AuditRecord")).Return(nil)
	m.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	err := service.HandlePostback(ctx, form)

	require.NoError(t, err)
	assert.Equal(t, ecommerce.OrderStatusFailed, order.Status)
	m.basketRepo.AssertNotCalled(t, "FindByUser", mock.Anything, mock.Anything)
}

func TestFulfillmentService_HandlePostback_CancelRetryIsIdempotent(t *testing.T) {
	service, m := newTestFulfillmentService()
	ctx := context.Background()

	order := ecommerce.NewOrder(uuid.New())
	require.NoError(t, order.Fail())
	order.ClearDomainEvents()
	form := map[string]string{
		"decision":             "CANCEL",
		"req_reference_number": "xpro-1-" + order.ID.String(),
	}

	m.gateway.On("VerifyPostback", form).Return(nil)
	m.gateway.On("ParseReferenceID", form["req_reference_number"]).Return(order.ID, false, nil)
	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("SaveReceipt", ctx, mock.AnythingOfType("*ecommerce.Receipt")).Return(nil)

	err := service.HandlePostback(ctx, form)

	require.NoError(t, err)
	m.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFulfillmentService_HandlePostback_AcceptOnSettledOrder(t *testing.T) {
	service, m := newTestFulfillmentService()
	ctx := context.Background()

	order := ecommerce.NewOrder(uuid.New())
	require.NoError(t, order.Fulfill(decimal.NewFromInt(950), nil))
	order.ClearDomainEvents()
	form := acceptForm("xpro-1-" + order.ID.String())

	m.gateway.On("VerifyPostback", form).Return(nil)
	m.gateway.On("ParseReferenceID", form["req_reference_number"]).Return(order.ID, false, nil)
	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("SaveReceipt", ctx, mock.AnythingOfType("*ecommerce.Receipt")).Return(nil)

	err := service.HandlePostback(ctx, form)

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	m.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFulfillmentService_HandlePostback_BadSignature(t *testing.T) {
	service, m := newTestFulfillmentService()
	ctx := context.Background()

	form := map[string]string{"decision": "ACCEPT"}
	m.gateway.On("VerifyPostback", form).Return(shared.ErrUnauthorized)

	err := service.HandlePostback(ctx, form)

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	m.orderRepo.AssertNotCalled(t, "SaveReceipt", mock.Anything, mock.Anything)
}

func TestFulfillmentService_HandlePostback_B2BReferenceRejected(t *testing.T) {
	service, m := newTestFulfillmentService()
	ctx := context.Background()

	form := acceptForm("xpro-b2b-1-" + uuid.NewString())
	m.gateway.On("VerifyPostback", form).Return(nil)
	m.gateway.On("ParseReferenceID", form["req_reference_number"]).Return(uuid.New(), true, nil)

	err := service.HandlePostback(ctx, form)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REFERENCE", domainErr.Code)
	m.orderRepo.AssertNotCalled(t, "SaveReceipt", mock.Anything, mock.Anything)
}

func TestFulfillmentService_Refund(t *testing.T) {
	service, m := newTestFulfillmentService()
	ctx := context.Background()
	actorID := uuid.New()

	order := ecommerce.NewOrder(uuid.New())
	require.NoError(t, order.Fulfill(decimal.NewFromInt(950), nil))
	order.ClearDomainEvents()

	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	m.orderRepo.On("Save", ctx, order).Return(nil)
	m.orderRepo.On("SaveAudit", ctx, mock.MatchedBy(func(r *shared.AuditRecord) bool {
		return r.ActorID != nil && *r.ActorID == actorID
	})).Return(nil)
	m.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := service.Refund(ctx, order.ID, actorID)

	require.NoError(t, err)
	assert.Equal(t, string(ecommerce.OrderStatusRefunded), resp.Status)
	m.orderRepo.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestFulfillmentService_Refund_CreatedOrder(t *testing.T) {
	service, m := newTestFulfillmentService()
	ctx := context.Background()

	order := ecommerce.NewOrder(uuid.New())
	m.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	resp, err := service.Refund(ctx, order.ID, uuid.New())

	assert.Nil(t, resp)
	require.Error(t, err)
	m.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
