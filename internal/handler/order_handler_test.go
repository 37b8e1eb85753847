package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const orderPayload = `{
	"shippingAddress": {"name":"Jamie Doe","phone":"555-0100","street":"1 Main St","city":"Springfield","state":"IL","zipCode":"62701","country":"US"},
	"paymentMethod": "credit_card"
}`

func TestOrderHandlerCreate(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	userID := uuid.New()
	order := &model.Order{ID: uuid.New(), UserID: userID, OrderNumber: "ORD-1724800000000-1"}
	svc.On("Create", mock.Anything, userID, mock.AnythingOfType("*model.CreateOrderRequest")).Return(order, nil)

	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(orderPayload)), userID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Order placed successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "ORD-1724800000000-1", data["orderNumber"])
}

func TestOrderHandlerCreateInsufficientStock(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	userID := uuid.New()
	svc.On("Create", mock.Anything, userID, mock.Anything).
		Return(nil, &model.InsufficientStockError{ProductName: "Denim Jacket", Available: 3})

	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(orderPayload)), userID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["error"])
	assert.Equal(t, "Insufficient stock for Denim Jacket. Only 3 available", body["message"])
}

func TestOrderHandlerCreateEmptyCart(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	userID := uuid.New()
	svc.On("Create", mock.Anything, userID, mock.Anything).Return(nil, model.ErrCartEmpty)

	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(orderPayload)), userID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandlerList(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	userID := uuid.New()
	expected := model.OrderFilter{Status: "pending", Page: 1, Limit: 10}
	svc.On("ListByUser", mock.Anything, userID, expected).Return([]model.Order{{ID: uuid.New()}}, 1, nil)

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/orders?status=pending", nil), userID)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.EqualValues(t, 1, body["count"])
	assert.EqualValues(t, 1, body["total"])
}

func TestOrderHandlerListAll(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	expected := model.OrderFilter{Page: 2, Limit: 25}
	svc.On("ListAll", mock.Anything, expected).Return([]model.Order{}, 60, nil)

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/api/orders/all?page=2&limit=25", nil), uuid.New())
	rec := httptest.NewRecorder()
	h.ListAll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.EqualValues(t, 60, body["total"])
	assert.EqualValues(t, 3, body["pages"])
}

func TestOrderHandlerGetByID(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	userID := uuid.New()
	order := &model.Order{ID: uuid.New(), UserID: userID}
	svc.On("GetByID", mock.Anything, model.Actor{ID: userID, Role: model.RoleCustomer}, order.ID).Return(order, nil)

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID.String(), nil), userID)
	req.SetPathValue("id", order.ID.String())
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrderHandlerGetByIDForbidden(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	userID := uuid.New()
	orderID := uuid.New()
	svc.On("GetByID", mock.Anything, mock.Anything, orderID).Return(nil, model.ErrNotAuthorised)

	req := asCustomer(httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil), userID)
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()
	h.GetByID(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "FORBIDDEN", body["error"])
}

func TestOrderHandlerUpdateStatus(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	orderID := uuid.New()
	order := &model.Order{ID: orderID, Status: model.StatusShipped}
	svc.On("UpdateStatus", mock.Anything, orderID, model.StatusShipped).Return(order, nil)

	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"shipped"}`)), uuid.New())
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrderHandlerUpdateStatusIllegalTransition(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	orderID := uuid.New()
	svc.On("UpdateStatus", mock.Anything, orderID, model.StatusShipped).
		Return(nil, model.NewDomainError(model.ErrCodeInvalidState, "Cannot change order status from delivered to shipped"))

	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"shipped"}`)), uuid.New())
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_STATE", body["error"])
}

func TestOrderHandlerUpdateStatusMissingStatus(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	orderID := uuid.New()
	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{}`)), uuid.New())
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandlerCancel(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	userID := uuid.New()
	orderID := uuid.New()
	order := &model.Order{ID: orderID, Status: model.StatusCancelled}
	svc.On("Cancel", mock.Anything, model.Actor{ID: userID, Role: model.RoleCustomer}, orderID, "Found a better price").Return(order, nil)

	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/orders/"+orderID.String()+"/cancel", strings.NewReader(`{"reason":"Found a better price"}`)), userID)
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Order cancelled", body["message"])
}

func TestOrderHandlerCancelDefaultsReason(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	userID := uuid.New()
	orderID := uuid.New()
	svc.On("Cancel", mock.Anything, mock.Anything, orderID, "Cancelled by customer").
		Return(&model.Order{ID: orderID, Status: model.StatusCancelled}, nil)

	// No body at all still cancels with the default reason.
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/orders/"+orderID.String()+"/cancel", nil), userID)
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
