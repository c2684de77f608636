package service

import (
	"context"
	"time"

	"crm-service/internal/broker"
	"crm-service/internal/models"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService orchestrates the composite order transaction and the
// surrounding concerns: metrics, tracing, and best-effort domain events.
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service. eventPublisher may be
// nil, in which case no events are published.
func NewOrderService(store *store.Store, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateOrder runs the composite create. Items referencing unknown
// products come back missing from the result rather than as an error;
// the drop is logged and counted but deliberately not surfaced.
func (s *OrderService) CreateOrder(ctx context.Context, fields map[string]any) (*models.CreatedOrder, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	requested := 0
	if items, ok := fields["items"].([]any); ok {
		requested = len(items)
	}

	created, err := s.store.CreateOrder(ctx, fields)
	if err != nil {
		util.WriteFailuresTotal.WithLabelValues("order").Inc()
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	if dropped := requested - len(created.Items); dropped > 0 {
		util.OrderItemsDroppedTotal.Add(float64(dropped))
		s.logger.Warn("Order items dropped for unknown products",
			zap.Int64("order_id", created.ID),
			zap.Int("dropped", dropped))
	}
	s.logger.Info("Order created",
		zap.Int64("order_id", created.ID),
		zap.Int64("total_cents", created.TotalCents),
		zap.Int("items", len(created.Items)))

	s.publishOrderCreated(ctx, created)
	return created, nil
}

// GetOrder retrieves an order with its joined items
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.OrderDetail, error) {
	return s.store.GetOrder(ctx, id)
}

// UpdateOrder applies a partial update and publishes a status-change
// event when the input carried a status.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, fields map[string]any) (*models.Order, error) {
	order, err := s.store.UpdateOrder(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	if _, ok := fields["status"]; ok {
		s.publish(ctx, "OrderStatusChanged", func(ctx context.Context) error {
			return s.eventPublisher.PublishOrderStatusChanged(ctx, &models.OrderStatusChangedEvent{
				BaseEvent: newBaseEvent(models.EventTypeOrderStatusChanged),
				OrderID:   order.ID,
				Status:    order.Status,
			})
		})
	}
	return order, nil
}

// DeleteOrder deletes an order and publishes the deletion. The delete is
// idempotent; the event fires whether or not a row existed, matching the
// delete contract.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "OrderDeleted", func(ctx context.Context) error {
		return s.eventPublisher.PublishOrderDeleted(ctx, &models.OrderDeletedEvent{
			BaseEvent: newBaseEvent(models.EventTypeOrderDeleted),
			OrderID:   id,
		})
	})
	return nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, created *models.CreatedOrder) {
	s.publish(ctx, "OrderCreated", func(ctx context.Context) error {
		return s.eventPublisher.PublishOrderCreated(ctx, &models.OrderCreatedEvent{
			BaseEvent:  newBaseEvent(models.EventTypeOrderCreated),
			OrderID:    created.ID,
			CustomerID: created.CustomerID,
			TotalCents: created.TotalCents,
			Items:      created.Items,
		})
	})
}

// publish runs a publishing func best-effort: a nil publisher skips it
// and failures are logged, never returned.
func (s *OrderService) publish(ctx context.Context, name string, fn func(context.Context) error) {
	if s.eventPublisher == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Error("Failed to publish "+name+" event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
