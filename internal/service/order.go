package service

import (
	"context"
	"time"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/internal/model"
	"lumo-assistant-api/pkg/uid"

	"go.uber.org/zap"
)

// Order progression offsets from placement time. Reads recompute the
// status from elapsed time; nothing advances orders in the background.
var orderStages = []struct {
	after  time.Duration
	status string
}{
	{30 * time.Minute, model.OrderDelivered},
	{15 * time.Minute, model.OrderDelivering},
	{5 * time.Minute, model.OrderPreparing},
	{2 * time.Minute, model.OrderConfirmed},
}

// OrderService simulates food orders entirely inside the cache: the
// order entity carries a 24h TTL and a capped per-user register indexes
// it. There is no durable copy; an expired order is simply gone.
type OrderService struct {
	orders *cache.EntityStore
	index  *cache.IndexList
	log    *zap.Logger
	now    func() time.Time
}

// NewOrderService creates an order service.
func NewOrderService(orders *cache.EntityStore, index *cache.IndexList, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, index: index, log: log, now: time.Now}
}

// OrderInput carries the fields accepted when placing an order.
type OrderInput struct {
	Restaurant string
	Items      []model.OrderItem
}

// Place creates a new simulated order.
func (s *OrderService) Place(ctx context.Context, userID string, in OrderInput) (*model.Order, error) {
	var total float64
	for _, item := range in.Items {
		total += item.Price * float64(item.Quantity)
	}

	o := &model.Order{
		ID:         uid.New(),
		UserID:     userID,
		Restaurant: in.Restaurant,
		Items:      in.Items,
		Total:      total,
		Status:     model.OrderPlaced,
		PlacedAt:   s.now().UTC(),
	}

	if !s.orders.Save(ctx, o.ID, o) {
		return nil, ErrUnavailable
	}
	s.index.Add(ctx, userID, o.ID)

	s.log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", userID),
		zap.Float64("total", total))
	return o, nil
}

// Get loads an order and advances its simulated status.
func (s *OrderService) Get(ctx context.Context, userID, id string) (*model.Order, error) {
	var o model.Order
	if !s.orders.Load(ctx, id, &o) || o.UserID != userID {
		return nil, ErrNotFound
	}
	s.advance(ctx, &o)
	return &o, nil
}

// List returns the user's recent orders, newest first. IDs whose
// entity expired before the register did are skipped.
func (s *OrderService) List(ctx context.Context, userID string) []model.Order {
	ids := s.index.IDs(ctx, userID)
	orders := make([]model.Order, 0, len(ids))
	for _, id := range ids {
		var o model.Order
		if !s.orders.Load(ctx, id, &o) {
			continue
		}
		s.advance(ctx, &o)
		orders = append(orders, o)
	}
	return orders
}

// Cancel marks an order cancelled; allowed until it leaves the kitchen.
func (s *OrderService) Cancel(ctx context.Context, userID, id string) (*model.Order, error) {
	o, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	switch o.Status {
	case model.OrderPlaced, model.OrderConfirmed, model.OrderPreparing:
		o.Status = model.OrderCancelled
		if !s.orders.Save(ctx, o.ID, o) {
			return nil, ErrUnavailable
		}
		return o, nil
	default:
		return nil, ErrConflict
	}
}

// advance recomputes the status from elapsed time and re-stores the
// order when it moved to a new stage.
func (s *OrderService) advance(ctx context.Context, o *model.Order) {
	if o.Status == model.OrderCancelled || o.Status == model.OrderDelivered {
		return
	}

	elapsed := s.now().UTC().Sub(o.PlacedAt)
	for _, stage := range orderStages {
		if elapsed >= stage.after {
			if o.Status != stage.status {
				o.Status = stage.status
				s.orders.Save(ctx, o.ID, o)
			}
			return
		}
	}
}
