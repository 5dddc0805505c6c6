package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/audit"
	"github.com/ekoelbar/barclient/internal/barapi"
	"github.com/ekoelbar/barclient/internal/cart"
	"github.com/ekoelbar/barclient/internal/domain"
	"github.com/ekoelbar/barclient/internal/validation"
	"github.com/ekoelbar/barclient/pkg/errors"
)

// OrderAPI is the part of the bar backend the order page talks to
type OrderAPI interface {
	CreateOrder(ctx context.Context, req barapi.CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	GetOrderLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error)
	AddBeerToOrder(ctx context.Context, orderID int64, req barapi.AddBeerRequest) (*domain.Order, error)
	ConfirmOrder(ctx context.Context, id int64) (*domain.Order, error)
	PayOrder(ctx context.Context, id int64) (*domain.Order, error)
	CompleteOrder(ctx context.Context, id int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, id int64) (*domain.Order, error)
}

// Cart is what the order page needs from the cart store
type Cart interface {
	Lines() []cart.Line
	Clear(ctx context.Context)
}

// OrderState is a copy of everything the order page renders
type OrderState struct {
	Order       *domain.Order      `json:"order"`
	Lines       []domain.OrderLine `json:"lines"`
	Loading     bool               `json:"loading"`
	Error       string             `json:"error,omitempty"`
	Success     string             `json:"success,omitempty"`
	CanAddBeers bool               `json:"canAddBeers"`
	CanConfirm  bool               `json:"canConfirm"`
	CanPay      bool               `json:"canPay"`
	CanComplete bool               `json:"canComplete"`
	CanCancel   bool               `json:"canCancel"`
}

// OrderService drives one customer's order through the backend. It never
// decides an order's status or price itself; every snapshot it holds is one
// the backend returned.
type OrderService struct {
	api    OrderAPI
	cart   Cart
	sink   audit.Sink
	logger *zap.Logger

	mu      sync.Mutex
	order   *domain.Order
	lines   []domain.OrderLine
	loading bool
	errMsg  string
	success string
}

// NewOrderService creates a new order service
func NewOrderService(api OrderAPI, c Cart, sink audit.Sink, logger *zap.Logger) *OrderService {
	return &OrderService{
		api:    api,
		cart:   c,
		sink:   sink,
		logger: logger,
	}
}

// State returns a snapshot for rendering
func (s *OrderService) State() OrderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := OrderState{
		Lines:   append([]domain.OrderLine(nil), s.lines...),
		Loading: s.loading,
		Error:   s.errMsg,
		Success: s.success,
	}
	if s.order != nil {
		o := *s.order
		st.Order = &o
		st.CanAddBeers = o.Status == domain.OrderStatusCreated
		st.CanConfirm = o.Status.CanTransitionTo(domain.OrderStatusConfirmed)
		st.CanPay = o.Status.CanTransitionTo(domain.OrderStatusPaid)
		st.CanComplete = o.Status.CanTransitionTo(domain.OrderStatusCompleted)
		st.CanCancel = o.Status.CanTransitionTo(domain.OrderStatusCancelled)
	}
	return st
}

// Reset forgets the current order. Responses still in flight for it are
// dropped when they arrive.
func (s *OrderService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.lines = nil
	s.loading = false
	s.errMsg = ""
	s.success = ""
}

// CreateOrder validates the age, creates an order and moves the cart into it
func (s *OrderService) CreateOrder(ctx context.Context, age *float64, hasStudentCard bool) error {
	if res := validation.Age(age); !res.Valid {
		s.fail(res.Error)
		return &errors.ErrValidation{Field: "customerAge", Message: res.Error}
	}

	s.begin()

	order, err := s.api.CreateOrder(ctx, barapi.CreateOrderRequest{
		CustomerAge:    int(*age),
		HasStudentCard: hasStudentCard,
	})
	if err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		actionErr := newActionError(err, "Kunne ikke oprette ordre")
		s.fail(actionErr.Message)
		return actionErr
	}

	s.mu.Lock()
	s.order = order
	s.lines = nil
	s.success = "Ordre oprettet!"
	s.loading = false
	s.mu.Unlock()

	s.record(ctx, order.ID, audit.EventOrderCreated, map[string]interface{}{
		"customer_age":     order.CustomerAge,
		"has_student_card": order.HasStudentCard,
		"status":           order.Status,
	})

	s.transferCart(ctx, order.ID)
	return nil
}

// transferCart moves every cart line into the order, one add call per line.
// The cart is cleared as soon as its lines are taken, whatever happens to the
// calls. Calls run one after another and the final order is fetched once at
// the end, so the cached snapshot never depends on response arrival order.
func (s *OrderService) transferCart(ctx context.Context, orderID int64) {
	items := s.cart.Lines()
	if len(items) == 0 {
		return
	}

	// the customer may navigate away; the transfer still has to finish
	ctx = context.WithoutCancel(ctx)

	s.cart.Clear(ctx)

	transferred := 0
	for _, item := range items {
		order, err := s.api.AddBeerToOrder(ctx, orderID, barapi.AddBeerRequest{
			BeerID:   item.Item.ID,
			Quantity: item.Quantity,
		})
		if err != nil {
			s.logger.Error("Failed to add cart item to order",
				zap.Int64("order_id", orderID),
				zap.Int64("beer_id", item.Item.ID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
			continue
		}
		transferred++
		s.adoptOrder(orderID, order)
		s.record(ctx, orderID, audit.EventOrderLineAdded, map[string]interface{}{
			"beer_id":  item.Item.ID,
			"quantity": item.Quantity,
			"source":   "cart",
		})
	}

	if transferred == 0 {
		return
	}

	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		s.logger.Warn("Failed to refresh order after cart transfer", zap.Int64("order_id", orderID), zap.Error(err))
	} else {
		s.adoptOrder(orderID, order)
	}
	s.refreshLines(ctx, orderID)
}

// AddItem adds a beer to the current order by hand
func (s *OrderService) AddItem(ctx context.Context, beerID int64, quantity *float64) error {
	current := s.currentOrder()
	if current == nil || current.Status != domain.OrderStatusCreated {
		return s.guardError(current, "add beers")
	}

	if res := validation.Quantity(quantity); !res.Valid {
		s.fail(res.Error)
		return &errors.ErrValidation{Field: "quantity", Message: res.Error}
	}

	s.begin()

	order, err := s.api.AddBeerToOrder(ctx, current.ID, barapi.AddBeerRequest{
		BeerID:   beerID,
		Quantity: int(*quantity),
	})
	if err != nil {
		s.logger.Error("Failed to add beer to order", zap.Int64("order_id", current.ID), zap.Error(err))
		actionErr := newActionError(err, "Kunne ikke tilføje øl")
		s.failFor(current.ID, actionErr.Message)
		return actionErr
	}

	if !s.settle(current.ID, order, "Øl tilføjet!") {
		return nil
	}

	s.record(ctx, current.ID, audit.EventOrderLineAdded, map[string]interface{}{
		"beer_id":  beerID,
		"quantity": int(*quantity),
		"source":   "manual",
	})

	s.refreshLines(ctx, current.ID)
	return nil
}

type transition struct {
	action  string
	target  domain.OrderStatus
	failure string
	success string
	call    func(ctx context.Context, id int64) (*domain.Order, error)
}

func (s *OrderService) Confirm(ctx context.Context) error {
	return s.transition(ctx, transition{
		action:  "confirm",
		target:  domain.OrderStatusConfirmed,
		failure: "Kunne ikke bekræfte ordre",
		success: "Ordre bekræftet!",
		call:    s.api.ConfirmOrder,
	})
}

func (s *OrderService) Pay(ctx context.Context) error {
	return s.transition(ctx, transition{
		action:  "pay",
		target:  domain.OrderStatusPaid,
		failure: "Kunne ikke betale ordre",
		success: "Ordre betalt!",
		call:    s.api.PayOrder,
	})
}

func (s *OrderService) Complete(ctx context.Context) error {
	return s.transition(ctx, transition{
		action:  "complete",
		target:  domain.OrderStatusCompleted,
		failure: "Kunne ikke fuldføre ordre",
		success: "Ordre fuldført!",
		call:    s.api.CompleteOrder,
	})
}

func (s *OrderService) Cancel(ctx context.Context) error {
	return s.transition(ctx, transition{
		action:  "cancel",
		target:  domain.OrderStatusCancelled,
		failure: "Kunne ikke annullere ordre",
		success: "Ordre annulleret!",
		call:    s.api.CancelOrder,
	})
}

// transition checks the cached status only to avoid pointless calls; the
// backend has the final say and its answer is adopted as is.
func (s *OrderService) transition(ctx context.Context, t transition) error {
	current := s.currentOrder()
	if current == nil || !current.Status.CanTransitionTo(t.target) {
		return s.guardError(current, t.action)
	}

	s.begin()

	order, err := t.call(ctx, current.ID)
	if err != nil {
		s.logger.Error("Failed to "+t.action+" order", zap.Int64("order_id", current.ID), zap.Error(err))
		actionErr := newActionError(err, t.failure)
		s.failFor(current.ID, actionErr.Message)
		return actionErr
	}

	if !s.settle(current.ID, order, t.success) {
		return nil
	}

	s.record(ctx, current.ID, audit.EventStatusChange, map[string]interface{}{
		"from": current.Status,
		"to":   order.Status,
	})
	return nil
}

func (s *OrderService) refreshLines(ctx context.Context, orderID int64) {
	lines, err := s.api.GetOrderLines(ctx, orderID)
	if err != nil {
		s.logger.Warn("Failed to load order lines", zap.Int64("order_id", orderID), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil || s.order.ID != orderID {
		return
	}
	s.lines = lines
}

// adoptOrder replaces the cached snapshot, unless the response belongs to an
// order the customer has already left.
func (s *OrderService) adoptOrder(orderID int64, order *domain.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.adoptLocked(orderID, order)
}

// settle finishes a call made for orderID: the snapshot is adopted and the
// banner set. Nothing changes when the customer left that order meanwhile.
func (s *OrderService) settle(orderID int64, order *domain.Order, success string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.adoptLocked(orderID, order) {
		return false
	}
	s.success = success
	s.loading = false
	return true
}

func (s *OrderService) adoptLocked(orderID int64, order *domain.Order) bool {
	if s.order == nil || s.order.ID != orderID || order.ID != orderID {
		s.logger.Debug("Dropping response for stale order", zap.Int64("order_id", orderID))
		return false
	}
	s.order = order
	return true
}

func (s *OrderService) currentOrder() *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order == nil {
		return nil
	}
	o := *s.order
	return &o
}

func (s *OrderService) guardError(current *domain.Order, action string) error {
	err := &errors.ErrInvalidStateTransition{To: action}
	if current != nil {
		err.From = string(current.Status)
	}
	return err
}

func (s *OrderService) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.errMsg = ""
	s.success = ""
}

func (s *OrderService) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errMsg = msg
	s.success = ""
	s.loading = false
}

// failFor shows a failure of a call made for orderID, unless that order is
// no longer the current one
func (s *OrderService) failFor(orderID int64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order == nil || s.order.ID != orderID {
		s.logger.Debug("Dropping failure for stale order", zap.Int64("order_id", orderID))
		return
	}
	s.errMsg = msg
	s.success = ""
	s.loading = false
}

func (s *OrderService) record(ctx context.Context, orderID int64, eventType string, data map[string]interface{}) {
	event := audit.NewEvent(eventType, data)
	event.OrderID = orderID
	s.sink.Record(ctx, event)
}

