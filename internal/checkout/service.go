package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox/payloads"
)

const (
	emptyCartMessage   = "Your cart is empty"
	cartChangedMessage = "Your cart changed during checkout, please try again"
	unexpectedMessage  = "An unexpected error occurred during checkout."
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service converts the caller's cart into an order.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error)
}

// ServiceParams bundles the checkout dependencies.
type ServiceParams struct {
	TxRunner   txRunner
	CartRepo   cart.CartRepository
	OrdersRepo orders.Repository
	Outbox     outboxPublisher
	Metrics    *metrics.CheckoutMetrics
	Logger     *logger.Logger
	Now        func() time.Time
}

type service struct {
	tx         txRunner
	cartRepo   cart.CartRepository
	ordersRepo orders.Repository
	outbox     outboxPublisher
	metrics    *metrics.CheckoutMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		tx:         params.TxRunner,
		cartRepo:   params.CartRepo,
		ordersRepo: params.OrdersRepo,
		outbox:     params.Outbox,
		metrics:    params.Metrics,
		logg:       params.Logger,
		now:        now,
	}, nil
}

func (s *service) Execute(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error) {
	started := time.Now()
	order, err := s.execute(ctx, userID)
	s.metrics.Observe(resultLabel(err), time.Since(started))
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrder(ctx, order.ID, len(order.Items), order.Total.String()), "checkout completed")
	}
	return orders.NewOrderDTO(order), nil
}

func (s *service) execute(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		items, err := cartRepo.LockByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}

		snapshot, err := helpers.BuildSnapshot(items)
		if err != nil {
			if errors.Is(err, helpers.ErrEmptyCart) {
				return pkgerrors.New(pkgerrors.CodeEmptyCart, emptyCartMessage)
			}
			return err
		}

		order, err := ordersRepo.CreateOrder(ctx, &models.Order{
			UserID:    userID,
			Total:     snapshot.Total,
			CreatedAt: s.now(),
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		lines := snapshot.OrderItems(order.ID)
		if err := ordersRepo.CreateOrderItems(ctx, lines); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		// Rows added after the lock are not part of this order and stay in the cart.
		removed, err := cartRepo.DeleteItems(ctx, userID, snapshot.ProductIDs())
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if removed != int64(len(snapshot.Lines)) {
			return pkgerrors.New(pkgerrors.CodeConflict, cartChangedMessage)
		}

		if err := s.outbox.Emit(ctx, tx, orderCreatedEvent(order, lines)); err != nil {
			return fmt.Errorf("queue order_created: %w", err)
		}

		order.Items = lines
		created = order
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeInternal {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout").WithPublicMessage(unexpectedMessage)
	}
	return created, nil
}

func orderCreatedEvent(order *models.Order, lines []models.OrderItem) outbox.DomainEvent {
	payload := payloads.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total.StringFixed(2),
		ItemCount: len(lines),
		Lines:     make([]payloads.OrderCreatedLine, 0, len(lines)),
		CreatedAt: order.CreatedAt,
	}
	for _, line := range lines {
		payload.Lines = append(payload.Lines, payloads.OrderCreatedLine{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price.StringFixed(2),
			Quantity:  line.Quantity,
		})
	}
	return outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{UserID: order.UserID, Role: outbox.ActorBuyer},
		Data:          payload,
		OccurredAt:    order.CreatedAt,
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.CheckoutSuccess
	case pkgerrors.IsCode(err, pkgerrors.CodeEmptyCart):
		return metrics.CheckoutEmptyCart
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		return metrics.CheckoutConflict
	default:
		return metrics.CheckoutError
	}
}
