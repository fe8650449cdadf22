package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

const (
	itemNotFoundMessage    = "Item not found in cart"
	productNotFoundMessage = "Product not found"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations for the authenticated user.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]CartItemDTO, error)
	UpsertItem(ctx context.Context, userID uuid.UUID, input UpsertCartInput) ([]CartItemDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) ([]CartItemDTO, error)
}

type service struct {
	repo        CartRepository
	tx          txRunner
	productRepo productLoader
	now         func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, productRepo productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		productRepo: productRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (in UpsertCartInput) Validate() error {
	errs := validation.Errors{}
	errs.Check(in.ProductID != uuid.Nil, "productId", "Product is required")
	errs.Check(in.Quantity >= 1, "quantity", "Quantity must be at least 1")
	return errs.Err()
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) ([]CartItemDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return newCartItemDTOs(items), nil
}

func (s *service) UpsertItem(ctx context.Context, userID uuid.UUID, input UpsertCartInput) ([]CartItemDTO, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	var items []models.CartItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Upsert(ctx, &models.CartItem{
			UserID:    userID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			AddedAt:   s.now(),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert cart item")
		}
		loaded, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		items = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCartItemDTOs(items), nil
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) ([]CartItemDTO, error) {
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	if !removed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
	}
	return s.GetCart(ctx, userID)
}
