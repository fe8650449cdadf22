package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	product "github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

type cartFixture struct {
	conn  *gorm.DB
	svc   *service
	clock time.Time
	buyer *models.User
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	conn := dbtest.Open(t)
	built, err := NewService(NewRepository(conn), db.NewFromGorm(conn), product.NewRepository(conn))
	require.NoError(t, err)

	f := &cartFixture{
		conn:  conn,
		svc:   built.(*service),
		clock: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	f.buyer = f.createUser(t)
	return f
}

func (f *cartFixture) createUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("buyer_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    "Cart",
		LastName:     "Tester",
	}
	require.NoError(t, f.conn.Create(user).Error)
	return user
}

func (f *cartFixture) createProduct(t *testing.T, title, price string) *models.Product {
	t.Helper()
	seller := f.createUser(t)
	p := &models.Product{
		SellerID:    seller.ID,
		Title:       title,
		Description: "Listed for cart tests.",
		Price:       decimal.RequireFromString(price),
		ImageURL:    "https://cdn.example.com/p.jpg",
		Category:    enums.ProductCategoryOther,
		Condition:   enums.ProductConditionGood,
		Quantity:    5,
		BlurHash:    product.FallbackBlurHash,
	}
	require.NoError(t, f.conn.Create(p).Error)
	return p
}

func TestUpsertItemReplacesQuantity(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	bottle := f.createProduct(t, "Bottle", "24.99")

	items, err := f.svc.UpsertItem(ctx, f.buyer.ID, UpsertCartInput{ProductID: bottle.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	items, err = f.svc.UpsertItem(ctx, f.buyer.ID, UpsertCartInput{ProductID: bottle.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Bottle", items[0].Product.Title)
	assert.Equal(t, 24.99, items[0].Product.Price)

	var count int64
	require.NoError(t, f.conn.Model(&models.CartItem{}).Where("user_id = ?", f.buyer.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetCartNewestFirstAndScopedToUser(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	first := f.createProduct(t, "First", "1.00")
	second := f.createProduct(t, "Second", "2.00")
	other := f.createUser(t)

	_, err := f.svc.UpsertItem(ctx, f.buyer.ID, UpsertCartInput{ProductID: first.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.UpsertItem(ctx, f.buyer.ID, UpsertCartInput{ProductID: second.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = f.svc.UpsertItem(ctx, other.ID, UpsertCartInput{ProductID: first.ID, Quantity: 4})
	require.NoError(t, err)

	items, err := f.svc.GetCart(ctx, f.buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ProductID)
	assert.Equal(t, first.ID, items[1].ProductID)

	empty, err := f.svc.GetCart(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUpsertItemRejectsBadInput(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	bottle := f.createProduct(t, "Bottle", "24.99")

	_, err := f.svc.UpsertItem(ctx, f.buyer.ID, UpsertCartInput{ProductID: bottle.ID, Quantity: 0})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Details(), "quantity")

	_, err = f.svc.UpsertItem(ctx, f.buyer.ID, UpsertCartInput{ProductID: uuid.New(), Quantity: 1})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, productNotFoundMessage, typed.PublicMessage())

	items, err := f.svc.GetCart(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRemoveItem(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	bottle := f.createProduct(t, "Bottle", "24.99")
	mug := f.createProduct(t, "Mug", "8.00")

	_, err := f.svc.UpsertItem(ctx, f.buyer.ID, UpsertCartInput{ProductID: bottle.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.UpsertItem(ctx, f.buyer.ID, UpsertCartInput{ProductID: mug.ID, Quantity: 1})
	require.NoError(t, err)

	items, err := f.svc.RemoveItem(ctx, f.buyer.ID, bottle.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mug.ID, items[0].ProductID)

	_, err = f.svc.RemoveItem(ctx, f.buyer.ID, bottle.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, itemNotFoundMessage, typed.PublicMessage())

	stranger := f.createUser(t)
	_, err = f.svc.RemoveItem(ctx, stranger.ID, mug.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCartRowsFollowProductDeletion(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	bottle := f.createProduct(t, "Bottle", "24.99")

	_, err := f.svc.UpsertItem(ctx, f.buyer.ID, UpsertCartInput{ProductID: bottle.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, f.conn.Delete(&models.Product{}, "id = ?", bottle.ID).Error)

	items, err := f.svc.GetCart(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
