package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/infrastructure/database/memory"
	"github.com/your-org/storefront/internal/pkg/logger"
)

type CartServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	service *cart.Service
}

func (s *CartServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.Require().NoError(s.store.SeedCatalog(s.ctx, nil, []product.Product{
		{ID: "x", Name: "Graphic T-Shirt", Slug: "graphic-t-shirt", Price: 2500},
		{ID: "y", Name: "Wireless Headphones", Slug: "wireless-headphones", Price: 12999},
	}))
	s.service = cart.NewService(s.store, s.store, logger.Discard())
}

func (s *CartServiceTestSuite) TestGetOrCreate() {
	created, err := s.service.GetOrCreate(s.ctx, "")
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	s.Empty(created.Items)

	again, err := s.service.GetOrCreate(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, again.ID)

	unknown, err := s.service.GetOrCreate(s.ctx, "does-not-exist")
	s.Require().NoError(err)
	s.NotEqual("does-not-exist", unknown.ID)
}

func (s *CartServiceTestSuite) TestAddItemMergesQuantities() {
	c, err := s.service.AddItem(s.ctx, "", "x", 2)
	s.Require().NoError(err)

	c, err = s.service.AddItem(s.ctx, c.ID, "x", 3)
	s.Require().NoError(err)

	s.Require().Len(c.Items, 1)
	s.Equal("x", c.Items[0].ProductID)
	s.Equal(5, c.Items[0].Quantity)
	s.Require().NotNil(c.Items[0].Product)
	s.Equal(cart.CartTotals{ItemCount: 1, TotalQuantity: 5, SubTotal: 12500}, c.Totals())
}

func (s *CartServiceTestSuite) TestAddItemDefaultsQuantityAndKeepsOrder() {
	c, err := s.service.AddItem(s.ctx, "", "y", 0)
	s.Require().NoError(err)
	c, err = s.service.AddItem(s.ctx, c.ID, "x", -4)
	s.Require().NoError(err)

	s.Require().Len(c.Items, 2)
	s.Equal("y", c.Items[0].ProductID)
	s.Equal("x", c.Items[1].ProductID)
	s.Equal(1, c.Items[0].Quantity)
	s.Equal(1, c.Items[1].Quantity)
}

func (s *CartServiceTestSuite) TestAddUnknownProduct() {
	_, err := s.service.AddItem(s.ctx, "", "nope", 1)
	s.ErrorIs(err, cart.ErrProductNotFound)
}

func (s *CartServiceTestSuite) TestUpdateItem() {
	c, err := s.service.AddItem(s.ctx, "", "x", 2)
	s.Require().NoError(err)
	itemID := c.Items[0].ID

	item, err := s.service.UpdateItem(s.ctx, c.ID, itemID, 7)
	s.Require().NoError(err)
	s.Equal(7, item.Quantity)

	item, err = s.service.UpdateItem(s.ctx, c.ID, itemID, 0)
	s.Require().NoError(err)
	s.Nil(item)

	c, err = s.service.GetOrCreate(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Empty(c.Items)

	_, err = s.service.UpdateItem(s.ctx, c.ID, itemID, 1)
	s.ErrorIs(err, cart.ErrItemNotFound)
	_, err = s.service.UpdateItem(s.ctx, c.ID, itemID, -1)
	s.ErrorIs(err, cart.ErrItemNotFound)
}

func (s *CartServiceTestSuite) TestUpdateItemOfAnotherCart() {
	mine, err := s.service.AddItem(s.ctx, "", "x", 1)
	s.Require().NoError(err)
	theirs, err := s.service.GetOrCreate(s.ctx, "")
	s.Require().NoError(err)

	_, err = s.service.UpdateItem(s.ctx, theirs.ID, mine.Items[0].ID, 3)
	s.ErrorIs(err, cart.ErrItemNotFound)
}

func (s *CartServiceTestSuite) TestClearKeepsCart() {
	c, err := s.service.AddItem(s.ctx, "", "x", 1)
	s.Require().NoError(err)
	_, err = s.service.AddItem(s.ctx, c.ID, "y", 1)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Clear(s.ctx, c.ID))

	after, err := s.service.GetOrCreate(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, after.ID)
	s.Empty(after.Items)

	s.NoError(s.service.Clear(s.ctx, ""))
}

func (s *CartServiceTestSuite) TestConcurrentAddsDoNotLoseUpdates() {
	c, err := s.service.GetOrCreate(s.ctx, "")
	s.Require().NoError(err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.AddItem(s.ctx, c.ID, "x", 1)
			s.NoError(err)
		}()
	}
	wg.Wait()

	c, err = s.service.GetOrCreate(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(c.Items, 1)
	s.Equal(workers, c.Items[0].Quantity)
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}

// failingCartStore fails every write
type failingCartStore struct {
	*memory.Store
	err error
}

func (f failingCartStore) UpsertCartItem(ctx context.Context, cartID, productID string, quantity int) (*cart.CartItem, error) {
	return nil, store.Wrap("cart_items.upsert", cartID, f.err)
}

func (f failingCartStore) DeleteCartItems(ctx context.Context, cartID string) error {
	return store.Wrap("cart_items.delete_many", cartID, f.err)
}

func TestWriteFailuresPropagate(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	require.NoError(t, mem.SeedCatalog(ctx, nil, []product.Product{{ID: "x", Slug: "x", Price: 100}}))
	boom := errors.New("write conflict")
	svc := cart.NewService(failingCartStore{Store: mem, err: boom}, mem, logger.Discard())

	_, err := svc.AddItem(ctx, "", "x", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "cart_items.upsert", store.Op(err))

	err = svc.Clear(ctx, "cart-1")
	assert.ErrorIs(t, err, boom)
}
