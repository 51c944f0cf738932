package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/config"
)

type restaurantSet map[int64]bool

func (r restaurantSet) RestaurantExists(ctx context.Context, id int64) (bool, error) {
	return r[id], nil
}

type priceMap map[int64]map[int64]decimal.Decimal

func (p priceMap) DishPrices(ctx context.Context, restaurantID int64, dishIDs []int64) (map[int64]decimal.Decimal, error) {
	out := map[int64]decimal.Decimal{}
	for _, id := range dishIDs {
		if price, ok := p[restaurantID][id]; ok {
			out[id] = price
		}
	}
	return out, nil
}

var (
	customer      = auth.Actor{UserID: 10, ProfileID: 1, Role: auth.RoleCustomer}
	otherCustomer = auth.Actor{UserID: 11, ProfileID: 2, Role: auth.RoleCustomer}
	restaurant    = auth.Actor{UserID: 20, ProfileID: 5, Role: auth.RoleRestaurant}
	otherRest     = auth.Actor{UserID: 21, ProfileID: 6, Role: auth.RoleRestaurant}
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func twoItemCart() PlaceOrderInput {
	return PlaceOrderInput{
		RestaurantID: 5,
		Items: []ItemInput{
			{DishID: 100, Quantity: 2, Price: money("5.00")},
			{DishID: 101, Quantity: 1, Price: money("3.50")},
		},
		DeliveryAddress: "12 Market St",
		TotalAmount:     money("13.50"),
	}
}

func newTestService(mode string) (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository(nil)
	prices := priceMap{5: {100: money("5.00"), 101: money("3.50")}}
	return NewService(repo, restaurantSet{5: true, 6: true}, prices, mode), repo
}

func TestPlaceAndLifecycleScenario(t *testing.T) {
	svc, repo := newTestService(config.PricingTrust)
	ctx := context.Background()

	placed, err := svc.Place(ctx, customer, twoItemCart())
	require.NoError(t, err)
	assert.Equal(t, StatusNew, placed.Status)
	assert.Len(t, placed.Items, 2)
	orders, items := repo.Count()
	assert.Equal(t, 1, orders)
	assert.Equal(t, 2, items)

	stored, err := svc.Get(ctx, customer, placed.ID)
	require.NoError(t, err)
	assert.True(t, stored.ItemsTotal().Equal(stored.TotalAmount))

	_, err = svc.Transition(ctx, restaurant, placed.ID, StatusOrderReceived)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, restaurant, placed.ID, StatusDelivered)
	require.Error(t, err)
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apperr.KindInvalidTransition, ae.Kind)
	assert.Equal(t, "Order Received", ae.Current)
	assert.Equal(t, "Delivered", ae.Requested)

	cancelled, err := svc.Cancel(ctx, customer, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	for _, to := range allStatuses {
		_, err := svc.Transition(ctx, restaurant, placed.ID, to)
		assert.True(t, apperr.Is(err, apperr.KindInvalidTransition), "restaurant -> %s", to)
	}
	_, err = svc.Cancel(ctx, customer, placed.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
}

func TestPlaceIsAtomicWhenAnItemFails(t *testing.T) {
	svc, repo := newTestService(config.PricingTrust)
	repo.itemHook = func(index int, it Item) error {
		if index == 1 {
			return errors.New("disk full")
		}
		return nil
	}

	_, err := svc.Place(context.Background(), customer, twoItemCart())
	assert.True(t, apperr.Is(err, apperr.KindPersistence))

	orders, items := repo.Count()
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestPlaceValidation(t *testing.T) {
	svc, repo := newTestService(config.PricingTrust)
	ctx := context.Background()

	cases := map[string]func(*PlaceOrderInput){
		"empty cart":         func(in *PlaceOrderInput) { in.Items = nil },
		"zero quantity":      func(in *PlaceOrderInput) { in.Items[0].Quantity = 0 },
		"negative quantity":  func(in *PlaceOrderInput) { in.Items[1].Quantity = -2 },
		"missing dish":       func(in *PlaceOrderInput) { in.Items[0].DishID = 0 },
		"negative price":     func(in *PlaceOrderInput) { in.Items[0].Price = money("-1") },
		"negative total":     func(in *PlaceOrderInput) { in.TotalAmount = money("-0.01") },
		"missing restaurant": func(in *PlaceOrderInput) { in.RestaurantID = 0 },
		"quantity over int4": func(in *PlaceOrderInput) { in.Items[0].Quantity = MaxItemQuantity + 1 },
		"sub-cent price":     func(in *PlaceOrderInput) { in.Items[0].Price = money("0.005") },
		"sub-cent total":     func(in *PlaceOrderInput) { in.TotalAmount = money("13.505") },
		"price too large":    func(in *PlaceOrderInput) { in.Items[1].Price = money("100000000") },
		"total too large":    func(in *PlaceOrderInput) { in.TotalAmount = money("12345678901.00") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := twoItemCart()
			mutate(&in)
			_, err := svc.Place(ctx, customer, in)
			assert.True(t, apperr.Is(err, apperr.KindValidation), err)
		})
	}

	orders, _ := repo.Count()
	assert.Zero(t, orders)
}

func TestPlaceAcceptsBoundaryAmounts(t *testing.T) {
	svc, _ := newTestService(config.PricingTrust)
	in := twoItemCart()
	in.Items[0].Price = money("99999999.99")
	in.Items[1].Price = money("3.5000")
	in.TotalAmount = money("99999999.99")

	_, err := svc.Place(context.Background(), customer, in)
	assert.NoError(t, err)
}

func TestPlaceRecomputedTotalMustFitColumn(t *testing.T) {
	svc, repo := newTestService(config.PricingRecompute)
	in := twoItemCart()
	in.Items[0].Quantity = 20000000

	_, err := svc.Place(context.Background(), customer, in)
	assert.True(t, apperr.Is(err, apperr.KindValidation), err)
	orders, _ := repo.Count()
	assert.Zero(t, orders)
}

func TestPlaceUnknownRestaurant(t *testing.T) {
	svc, _ := newTestService(config.PricingTrust)
	in := twoItemCart()
	in.RestaurantID = 99

	_, err := svc.Place(context.Background(), customer, in)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPlaceRequiresCustomer(t *testing.T) {
	svc, _ := newTestService(config.PricingTrust)
	_, err := svc.Place(context.Background(), restaurant, twoItemCart())
	assert.True(t, apperr.Is(err, apperr.KindAccessDenied))
}

func TestPlaceTrustsClientPricesByDefault(t *testing.T) {
	svc, _ := newTestService(config.PricingTrust)
	in := twoItemCart()
	in.Items[0].Price = money("1.00")
	in.TotalAmount = money("2.00")

	placed, err := svc.Place(context.Background(), customer, in)
	require.NoError(t, err)
	assert.True(t, placed.TotalAmount.Equal(money("2.00")))
	assert.True(t, placed.Items[0].Price.Equal(money("1.00")))
}

func TestPlaceRecomputesFromCatalog(t *testing.T) {
	svc, _ := newTestService(config.PricingRecompute)
	in := twoItemCart()
	in.Items[0].Price = money("1.00")
	in.TotalAmount = money("2.00")

	placed, err := svc.Place(context.Background(), customer, in)
	require.NoError(t, err)
	assert.True(t, placed.Items[0].Price.Equal(money("5.00")))
	assert.True(t, placed.TotalAmount.Equal(money("13.50")), placed.TotalAmount.String())

	in = twoItemCart()
	in.Items[1].DishID = 999
	_, err = svc.Place(context.Background(), customer, in)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestTransitionOwnership(t *testing.T) {
	svc, _ := newTestService(config.PricingTrust)
	ctx := context.Background()
	placed, err := svc.Place(ctx, customer, twoItemCart())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, otherRest, placed.ID, StatusOrderReceived)
	assert.True(t, apperr.Is(err, apperr.KindAccessDenied))

	_, err = svc.Cancel(ctx, otherCustomer, placed.ID)
	assert.True(t, apperr.Is(err, apperr.KindAccessDenied))

	_, err = svc.Get(ctx, otherRest, placed.ID)
	assert.True(t, apperr.Is(err, apperr.KindAccessDenied))

	_, err = svc.Transition(ctx, restaurant, 404, StatusOrderReceived)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCustomerCannotAdvance(t *testing.T) {
	svc, _ := newTestService(config.PricingTrust)
	ctx := context.Background()
	placed, err := svc.Place(ctx, customer, twoItemCart())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, customer, placed.ID, StatusOrderReceived)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))

	_, err = svc.Cancel(ctx, restaurant, placed.ID)
	assert.True(t, apperr.Is(err, apperr.KindAccessDenied))
}

func TestCancelScope(t *testing.T) {
	ctx := context.Background()
	for _, from := range allStatuses {
		repo := NewInMemoryRepository([]Order{{ID: 1, CustomerID: customer.UserID, RestaurantID: 5, Status: from}})
		svc := NewService(repo, restaurantSet{5: true}, priceMap{}, config.PricingTrust)

		_, err := svc.Cancel(ctx, customer, 1)
		switch from {
		case StatusNew, StatusOrderReceived, StatusPreparing, StatusOnTheWay, StatusPickupReady:
			assert.NoError(t, err, from)
		default:
			assert.True(t, apperr.Is(err, apperr.KindInvalidTransition), from)
		}
	}
}

func TestRestaurantCanCancelFromAnyActiveStatus(t *testing.T) {
	ctx := context.Background()
	for _, from := range []Status{StatusNew, StatusOrderReceived, StatusPreparing, StatusOnTheWay, StatusPickupReady} {
		repo := NewInMemoryRepository([]Order{{ID: 1, CustomerID: customer.UserID, RestaurantID: 5, Status: from}})
		svc := NewService(repo, restaurantSet{5: true}, priceMap{}, config.PricingTrust)

		o, err := svc.Transition(ctx, restaurant, 1, StatusCancelled)
		require.NoError(t, err, from)
		assert.Equal(t, StatusCancelled, o.Status)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService(config.PricingTrust)
	_, err := svc.Transition(context.Background(), restaurant, 1, Status("Teleported"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestListByRole(t *testing.T) {
	seed := []Order{
		{ID: 1, CustomerID: 10, RestaurantID: 5, Status: StatusNew},
		{ID: 2, CustomerID: 10, RestaurantID: 6, Status: StatusPreparing},
		{ID: 3, CustomerID: 11, RestaurantID: 5, Status: StatusPreparing},
	}
	svc := NewService(NewInMemoryRepository(seed), restaurantSet{}, priceMap{}, "")
	ctx := context.Background()

	mine, err := svc.List(ctx, customer, "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, int64(2), mine[0].ID)

	preparing, err := svc.List(ctx, restaurant, StatusPreparing)
	require.NoError(t, err)
	require.Len(t, preparing, 1)
	assert.Equal(t, int64(3), preparing[0].ID)

	_, err = svc.List(ctx, restaurant, Status("Lost"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
