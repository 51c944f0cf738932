package cart

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/dish"
	"github.com/wichananm65/food-order-backend/internal/logger"
	"github.com/wichananm65/food-order-backend/internal/order"
)

type DishSource interface {
	Dishes(ctx context.Context, ids []int64) ([]dish.Dish, error)
}

type OrderPlacer interface {
	Place(ctx context.Context, actor auth.Actor, in order.PlaceOrderInput) (order.Order, error)
}

// AddressBook resolves a customer's saved address to delivery text.
type AddressBook interface {
	Resolve(ctx context.Context, actor auth.Actor, id int64) (string, error)
}

type Service struct {
	repo      Repository
	dishes    DishSource
	orders    OrderPlacer
	addresses AddressBook
}

func NewService(repo Repository, dishes DishSource, orders OrderPlacer, addresses AddressBook) *Service {
	return &Service{repo: repo, dishes: dishes, orders: orders, addresses: addresses}
}

// MaxQuantityDelta bounds a single AddItem change.
const MaxQuantityDelta = 1000

// AddItem applies quantity as a delta to dishID. An item whose quantity
// drops to zero or below is removed.
func (s *Service) AddItem(ctx context.Context, actor auth.Actor, restaurantID, dishID int64, quantity int) (View, error) {
	if !actor.IsCustomer() {
		return View{}, apperr.AccessDenied("Access denied. Customer role required.")
	}
	if quantity == 0 {
		return View{}, apperr.Validation("quantity must not be zero")
	}
	if quantity > MaxQuantityDelta || quantity < -MaxQuantityDelta {
		return View{}, apperr.Validation("quantity must be between -%d and %d", MaxQuantityDelta, MaxQuantityDelta)
	}

	c, err := s.load(ctx, actor)
	if err != nil {
		return View{}, err
	}
	if !c.IsEmpty() && c.RestaurantID != restaurantID {
		return View{}, apperr.Validation("Cart already contains dishes from another restaurant")
	}

	if quantity > 0 {
		found, err := s.dishes.Dishes(ctx, []int64{dishID})
		if err != nil {
			return View{}, err
		}
		if len(found) == 0 || found[0].RestaurantID != restaurantID {
			return View{}, apperr.NotFound("Dish not found")
		}
	}

	next := c.Items[dishID] + quantity
	if next > order.MaxItemQuantity {
		return View{}, apperr.Validation("quantity must be at most %d", order.MaxItemQuantity)
	}
	if next <= 0 {
		delete(c.Items, dishID)
	} else {
		c.Items[dishID] = next
	}
	c.RestaurantID = restaurantID
	if c.IsEmpty() {
		c.RestaurantID = 0
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return View{}, apperr.Persistence("Failed to save cart", err)
	}
	return s.view(ctx, c)
}

func (s *Service) View(ctx context.Context, actor auth.Actor) (View, error) {
	if !actor.IsCustomer() {
		return View{}, apperr.AccessDenied("Access denied. Customer role required.")
	}
	c, err := s.load(ctx, actor)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, c)
}

func (s *Service) Clear(ctx context.Context, actor auth.Actor) error {
	if !actor.IsCustomer() {
		return apperr.AccessDenied("Access denied. Customer role required.")
	}
	if err := s.repo.Clear(ctx, actor.UserID); err != nil {
		return apperr.Persistence("Failed to clear cart", err)
	}
	return nil
}

// Checkout places an order for the cart at current dish prices and empties
// the cart once the order is stored.
func (s *Service) Checkout(ctx context.Context, actor auth.Actor, deliveryAddress string) (order.Order, error) {
	v, err := s.View(ctx, actor)
	if err != nil {
		return order.Order{}, err
	}
	if len(v.Items) == 0 {
		return order.Order{}, apperr.Validation("Cart is empty")
	}

	in := order.PlaceOrderInput{
		RestaurantID:    v.RestaurantID,
		DeliveryAddress: deliveryAddress,
		TotalAmount:     v.Total,
		Items:           make([]order.ItemInput, 0, len(v.Items)),
	}
	for _, l := range v.Items {
		in.Items = append(in.Items, order.ItemInput{DishID: l.Dish.ID, Quantity: l.Quantity, Price: l.Dish.Price})
	}

	placed, err := s.orders.Place(ctx, actor, in)
	if err != nil {
		return order.Order{}, err
	}
	if err := s.repo.Clear(ctx, actor.UserID); err != nil {
		logger.FromContext(ctx).Warn("clear cart after checkout failed",
			zap.Int64("user_id", actor.UserID), zap.Int64("order_id", placed.ID), zap.Error(err))
	}
	return placed, nil
}

// CheckoutToAddress checks out to one of the caller's saved addresses.
func (s *Service) CheckoutToAddress(ctx context.Context, actor auth.Actor, addressID int64) (order.Order, error) {
	if !actor.IsCustomer() {
		return order.Order{}, apperr.AccessDenied("Access denied. Customer role required.")
	}
	deliveryAddress, err := s.addresses.Resolve(ctx, actor, addressID)
	if err != nil {
		return order.Order{}, err
	}
	return s.Checkout(ctx, actor, deliveryAddress)
}

func (s *Service) load(ctx context.Context, actor auth.Actor) (Cart, error) {
	c, err := s.repo.Get(ctx, actor.UserID)
	if err != nil {
		return Cart{}, apperr.Persistence("Failed to load cart", err)
	}
	return c, nil
}

// view joins the cart with current dish records. Dishes deleted since they
// were added are dropped.
func (s *Service) view(ctx context.Context, c Cart) (View, error) {
	v := View{RestaurantID: c.RestaurantID, Items: []Line{}, Total: decimal.Zero}
	if c.IsEmpty() {
		return v, nil
	}

	ids := make([]int64, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	dishes, err := s.dishes.Dishes(ctx, ids)
	if err != nil {
		return View{}, err
	}
	sort.Slice(dishes, func(i, j int) bool { return dishes[i].ID < dishes[j].ID })

	for _, d := range dishes {
		if d.RestaurantID != c.RestaurantID {
			continue
		}
		qty := c.Items[d.ID]
		sub := d.Price.Mul(decimal.NewFromInt(int64(qty)))
		v.Items = append(v.Items, Line{Dish: d, Quantity: qty, Subtotal: sub})
		v.Total = v.Total.Add(sub)
	}
	return v, nil
}
