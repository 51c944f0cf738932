package order

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/config"
	"github.com/wichananm65/food-order-backend/internal/logger"
)

// RestaurantDirectory answers whether a restaurant profile exists.
type RestaurantDirectory interface {
	RestaurantExists(ctx context.Context, id int64) (bool, error)
}

// PriceCatalog returns the current prices of the given dishes of one
// restaurant. Dishes that do not belong to it are absent from the result.
type PriceCatalog interface {
	DishPrices(ctx context.Context, restaurantID int64, dishIDs []int64) (map[int64]decimal.Decimal, error)
}

// Service places orders and moves them through their lifecycle.
type Service struct {
	repo        Repository
	restaurants RestaurantDirectory
	prices      PriceCatalog
	pricingMode string
}

func NewService(repo Repository, restaurants RestaurantDirectory, prices PriceCatalog, pricingMode string) *Service {
	if pricingMode == "" {
		pricingMode = config.PricingTrust
	}
	return &Service{repo: repo, restaurants: restaurants, prices: prices, pricingMode: pricingMode}
}

// Place validates a cart and stores one order with its items atomically.
func (s *Service) Place(ctx context.Context, actor auth.Actor, in PlaceOrderInput) (Order, error) {
	log := logger.FromContext(ctx)

	if !actor.IsCustomer() {
		return Order{}, apperr.AccessDenied("Access denied. Customer role required.")
	}
	if err := validatePlacement(in); err != nil {
		return Order{}, err
	}

	exists, err := s.restaurants.RestaurantExists(ctx, in.RestaurantID)
	if err != nil {
		return Order{}, apperr.Persistence("Failed to look up restaurant", err)
	}
	if !exists {
		return Order{}, apperr.NotFound("Restaurant not found")
	}

	ord := Order{
		CustomerID:      actor.UserID,
		RestaurantID:    in.RestaurantID,
		Status:          StatusNew,
		TotalAmount:     in.TotalAmount,
		DeliveryAddress: in.DeliveryAddress,
		Items:           make([]Item, len(in.Items)),
	}
	for i, it := range in.Items {
		ord.Items[i] = Item{DishID: it.DishID, Quantity: it.Quantity, Price: it.Price}
	}

	if s.pricingMode == config.PricingRecompute {
		if err := s.applyCatalogPrices(ctx, &ord); err != nil {
			return Order{}, err
		}
	} else if sum := ord.ItemsTotal(); !sum.Equal(ord.TotalAmount) {
		log.Warn("claimed order total differs from item sum",
			zap.Int64("customer_id", actor.UserID),
			zap.Int64("restaurant_id", in.RestaurantID),
			zap.String("claimed", ord.TotalAmount.StringFixed(2)),
			zap.String("items_sum", sum.StringFixed(2)),
		)
	}

	created, err := s.repo.Create(ctx, ord)
	if err != nil {
		return Order{}, apperr.Persistence("Failed to place order", err)
	}

	log.Info("order placed",
		zap.Int64("order_id", created.ID),
		zap.Int64("customer_id", created.CustomerID),
		zap.Int64("restaurant_id", created.RestaurantID),
		zap.Int("items", len(created.Items)),
		zap.String("total", created.TotalAmount.StringFixed(2)),
	)
	return created, nil
}

func validatePlacement(in PlaceOrderInput) error {
	if in.RestaurantID <= 0 {
		return apperr.Validation("restaurantId is required")
	}
	if len(in.Items) == 0 {
		return apperr.Validation("Order must contain at least one item")
	}
	for i, it := range in.Items {
		if it.DishID <= 0 {
			return apperr.Validation("items[%d].dishId is required", i)
		}
		if it.Quantity < 1 {
			return apperr.Validation("items[%d].quantity must be at least 1", i)
		}
		if it.Quantity > MaxItemQuantity {
			return apperr.Validation("items[%d].quantity must be at most %d", i, MaxItemQuantity)
		}
		if err := checkAmount(fmt.Sprintf("items[%d].price", i), it.Price); err != nil {
			return err
		}
	}
	return checkAmount("totalAmount", in.TotalAmount)
}

// MaxItemQuantity is the largest quantity an order_items row holds (INT).
const MaxItemQuantity = math.MaxInt32

// maxAmount bounds NUMERIC(10,2) money columns (exclusive).
var maxAmount = decimal.New(1, 8)

func checkAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return apperr.Validation("%s must not be negative", field)
	}
	if !d.Equal(d.Round(2)) {
		return apperr.Validation("%s must have at most 2 decimal places", field)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return apperr.Validation("%s must be less than %s", field, maxAmount.String())
	}
	return nil
}

// applyCatalogPrices replaces client prices and total with catalog values.
func (s *Service) applyCatalogPrices(ctx context.Context, ord *Order) error {
	ids := make([]int64, 0, len(ord.Items))
	for _, it := range ord.Items {
		ids = append(ids, it.DishID)
	}
	prices, err := s.prices.DishPrices(ctx, ord.RestaurantID, ids)
	if err != nil {
		return apperr.Persistence("Failed to load dish prices", err)
	}

	for i, it := range ord.Items {
		p, ok := prices[it.DishID]
		if !ok {
			return apperr.NotFound("Dish %d not found on this restaurant's menu", it.DishID)
		}
		ord.Items[i].Price = p
	}

	sum := ord.ItemsTotal()
	if !sum.Equal(ord.TotalAmount) {
		logger.FromContext(ctx).Info("order total recomputed from catalog",
			zap.String("claimed", ord.TotalAmount.StringFixed(2)),
			zap.String("computed", sum.StringFixed(2)),
		)
	}
	ord.TotalAmount = sum
	return checkAmount("totalAmount", sum)
}

// Get returns an order the actor owns.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := authorize(actor, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// List returns the actor's orders. status filters restaurant listings and
// is ignored for customers.
func (s *Service) List(ctx context.Context, actor auth.Actor, status Status) ([]Order, error) {
	var (
		orders []Order
		err    error
	)
	switch actor.Role {
	case auth.RoleCustomer:
		orders, err = s.repo.ListByCustomer(ctx, actor.UserID)
	case auth.RoleRestaurant:
		if status != "" && !status.Valid() {
			return nil, apperr.Validation("Invalid status filter '%s'", status)
		}
		orders, err = s.repo.ListByRestaurant(ctx, actor.ProfileID, status)
	default:
		return nil, apperr.AccessDenied("Access denied")
	}
	if err != nil {
		return nil, apperr.Persistence("Failed to list orders", err)
	}
	return orders, nil
}

// Transition moves an order to requested if the actor owns it and the
// status table allows the change for the actor's role.
func (s *Service) Transition(ctx context.Context, actor auth.Actor, id int64, requested Status) (Order, error) {
	if !requested.Valid() {
		return Order{}, apperr.Validation("Invalid status '%s'", requested)
	}

	o, err := s.load(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := authorize(actor, o); err != nil {
		return Order{}, err
	}
	if !CanTransition(actor.Role, o.Status, requested) {
		return Order{}, apperr.InvalidTransition(string(o.Status), string(requested))
	}

	if err := s.repo.UpdateStatus(ctx, id, requested); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, apperr.NotFound("Order not found")
		}
		return Order{}, apperr.Persistence("Failed to update order status", err)
	}

	logger.FromContext(ctx).Info("order status changed",
		zap.Int64("order_id", id),
		zap.String("role", string(actor.Role)),
		zap.String("from", string(o.Status)),
		zap.String("to", string(requested)),
	)
	o.Status = requested
	return o, nil
}

// Cancel is the customer cancel path.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id int64) (Order, error) {
	if !actor.IsCustomer() {
		return Order{}, apperr.AccessDenied("Access denied. Customer role required.")
	}
	return s.Transition(ctx, actor, id, StatusCancelled)
}

func (s *Service) load(ctx context.Context, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, apperr.Validation("Invalid order id")
	}
	o, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Order{}, apperr.NotFound("Order not found")
	}
	if err != nil {
		return Order{}, apperr.Persistence("Failed to load order", err)
	}
	return o, nil
}

func authorize(actor auth.Actor, o Order) error {
	switch actor.Role {
	case auth.RoleCustomer:
		if o.CustomerID == actor.UserID {
			return nil
		}
	case auth.RoleRestaurant:
		if actor.ProfileID > 0 && o.RestaurantID == actor.ProfileID {
			return nil
		}
	}
	return apperr.AccessDenied("You do not have access to this order")
}
