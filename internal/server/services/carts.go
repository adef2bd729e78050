package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/config"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// CartService keeps one cart per user and its running total.
type CartService struct {
	repomanager repomanager.RepositoryManager
	dbTimeout   time.Duration
}

func NewCartService(m repomanager.RepositoryManager, cfg *config.Config) *CartService {
	return &CartService{repomanager: m, dbTimeout: cfg.DBTimeout}
}

// AddItem merges quantity of productID into the user's cart and refreshes
// its total. A zero quantity adds one item.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, common.ErrorInvalidID
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", common.ErrorValidation)
	}
	if quantity == 0 {
		quantity = 1
	}

	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	if _, err := s.repomanager.Products().GetByID(ctx, productID); err != nil {
		return nil, passThrough(err)
	}

	var cart *models.Cart
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, rm repomanager.RepositoryManager) error {
		c, err := rm.Carts().AddItem(ctx, userID, productID, quantity)
		if err != nil {
			return err
		}

		total, err := cartTotal(ctx, rm, c)
		if err != nil {
			return err
		}
		if err := rm.Carts().SetTotal(ctx, userID, total); err != nil {
			return err
		}

		c.TotalPrice = &total
		cart = c
		return nil
	})
	if err != nil {
		return nil, passThrough(err)
	}

	return cart, nil
}

// Get returns the user's cart or common.ErrorNotFound.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	c, err := s.repomanager.Carts().GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return c, nil
}

// cartTotal prices every line at its effective price. Lines whose product
// has since disappeared count as zero.
func cartTotal(ctx context.Context, rm repomanager.RepositoryManager, c *models.Cart) (float64, error) {
	ids := make([]string, 0, len(c.Products))
	for _, it := range c.Products {
		ids = append(ids, it.ProductID)
	}

	list, err := rm.Products().GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	prices := make(map[string]float64, len(list))
	for _, p := range list {
		prices[p.ID] = p.EffectivePrice()
	}

	var total float64
	for _, it := range c.Products {
		total += prices[it.ProductID] * float64(it.Quantity)
	}
	return total, nil
}
