package main

import (
	"fmt"

	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	products "github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	pkgredis "github.com/angelmondragon/marketplace-backend/pkg/redis"
)

// routerDeps holds the optional Redis-backed collaborators. Both stay nil
// interfaces when Redis is disabled.
type routerDeps struct {
	idempotency pkgredis.IdempotencyStore
	rateLimiter pkgredis.RateLimiter
}

type services struct {
	auth     auth.Service
	profile  users.ProfileService
	products products.Service
	cart     cart.Service
	checkout checkout.Service
	orders   orders.Service
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, checkoutMetrics *metrics.CheckoutMetrics) (*services, error) {
	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		TxRunner:       dbClient,
		UserRepo:       userRepo,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	profileService, err := users.NewProfileService(userRepo)
	if err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}

	productService, err := products.NewService(productRepo, dbClient)
	if err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}

	cartService, err := cart.NewService(cartRepo, dbClient, productRepo)
	if err != nil {
		return nil, fmt.Errorf("cart service: %w", err)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		TxRunner:   dbClient,
		CartRepo:   cartRepo,
		OrdersRepo: ordersRepo,
		Outbox:     outbox.NewService(outbox.NewRepository(conn), logg),
		Metrics:    checkoutMetrics,
		Logger:     logg,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout service: %w", err)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		return nil, fmt.Errorf("orders service: %w", err)
	}

	return &services{
		auth:     authService,
		profile:  profileService,
		products: productService,
		cart:     cartService,
		checkout: checkoutService,
		orders:   ordersService,
	}, nil
}
