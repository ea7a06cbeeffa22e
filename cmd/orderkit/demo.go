package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dshills/orderkit/internal/events"
	"github.com/dshills/orderkit/internal/ordering"
	"github.com/dshills/orderkit/internal/repository"
	"github.com/dshills/orderkit/internal/storage"
	"github.com/dshills/orderkit/pkg/types"
)

const demoOrderID = "123"

// runDemo registers a customer and two products, places an order and then
// replaces its items. Running it again against the same database only
// replaces the items.
func runDemo(ctx context.Context, store storage.Storage, d *events.Dispatcher, service *ordering.Service) error {
	customer := events.CustomerData{ID: "1234", Name: "Customer 1", Address: "Street 1"}
	if err := store.UpsertCustomer(ctx, &storage.Customer{ID: customer.ID, Name: customer.Name, Address: customer.Address}); err != nil {
		return err
	}
	if err := d.Notify(ctx, events.NewCustomerCreated(customer)); err != nil {
		return err
	}

	products := []events.ProductData{
		{ID: "p1", Name: "Product 1", Description: "Product 1 description", Price: decimal.NewFromInt(10)},
		{ID: "p2", Name: "Product 2", Description: "Product 2 description", Price: decimal.NewFromInt(20)},
	}
	for _, p := range products {
		if err := store.UpsertProduct(ctx, &storage.Product{ID: p.ID, Name: p.Name, Price: p.Price}); err != nil {
			return err
		}
		if err := d.Notify(ctx, events.NewProductCreated(p)); err != nil {
			return err
		}
	}

	first, err := types.NewOrderItem("1", "p1", "Product 1", decimal.NewFromInt(10), 2)
	if err != nil {
		return err
	}
	second, err := types.NewOrderItem("2", "p2", "Product 2", decimal.NewFromInt(20), 3)
	if err != nil {
		return err
	}

	_, err = service.Order(ctx, demoOrderID)
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		order, err := types.NewOrder(demoOrderID, customer.ID, []types.OrderItem{first})
		if err != nil {
			return err
		}
		if err := service.PlaceOrder(ctx, order); err != nil {
			return fmt.Errorf("demo: %w", err)
		}
	case err != nil:
		return err
	}

	if _, err := service.ReplaceItems(ctx, demoOrderID, []types.OrderItem{first, second}); err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	customer.Address = "Street 2"
	if err := store.UpsertCustomer(ctx, &storage.Customer{ID: customer.ID, Name: customer.Name, Address: customer.Address}); err != nil {
		return err
	}
	return d.Notify(ctx, events.NewCustomerAddressChanged(customer))
}
