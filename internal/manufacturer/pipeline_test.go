package manufacturer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/supplyline/internal/catalog"
	"github.com/matthieukhl/supplyline/internal/comms"
)

// TestTwoDayPipeline runs the full daily pipeline twice against scripted
// counterparties: day one approves and procures an order, day two takes
// delivery, ships it, and collects payment.
func TestTwoDayPipeline(t *testing.T) {
	e, net := newTestEngine(t)
	e.cfg.ReceiveTimeout = 500 * time.Millisecond

	supplierBox, err := net.Join("supplier-a", comms.RoleSupplier)
	require.NoError(t, err)
	customerBox, err := net.Join("customer-1", comms.RoleCustomer)
	require.NoError(t, err)

	ctx := context.Background()
	wait := 2 * time.Second
	errCh := make(chan error, 2)

	reply := func(box *comms.Mailbox, to string, perf comms.Performative, conv string, payload comms.Payload) error {
		return net.Send(comms.Message{
			Performative: perf,
			Conversation: conv,
			Sender:       box.Owner(),
			Receiver:     to,
			Payload:      payload,
		})
	}

	// Scripted supplier: lead time of one day, 100 per component.
	go func() {
		errCh <- func() error {
			var purchase comms.PurchaseRequest

			// Day 1: quote, confirm stock, take the purchase and payment.
			msg, err := supplierBox.ReceiveWithin(ctx, wait, comms.MatchConversation(comms.ConvSupplierDetails))
			if err != nil {
				return fmt.Errorf("supplier awaiting quote request: %w", err)
			}
			if err := reply(supplierBox, msg.Sender, comms.Inform, comms.ConvSupplierDetails,
				comms.QuoteReply{Supplier: "supplier-a", Prices: flatPrices(100), LeadTimeDays: 1}); err != nil {
				return err
			}

			msg, err = supplierBox.ReceiveWithin(ctx, wait, comms.MatchConversation(comms.ConvStockQuery))
			if err != nil {
				return fmt.Errorf("supplier awaiting stock query: %w", err)
			}
			if err := reply(supplierBox, msg.Sender, comms.Confirm, comms.ConvStockResponse, comms.StockDecision{}); err != nil {
				return err
			}

			msg, err = supplierBox.ReceiveWithin(ctx, wait, comms.MatchConversation(comms.ConvPurchase))
			if err != nil {
				return fmt.Errorf("supplier awaiting purchase: %w", err)
			}
			purchase = msg.Payload.(comms.PurchaseRequest)

			if _, err = supplierBox.ReceiveWithin(ctx, wait, comms.MatchConversation(comms.ConvSupplierPayment)); err != nil {
				return fmt.Errorf("supplier awaiting payment: %w", err)
			}
			if _, err = supplierBox.ReceiveWithin(ctx, wait, comms.MatchConversation(comms.ConvDayCycle)); err != nil {
				return fmt.Errorf("supplier awaiting day-complete: %w", err)
			}

			// Day 2: quote again, then deliver yesterday's purchase.
			msg, err = supplierBox.ReceiveWithin(ctx, wait, comms.MatchConversation(comms.ConvSupplierDetails))
			if err != nil {
				return fmt.Errorf("supplier awaiting second quote request: %w", err)
			}
			if err := reply(supplierBox, msg.Sender, comms.Inform, comms.ConvSupplierDetails,
				comms.QuoteReply{Supplier: "supplier-a", Prices: flatPrices(100), LeadTimeDays: 1}); err != nil {
				return err
			}
			return reply(supplierBox, msg.Sender, comms.Inform, comms.ConvComponentDelivery, comms.Shipment{
				OrderID:    purchase.OrderID,
				Components: purchase.Components,
				Quantity:   purchase.Quantity,
			})
		}()
	}()

	// Scripted customer: one profitable order on day one, one lowball
	// order on day two, then payment on shipment.
	go func() {
		errCh <- func() error {
			if err := reply(customerBox, "maker", comms.QueryIf, comms.ConvOrderRequest,
				comms.OrderRequest{Order: oneComponentOrder("ord-1", 3, 400, 5, 10)}); err != nil {
				return err
			}

			msg, err := customerBox.ReceiveWithin(ctx, wait, comms.MatchConversation(comms.ConvOrderResponse))
			if err != nil {
				return fmt.Errorf("customer awaiting decision: %w", err)
			}
			if msg.Performative != comms.Confirm {
				return fmt.Errorf("expected order acceptance, got %s", msg.Performative)
			}
			if err := reply(customerBox, "maker", comms.Request, comms.ConvOrderConfirmation,
				comms.OrderConfirmation{OrderID: "ord-1"}); err != nil {
				return err
			}

			// Day 2's order: offer far below cost, expected rejection.
			if err := reply(customerBox, "maker", comms.QueryIf, comms.ConvOrderRequest,
				comms.OrderRequest{Order: oneComponentOrder("ord-2", 1, 1, 5, 10)}); err != nil {
				return err
			}
			msg, err = customerBox.ReceiveWithin(ctx, wait, comms.MatchConversation(comms.ConvOrderResponse))
			if err != nil {
				return fmt.Errorf("customer awaiting second decision: %w", err)
			}
			if msg.Performative != comms.Disconfirm {
				return fmt.Errorf("expected order rejection, got %s", msg.Performative)
			}

			msg, err = customerBox.ReceiveWithin(ctx, wait, comms.MatchConversation(comms.ConvOrderShipment))
			if err != nil {
				return fmt.Errorf("customer awaiting shipment: %w", err)
			}
			shipment := msg.Payload.(comms.Shipment)
			return reply(customerBox, "maker", comms.Inform, comms.ConvOrderPayment,
				comms.Payment{Amount: dec(400), OrderID: shipment.OrderID})
		}()
	}()

	require.NoError(t, e.runDay(ctx))
	require.Equal(t, 2, e.day)
	require.Len(t, e.orders, 1)
	require.Equal(t, StateComponentsOrdered, e.orders[0].State)

	require.NoError(t, e.runDay(ctx))
	require.Equal(t, 3, e.day)

	require.NoError(t, <-errCh)
	require.NoError(t, <-errCh)

	// Day 1 books the procurement cost, day 2 the revenue.
	require.Len(t, e.ledger.History, 2)
	require.True(t, e.ledger.History[0].Profit.Equal(dec(-300)),
		"day 1 profit = %s", e.ledger.History[0].Profit)
	require.True(t, e.ledger.History[1].Profit.Equal(dec(400)),
		"day 2 profit = %s", e.ledger.History[1].Profit)
	require.True(t, e.ledger.TotalProfit.Equal(dec(100)))
	require.True(t, e.ledger.ReplayTotal().Equal(e.ledger.TotalProfit))

	// The completed order is purged and the components were consumed.
	require.Empty(t, e.orders)
	require.Equal(t, 0, e.warehouse[catalog.Screen5in])
	for _, qty := range e.warehouse {
		require.GreaterOrEqual(t, qty, 0)
	}
}
