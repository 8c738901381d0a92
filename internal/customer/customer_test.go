package customer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/supplyline/internal/comms"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCustomerConfig() Config {
	return Config{
		Name:         "buyer-1",
		MaxQuantity:  5,
		MinUnitOffer: 150,
		MaxUnitOffer: 450,
		DeadlineDays: 4,
		PenaltyRate:  decimal.NewFromInt(10),
	}
}

// startCustomer runs a customer against a lone manufacturer mailbox and
// returns a stop function that terminates it.
func startCustomer(t *testing.T, cfg Config) (*comms.Network, *comms.Mailbox, func()) {
	t.Helper()
	net := comms.NewNetwork(testLogger())

	maker, err := net.Join("maker", comms.RoleManufacturer)
	require.NoError(t, err)

	c, err := New(net, cfg, 1, testLogger())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	stop := func() {
		require.NoError(t, net.Send(comms.Message{
			Performative: comms.Request,
			Conversation: comms.ConvDayCycle,
			Sender:       "maker",
			Receiver:     cfg.Name,
			Payload:      comms.Terminate{},
		}))
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("customer did not terminate")
		}
	}
	return net, maker, stop
}

func announceDay(t *testing.T, net *comms.Network, name string, day int) {
	t.Helper()
	require.NoError(t, net.Send(comms.Message{
		Performative: comms.Request,
		Conversation: comms.ConvDayCycle,
		Sender:       "ticker",
		Receiver:     name,
		Payload:      comms.NewDay{Day: day},
	}))
}

func replyToCustomer(t *testing.T, net *comms.Network, name string, perf comms.Performative, conv string, payload comms.Payload) {
	t.Helper()
	require.NoError(t, net.Send(comms.Message{
		Performative: perf,
		Conversation: conv,
		Sender:       "maker",
		Receiver:     name,
		Payload:      payload,
	}))
}

func TestPlacesOneOrderPerDay(t *testing.T) {
	cfg := testCustomerConfig()
	net, maker, stop := startCustomer(t, cfg)
	defer stop()

	announceDay(t, net, cfg.Name, 1)

	msg, err := maker.ReceiveWithin(context.Background(), time.Second, comms.MatchConversation(comms.ConvOrderRequest))
	require.NoError(t, err)
	require.Equal(t, comms.QueryIf, msg.Performative)

	order := msg.Payload.(comms.OrderRequest).Order
	require.NotEmpty(t, order.ID)
	require.NotEmpty(t, order.Product.Components)
	require.GreaterOrEqual(t, order.Quantity, 1)
	require.LessOrEqual(t, order.Quantity, cfg.MaxQuantity)
	require.Equal(t, cfg.DeadlineDays, order.DeadlineDays)
	require.True(t, order.DailyPenalty.Equal(cfg.PenaltyRate))

	// The offer stays inside the configured per-unit band.
	qty := decimal.NewFromInt(int64(order.Quantity))
	require.True(t, order.OfferedPrice.GreaterThanOrEqual(decimal.NewFromFloat(cfg.MinUnitOffer).Mul(qty)))
	require.True(t, order.OfferedPrice.LessThanOrEqual(decimal.NewFromFloat(cfg.MaxUnitOffer).Mul(qty)))

	// Exactly one request per announced day.
	_, err = maker.ReceiveWithin(context.Background(), 100*time.Millisecond, comms.MatchConversation(comms.ConvOrderRequest))
	require.ErrorIs(t, err, comms.ErrReceiveTimeout)
}

func TestConfirmsAcceptedOrders(t *testing.T) {
	cfg := testCustomerConfig()
	net, maker, stop := startCustomer(t, cfg)
	defer stop()

	ctx := context.Background()
	announceDay(t, net, cfg.Name, 1)

	msg, err := maker.ReceiveWithin(ctx, time.Second, comms.MatchConversation(comms.ConvOrderRequest))
	require.NoError(t, err)
	order := msg.Payload.(comms.OrderRequest).Order

	replyToCustomer(t, net, cfg.Name, comms.Confirm, comms.ConvOrderResponse,
		comms.OrderDecision{OrderID: order.ID})

	msg, err = maker.ReceiveWithin(ctx, time.Second, comms.MatchConversation(comms.ConvOrderConfirmation))
	require.NoError(t, err)
	require.Equal(t, comms.Request, msg.Performative)
	require.Equal(t, order.ID, msg.Payload.(comms.OrderConfirmation).OrderID)
}

func TestPaysOfferedPriceOnShipment(t *testing.T) {
	cfg := testCustomerConfig()
	net, maker, stop := startCustomer(t, cfg)
	defer stop()

	ctx := context.Background()
	announceDay(t, net, cfg.Name, 1)

	msg, err := maker.ReceiveWithin(ctx, time.Second, comms.MatchConversation(comms.ConvOrderRequest))
	require.NoError(t, err)
	order := msg.Payload.(comms.OrderRequest).Order

	replyToCustomer(t, net, cfg.Name, comms.Confirm, comms.ConvOrderResponse,
		comms.OrderDecision{OrderID: order.ID})
	_, err = maker.ReceiveWithin(ctx, time.Second, comms.MatchConversation(comms.ConvOrderConfirmation))
	require.NoError(t, err)

	replyToCustomer(t, net, cfg.Name, comms.Inform, comms.ConvOrderShipment, comms.Shipment{
		OrderID:  order.ID,
		Quantity: order.Quantity,
	})

	msg, err = maker.ReceiveWithin(ctx, time.Second, comms.MatchConversation(comms.ConvOrderPayment))
	require.NoError(t, err)

	payment := msg.Payload.(comms.Payment)
	require.Equal(t, order.ID, payment.OrderID)
	require.True(t, payment.Amount.Equal(order.OfferedPrice))
}

func TestCancelledOrderIsForgottenAfterConfirmation(t *testing.T) {
	cfg := testCustomerConfig()
	net, maker, stop := startCustomer(t, cfg)
	defer stop()

	ctx := context.Background()
	announceDay(t, net, cfg.Name, 1)

	msg, err := maker.ReceiveWithin(ctx, time.Second, comms.MatchConversation(comms.ConvOrderRequest))
	require.NoError(t, err)
	order := msg.Payload.(comms.OrderRequest).Order

	replyToCustomer(t, net, cfg.Name, comms.Confirm, comms.ConvOrderResponse,
		comms.OrderDecision{OrderID: order.ID})
	_, err = maker.ReceiveWithin(ctx, time.Second, comms.MatchConversation(comms.ConvOrderConfirmation))
	require.NoError(t, err)

	// The manufacturer later cancels the order (say, its supplier ran
	// out of stock) and sends a rejection notice; the customer stops
	// tracking it and would not pay for a stray shipment.
	replyToCustomer(t, net, cfg.Name, comms.Disconfirm, comms.ConvOrderResponse,
		comms.OrderDecision{OrderID: order.ID})
	replyToCustomer(t, net, cfg.Name, comms.Inform, comms.ConvOrderShipment, comms.Shipment{
		OrderID:  order.ID,
		Quantity: order.Quantity,
	})
	_, err = maker.ReceiveWithin(ctx, 100*time.Millisecond, comms.MatchConversation(comms.ConvOrderPayment))
	require.ErrorIs(t, err, comms.ErrReceiveTimeout)
}

func TestRejectedOrderIsForgotten(t *testing.T) {
	cfg := testCustomerConfig()
	net, maker, stop := startCustomer(t, cfg)
	defer stop()

	ctx := context.Background()
	announceDay(t, net, cfg.Name, 1)

	msg, err := maker.ReceiveWithin(ctx, time.Second, comms.MatchConversation(comms.ConvOrderRequest))
	require.NoError(t, err)
	order := msg.Payload.(comms.OrderRequest).Order

	replyToCustomer(t, net, cfg.Name, comms.Disconfirm, comms.ConvOrderResponse,
		comms.OrderDecision{OrderID: order.ID})

	// A shipment for the rejected order is ignored, so no payment comes.
	replyToCustomer(t, net, cfg.Name, comms.Inform, comms.ConvOrderShipment, comms.Shipment{
		OrderID:  order.ID,
		Quantity: order.Quantity,
	})
	_, err = maker.ReceiveWithin(ctx, 100*time.Millisecond, comms.MatchConversation(comms.ConvOrderPayment))
	require.ErrorIs(t, err, comms.ErrReceiveTimeout)
}
