package comms

// Performative classifies the intent of a message, mirroring the
// request/inform/confirm speech acts the trading protocol is built on.
type Performative int

const (
	Request Performative = iota
	QueryIf
	Inform
	Confirm
	Disconfirm
)

func (p Performative) String() string {
	switch p {
	case Request:
		return "request"
	case QueryIf:
		return "query-if"
	case Inform:
		return "inform"
	case Confirm:
		return "confirm"
	case Disconfirm:
		return "disconfirm"
	default:
		return "unknown"
	}
}

// Conversation identifiers correlate a request with its replies. A
// participant must not assume ordering across different conversations.
const (
	ConvDayCycle          = "day-cycle"
	ConvSupplierDetails   = "supplier-details"
	ConvOrderRequest      = "order-request"
	ConvOrderResponse     = "order-response"
	ConvOrderConfirmation = "order-confirmation"
	ConvStockQuery        = "stock-query"
	ConvStockResponse     = "stock-response"
	ConvPurchase          = "purchase"
	ConvSupplierPayment   = "supplier-payment"
	ConvComponentDelivery = "component-delivery"
	ConvOrderShipment     = "order-shipment"
	ConvOrderPayment      = "order-payment"
)

// Message is the envelope every participant exchanges. Payload is one of
// the closed set of variants in payloads.go.
type Message struct {
	Performative Performative
	Conversation string
	Sender       string
	Receiver     string
	Payload      Payload
}

// Filter selects messages a receive operation is willing to accept.
// Non-matching messages are kept aside for later receives.
type Filter func(Message) bool

// Any accepts every message.
func Any(Message) bool { return true }

// MatchConversation accepts messages belonging to one conversation.
func MatchConversation(conv string) Filter {
	return func(m Message) bool { return m.Conversation == conv }
}

// MatchPerformative accepts messages with one of the given performatives.
func MatchPerformative(ps ...Performative) Filter {
	return func(m Message) bool {
		for _, p := range ps {
			if m.Performative == p {
				return true
			}
		}
		return false
	}
}

// MatchSender accepts messages from one named participant.
func MatchSender(name string) Filter {
	return func(m Message) bool { return m.Sender == name }
}

// And accepts messages matching all given filters.
func And(filters ...Filter) Filter {
	return func(m Message) bool {
		for _, f := range filters {
			if !f(m) {
				return false
			}
		}
		return true
	}
}

// Or accepts messages matching at least one of the given filters.
func Or(filters ...Filter) Filter {
	return func(m Message) bool {
		for _, f := range filters {
			if f(m) {
				return true
			}
		}
		return false
	}
}
