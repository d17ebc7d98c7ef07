package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the fixed-point scale of LOBSTER prices (dollar price × 10000).
const PriceScale = 10000

// EventType is the LOBSTER message event code (1..7).
type EventType int

// LOBSTER event type codes.
const (
	EventSubmission       EventType = 1 // new limit order
	EventCancellation     EventType = 2 // partial deletion of a limit order
	EventDeletion         EventType = 3 // total deletion of a limit order
	EventExecutionVisible EventType = 4 // execution of a visible limit order
	EventExecutionHidden  EventType = 5 // execution of a hidden limit order
	EventCrossTrade       EventType = 6 // auction trade
	EventTradingHalt      EventType = 7
)

var eventTypeNames = map[EventType]string{
	EventSubmission:       "submission",
	EventCancellation:     "cancellation",
	EventDeletion:         "deletion",
	EventExecutionVisible: "execution_visible",
	EventExecutionHidden:  "execution_hidden",
	EventCrossTrade:       "cross_trade",
	EventTradingHalt:      "trading_halt",
}

// String returns the LOBSTER name of the event type.
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// Direction is the trade side of an event: -1 sell, 1 buy.
type Direction int

// Direction values.
const (
	DirectionSell Direction = -1
	DirectionBuy  Direction = 1
)

// String returns "buy", "sell" or the raw value.
func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "buy"
	case DirectionSell:
		return "sell"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// EventRecord is one row of a LOBSTER message file.
type EventRecord struct {
	Time      float64   // seconds after midnight
	EventType EventType // 1..7
	OrderID   int64     // exchange order reference
	Size      int64     // shares
	Price     int64     // dollar price × 10000
	Direction Direction // -1 sell, 1 buy

	// Elapsed is the derived "Time (hh:mm:ss)" column.
	// Zero until the owning table is annotated.
	Elapsed time.Duration
}

// PriceDollars returns the exact dollar price.
func (r *EventRecord) PriceDollars() decimal.Decimal {
	return decimal.New(r.Price, -4)
}
