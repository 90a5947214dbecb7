package domain

import "time"

// PriceQuote is the fixed cost and target response time for a priority.
type PriceQuote struct {
	Price        int64
	ResponseTime time.Duration
}

// SubunitMultiplier converts rupees to paise for the payment gateway.
const SubunitMultiplier = 100

var priceTable = map[TicketPriority]PriceQuote{
	TicketPriorityLow:    {Price: 99, ResponseTime: 48 * time.Hour},
	TicketPriorityMedium: {Price: 199, ResponseTime: 24 * time.Hour},
	TicketPriorityHigh:   {Price: 299, ResponseTime: 4 * time.Hour},
	TicketPriorityUrgent: {Price: 499, ResponseTime: time.Hour},
}

// QuoteForPriority returns the fixed price table entry for a priority.
// Unknown priorities fall back to medium, matching the default priority.
func QuoteForPriority(p TicketPriority) PriceQuote {
	if quote, ok := priceTable[p]; ok {
		return quote
	}
	return priceTable[TicketPriorityMedium]
}

// AmountInSubunits returns the gateway charge amount in paise.
func AmountInSubunits(p TicketPriority) int64 {
	return QuoteForPriority(p).Price * SubunitMultiplier
}
