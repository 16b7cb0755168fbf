// Package pools provides a sync.Pool for *quote.Quote values, so the hot
// mapper parsing path can recycle record allocations instead of handing
// the garbage collector one per line.
package pools

import (
	"sync"

	"github.com/AlexScherba16/itask/quote"
)

// Quotes is the shared pool of *quote.Quote scratch values.
var Quotes = sync.Pool{
	New: func() interface{} {
		return new(quote.Quote)
	},
}

// GetQuote returns a zeroed *quote.Quote from the pool.
func GetQuote() *quote.Quote {
	q := Quotes.Get().(*quote.Quote)
	*q = quote.Quote{}
	return q
}

// PutQuote returns q to the pool. Callers must not retain q afterward.
func PutQuote(q *quote.Quote) {
	Quotes.Put(q)
}
