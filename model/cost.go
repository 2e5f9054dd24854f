package model

import (
	"fmt"
	"sort"
	"strings"
)

// Currency is one of the closed set of currencies an army is priced in.
type Currency string

const (
	CurrencyDucats Currency = "ducats"
	CurrencyGlory  Currency = "glory"
)

// Currencies lists every known currency in display order.
var Currencies = []Currency{CurrencyDucats, CurrencyGlory}

// Valid reports whether c is a known currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyDucats, CurrencyGlory:
		return true
	}
	return false
}

// Cost is a price in one or more currencies. A map keeps at most one
// amount per currency; an empty or nil Cost is free.
type Cost map[Currency]int

// Free reports whether the cost has no positive amount in any currency.
func (c Cost) Free() bool {
	for _, amount := range c {
		if amount != 0 {
			return false
		}
	}
	return true
}

// Amount returns the amount in the given currency (0 when absent).
func (c Cost) Amount(cur Currency) int {
	return c[cur]
}

// Add returns a new Cost holding c + o. Neither operand is modified.
func (c Cost) Add(o Cost) Cost {
	out := make(Cost, len(c)+len(o))
	for cur, amount := range c {
		out[cur] += amount
	}
	for cur, amount := range o {
		out[cur] += amount
	}
	return out
}

// Clone returns an independent copy. A nil Cost clones to an empty one.
func (c Cost) Clone() Cost {
	out := make(Cost, len(c))
	for cur, amount := range c {
		out[cur] = amount
	}
	return out
}

// String renders the cost as "10 ducats, 1 glory", or "free".
func (c Cost) String() string {
	if c.Free() {
		return "free"
	}
	keys := make([]string, 0, len(c))
	for cur := range c {
		keys = append(keys, string(cur))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if c[Currency(k)] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", c[Currency(k)], k))
	}
	return strings.Join(parts, ", ")
}
