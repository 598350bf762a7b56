/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package provider

import (
	"context"
	"slices"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/synced"
)

// InventoryAPI is the part of the API the Inventory provider uses.
type InventoryAPI interface {
	Inventory(ctx context.Context, token string) ([]api.InventoryItem, error)
	AddInventoryItem(ctx context.Context, token string, item api.NewInventoryItem) error
	Restock(ctx context.Context, token string, inventoryID api.ID, r api.Restock) error
}

// Inventory holds the clinic's stock.
type Inventory struct {
	group

	api InventoryAPI
	src synced.TokenSource

	items *synced.Resource[[]api.InventoryItem]
}

// NewInventory returns an Inventory bound to the given session.
func NewInventory(i InventoryAPI, src synced.TokenSource, cfg Config) *Inventory {
	inv := &Inventory{
		api:   i,
		src:   src,
		items: synced.New(i.Inventory, cfg.options("inventory", false)),
	}

	inv.group = group{inv.items}
	inv.items.Bind(src)

	return inv
}

// Inventories returns a copy of the most recently fetched items.
func (i *Inventory) Inventories() []api.InventoryItem {
	return slices.Clone(i.items.Data())
}

// Changed is the inventory flag.
func (i *Inventory) Changed() bool { return i.items.Changed() }

// SetChanged sets the inventory flag; raising it refetches the inventory.
func (i *Inventory) SetChanged(changed bool) { i.items.SetChanged(changed) }

// LowStock returns the held items whose total quantity is below their minimum
// level.
func (i *Inventory) LowStock() []api.InventoryItem {
	var low []api.InventoryItem

	for _, item := range i.items.Data() {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}

	return low
}

// ExpiringLot is a Stock lot along with the item it belongs to.
type ExpiringLot struct {
	Item    api.InventoryItem
	Stock   api.Stock
	Expires time.Time
}

// Expired returns true if the lot expired before the given time.
func (e ExpiringLot) Expired(now time.Time) bool {
	return e.Expires.Before(now)
}

// ExpiringWithin returns the non-empty lots that will have expired by now+d,
// including any that already have, soonest first. Lots without a parseable
// expiry date are ignored.
func (i *Inventory) ExpiringWithin(d time.Duration, now time.Time) []ExpiringLot {
	cutoff := now.Add(d)

	var lots []ExpiringLot

	for _, item := range i.items.Data() {
		for _, s := range item.Stocks {
			exp, ok := s.ExpiryDate.Time()
			if !ok || s.Quantity <= 0 || exp.After(cutoff) {
				continue
			}

			lots = append(lots, ExpiringLot{Item: item, Stock: s, Expires: exp})
		}
	}

	slices.SortStableFunc(lots, func(a, b ExpiringLot) int {
		return a.Expires.Compare(b.Expires)
	})

	return lots
}

// AddItem creates an inventory item with its first lot, then refetches the
// inventory.
func (i *Inventory) AddItem(ctx context.Context, item api.NewInventoryItem) error {
	return write(i.src, func(token string) error {
		return i.api.AddInventoryItem(ctx, token, item)
	}, i.items)
}

// Restock adds a lot to an existing item, then refetches the inventory.
func (i *Inventory) Restock(ctx context.Context, id api.ID, r api.Restock) error {
	return write(i.src, func(token string) error {
		return i.api.Restock(ctx, token, id, r)
	}, i.items)
}
