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

package cmd

import (
	"context"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/provider"
	"github.com/dentflow/clinicsync/summary"
	"github.com/spf13/cobra"
)

// options for the inventory cmds.
var (
	invLow      bool
	invExpiring string
	invName     string
	invCategory string
	invQuantity int
	invUnit     string
	invMinimum  int
	invSupplier string
	invExpiry   string
)

// inventoryCmd represents the inventory command.
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List, add or restock inventory",
	Long: `List, add or restock inventory.

With no sub-command, lists all inventory items. --low only lists items whose
total quantity is below their minimum level.

--expiring instead lists the individual lots that will have expired within the
given duration (eg. --expiring=720h), including any that already have, soonest
first. --expiring with no value uses a window of 30 days.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			if invExpiring != "" {
				window, err := time.ParseDuration(invExpiring)
				if err != nil {
					return Error("--expiring must be a duration like 720h")
				}

				printExpiring(a.inventory.ExpiringWithin(window, time.Now()))

				return nil
			}

			items := a.inventory.Inventories()
			if invLow {
				items = a.inventory.LowStock()
			}

			printInventory(items)

			return nil
		})
	},
}

// inventoryAddCmd represents the inventory add command.
var inventoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an inventory item with its first lot",
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			if err := requireFlags(map[string]string{
				"name": invName, "category": invCategory, "supplier": invSupplier, "expiry": invExpiry,
			}); err != nil {
				return err
			}

			expiry, err := parseDate("expiry", invExpiry)
			if err != nil {
				return err
			}

			if err = a.inventory.AddItem(context.Background(), api.NewInventoryItem{
				Name:         invName,
				Category:     invCategory,
				Quantity:     invQuantity,
				Unit:         invUnit,
				MinimumLevel: invMinimum,
				Supplier:     invSupplier,
				ExpiryDate:   expiry,
			}); err != nil {
				return err
			}

			a.wait()
			info("added %s %s of %s", count(invQuantity), invUnit, invName)
			printInventory(a.inventory.Inventories())

			return nil
		})
	},
}

// inventoryRestockCmd represents the inventory restock command.
var inventoryRestockCmd = &cobra.Command{
	Use:   "restock <item id>",
	Short: "Add a lot to an inventory item",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		run(func(a *app) error {
			if err := requireFlags(map[string]string{"expiry": invExpiry}); err != nil {
				return err
			}

			expiry, err := parseDate("expiry", invExpiry)
			if err != nil {
				return err
			}

			if err = a.inventory.Restock(context.Background(), api.ID(args[0]),
				api.Restock{Quantity: invQuantity, ExpiryDate: expiry}); err != nil {
				return err
			}

			a.wait()
			info("restocked item %s with %s", args[0], count(invQuantity))
			printInventory(a.inventory.Inventories())

			return nil
		})
	},
}

func printInventory(items []api.InventoryItem) {
	table := newTable("ID", "Name", "Category", "Quantity", "Minimum", "Low", "Supplier",
		"Next expiry", "Last restocked")

	for _, item := range items {
		table.Append([]string{
			item.ID.String(),
			item.Name,
			item.Category,
			count(item.TotalQuantity) + " " + item.Unit,
			count(item.MinimumLevel),
			yesNo(item.IsLowStock()),
			item.Supplier,
			date(item.CloselyExpiryDate),
			relative(item.LastReStockedDate),
		})
	}

	table.Render()
}

func printExpiring(lots []provider.ExpiringLot) {
	now := time.Now()
	table := newTable("Item", "Lot", "Quantity", "Expires", "Expired")

	for _, lot := range lots {
		table.Append([]string{
			lot.Item.Name,
			lot.Stock.ID.String(),
			count(lot.Stock.Quantity) + " " + lot.Item.Unit,
			lot.Expires.Format(dateLayout) + " (" + relativeTime(lot.Expires) + ")",
			yesNo(lot.Expired(now)),
		})
	}

	table.Render()
}

func init() {
	RootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(inventoryAddCmd, inventoryRestockCmd)

	inventoryCmd.Flags().BoolVar(&invLow, "low", false, "only list items low on stock")
	inventoryCmd.Flags().StringVar(&invExpiring, "expiring", "", "list lots expiring within this duration")
	inventoryCmd.Flags().Lookup("expiring").NoOptDefVal = summary.DefaultExpiryWindow.String()

	f := inventoryAddCmd.Flags()
	f.StringVar(&invName, "name", "", "item name")
	f.StringVar(&invCategory, "category", "", "category")
	f.StringVar(&invUnit, "unit", "", "unit of measure, eg. boxes")
	f.IntVar(&invMinimum, "minimum", 0, "minimum level before the item counts as low on stock")
	f.StringVar(&invSupplier, "supplier", "", "supplier")

	for _, c := range []*cobra.Command{inventoryAddCmd, inventoryRestockCmd} {
		c.Flags().IntVar(&invQuantity, "quantity", 1, "quantity in this lot")
		c.Flags().StringVar(&invExpiry, "expiry", "", "expiry date of this lot, YYYY-MM-DD")
	}
}
