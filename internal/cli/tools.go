package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"restaurantportal/internal/models"
	"restaurantportal/internal/orders"
	"restaurantportal/internal/pricing"
)

type priceOptions struct {
	DiscountType  string
	DiscountValue float64
	JSON          bool
}

// NewPriceCommand prints the final price the storefront would show.
func NewPriceCommand() *cobra.Command {
	opts := &priceOptions{}

	cmd := &cobra.Command{
		Use:          "price <price>",
		Short:        "Compute the discounted price of an item",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q", args[0])
			}
			discountType, ok := models.ParseDiscountType(opts.DiscountType)
			if !ok {
				return fmt.Errorf("invalid discount type %q: must be one of none, amount, percentage", opts.DiscountType)
			}

			breakdown := pricing.Describe(price, discountType, opts.DiscountValue)
			if opts.JSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(breakdown)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s", pricing.FormatPrice(breakdown.Price), pricing.FormatPrice(breakdown.FinalPrice))
			if breakdown.Label != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s)", breakdown.Label)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.DiscountType, "discount-type", "none", "none|amount|percentage")
	cmd.Flags().Float64Var(&opts.DiscountValue, "discount-value", 0, "discount amount or percentage")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the breakdown as JSON")

	return cmd
}

// NewSlotsCommand lists the pickup slots offered at a given moment.
func NewSlotsCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:          "slots",
		Short:        "List pickup time slots",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: %w", at, err)
				}
				now = parsed
			}
			for _, slot := range orders.PickupSlots(now) {
				fmt.Fprintln(cmd.OutOrStdout(), slot)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "reference time (RFC3339), defaults to now")

	return cmd
}
