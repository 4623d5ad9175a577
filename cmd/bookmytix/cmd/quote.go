package cmd

import (
	"fmt"

	"github.com/bookmytix/admin-core/internal/app"
	"github.com/bookmytix/admin-core/internal/pricing"
	"github.com/spf13/cobra"
)

var (
	quoteFlight pricing.Flight
	quoteDemo   bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a flight against the markup rules",
	Long: `Price a flight against the markup rules and print the result as JSON.

With --demo the built-in sample rules are used and no database is opened.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if quoteFlight.Price < 0 {
			return fmt.Errorf("price must be non-negative")
		}
		quote, err := app.Quote(cmd.Context(), appConfig(), app.QuoteParams{Flight: quoteFlight, Demo: quoteDemo})
		if err != nil {
			return err
		}
		raw, err := app.MarshalQuote(quote)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteFlight.FlightNumber, "flight-number", "", "flight number")
	quoteCmd.Flags().StringVar(&quoteFlight.Airline, "airline", "", "airline name, matched exactly")
	quoteCmd.Flags().StringVar(&quoteFlight.Origin, "origin", "", "origin airport code")
	quoteCmd.Flags().StringVar(&quoteFlight.Destination, "destination", "", "destination airport code")
	quoteCmd.Flags().Int64Var(&quoteFlight.Price, "price", 0, "base price in whole currency units")
	quoteCmd.Flags().BoolVar(&quoteDemo, "demo", false, "use the built-in sample rules")
	_ = quoteCmd.MarkFlagRequired("price")
}
