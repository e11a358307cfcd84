// Command fintrack-cli is a terminal consumer of the transaction API. It
// keeps a local projection of one user's transactions and refreshes it
// after every mutation, the same way the mobile client does.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"fintrack/internal/client"
	"fintrack/internal/core"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("server", envOr("FINTRACK_SERVER", "http://localhost:8000"), "API base URL")
	userID := flag.String("user", envOr("FINTRACK_USER", ""), "user id")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "missing -user (or FINTRACK_USER)")
		os.Exit(2)
	}
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cache := client.NewProjectionCache(client.NewClient(*serverURL, nil), *userID)

	var err error
	switch args[0] {
	case "list":
		err = cache.Refresh(ctx)
	case "add":
		err = runAdd(ctx, cache, args[1:])
	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "usage: fintrack-cli delete <transaction-id>")
			os.Exit(2)
		}
		err = cache.Delete(ctx, args[1])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	printProjection(cache.Snapshot())
}

func runAdd(ctx context.Context, cache *client.ProjectionCache, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "transaction title")
	amount := fs.String("amount", "", "signed amount in major units, e.g. -4.50")
	category := fs.String("category", string(core.CategoryOther), "category id")
	description := fs.String("desc", "", "optional description")
	date := fs.String("date", "", "date (YYYY-MM-DD), defaults to today")
	_ = fs.Parse(args)

	d, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", *amount, err)
	}
	money, err := core.ParseAmount(d)
	if err != nil {
		return err
	}

	when := time.Now().UTC()
	if *date != "" {
		when, err = time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", *date, err)
		}
	}

	return cache.Add(ctx, core.Draft{
		Title:       *title,
		Description: *description,
		Category:    core.Category(*category),
		Amount:      money,
		Date:        when,
	})
}

func printProjection(proj client.Projection) {
	for _, tx := range proj.Transactions {
		fmt.Printf("%s  %-10s  %-24s  %10s\n",
			tx.Date.Format("2006-01-02"), tx.Category, tx.Title, tx.Amount.String())
	}
	fmt.Printf("\nincome %s  expenses %s  balance %s\n",
		proj.Summary.TotalIncome.String(),
		proj.Summary.TotalExpense.String(),
		proj.Summary.Balance.String())
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: fintrack-cli -user <id> [-server URL] <command>

commands:
  list                              show the user's transactions and totals
  add -title T -amount A [flags]    create a transaction and refresh
  delete <transaction-id>           delete a transaction and refresh`)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
