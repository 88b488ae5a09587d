// Command settle computes who pays whom for a game described in a JSON file.
//
//	settle game.json
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fastprodman/pokerledger/internal/settlement"
	"github.com/pterm/pterm"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <game.json>\n", os.Args[0])
		os.Exit(2)
	}

	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

	err := run(os.Args[1])
	if err != nil {
		logger.Error("settle failed", "error", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open game file: %w", err)
	}
	//nolint:errcheck
	defer f.Close()

	players, manual, rate, err := readGame(f)
	if err != nil {
		return err
	}

	err = pterm.DefaultTable.WithHasHeader().WithData(balanceTable(players, rate)).Render()
	if err != nil {
		return fmt.Errorf("render balances: %w", err)
	}

	res, err := settlement.Settle(players, manual, rate)
	if err != nil {
		printValidation(err)
		return err
	}

	if len(res.Settlements) == 0 {
		pterm.Success.Println("Everyone is square, nothing to pay")
		return nil
	}

	pterm.Println()

	err = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(transferTable(players, res)).Render()
	if err != nil {
		return fmt.Errorf("render transfers: %w", err)
	}

	pterm.Success.Printfln("%d transfers, %d generated", len(res.Settlements), len(res.Generated()))

	return nil
}

func printValidation(err error) {
	var (
		incomplete *settlement.IncompleteDataError
		unbalanced *settlement.UnbalancedTotalsError
	)

	switch {
	case errors.As(err, &incomplete):
		pterm.DefaultBox.WithTitle(pterm.LightRed("Missing return buy-ins")).Println(incomplete.Names())
	case errors.As(err, &unbalanced):
		pterm.DefaultBox.WithTitle(pterm.LightRed("Totals do not balance")).Println(unbalanced.Hint())
	}
}
