package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	calc "github.com/rpgo/fire-calculator/internal/calculation"
	"github.com/rpgo/fire-calculator/internal/config"
	"github.com/rpgo/fire-calculator/internal/domain"
)

// debug_retirement prints the months around each phase change of a single run
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_retirement <plan-file> [seed]")
		return
	}
	p := config.NewInputParser()
	plan, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	seed := plan.Simulation.Seed
	if len(os.Args) > 2 {
		v, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil {
			panic(err)
		}
		seed = uint32(v)
	}

	engine, err := calc.NewSimulationEngineForPlan(plan, seed, nil)
	if err != nil {
		panic(err)
	}
	res, err := engine.Run(context.Background())
	if err != nil {
		panic(err)
	}

	fmt.Printf("Required portfolio: %s  success: %v\n", res.Context.RequiredPortfolio.StringFixed(2), res.Success)
	found := false
	for i := 1; i < len(res.Data); i++ {
		if res.Data[i].Phase == res.Data[i-1].Phase {
			continue
		}
		found = true
		fmt.Printf("\n%s -> %s at period %d (age %.2f)\n", res.Data[i-1].Phase, res.Data[i].Phase, res.Data[i].Period, res.Data[i].Age)
		lo, hi := i-3, i+3
		if lo < 0 {
			lo = 0
		}
		if hi > len(res.Data) {
			hi = len(res.Data)
		}
		for _, s := range res.Data[lo:hi] {
			printSnapshot(s)
		}
	}
	if !found {
		fmt.Println("No phase change; final period:")
		printSnapshot(res.Final())
	}
}

func printSnapshot(s domain.PeriodSnapshot) {
	cf := s.CashFlow
	fmt.Printf("  %4d %s %-12s total=%14s income=%10s expenses=%10s taxes=%9s contrib=%10s withdraw=%10s shortfall=%9s\n",
		s.Period, s.Date.Format("2006-01"), s.Phase,
		s.TotalValue.StringFixed(2), cf.Income.StringFixed(2), cf.Expenses.StringFixed(2), cf.Taxes.StringFixed(2),
		cf.Contributions.StringFixed(2), cf.Withdrawals.StringFixed(2), cf.Shortfall.StringFixed(2))
}
