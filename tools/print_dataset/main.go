package main

import (
	"fmt"
	"os"

	"github.com/rpgo/fire-calculator/internal/calculation"
	"github.com/shopspring/decimal"
)

func main() {
	ds := calculation.DefaultHistoricalDataset()
	if len(os.Args) > 1 {
		var err error
		ds, err = calculation.LoadHistoricalCSVFile(os.Args[1])
		if err != nil {
			panic(err)
		}
	}

	first, last := ds.Range()
	fmt.Printf("Dataset %s (%s): %d years, %d-%d\n", ds.Name, ds.Version, ds.Len(), first, last)

	hundred := decimal.NewFromInt(100)
	fmt.Printf("%-10s %8s %8s %8s %8s %8s\n", "series", "mean%", "median%", "stddev%", "min%", "max%")
	for _, name := range []string{calculation.SeriesStocks, calculation.SeriesBonds, calculation.SeriesCash, calculation.SeriesInflation} {
		st, err := ds.Statistics(name)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%-10s %8s %8s %8s %8s %8s\n", name,
			st.Mean.Mul(hundred).StringFixed(2),
			st.Median.Mul(hundred).StringFixed(2),
			st.StdDev.Mul(hundred).StringFixed(2),
			st.Min.Mul(hundred).StringFixed(2),
			st.Max.Mul(hundred).StringFixed(2))
	}

	issues, err := ds.ValidateDataQuality()
	if err != nil {
		panic(err)
	}
	if len(issues) == 0 {
		fmt.Println("No data quality issues")
		return
	}
	fmt.Println("Data quality issues:")
	for _, issue := range issues {
		fmt.Printf("  - %s\n", issue)
	}
}
