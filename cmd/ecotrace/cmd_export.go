package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/HerbHall/ecotrace/internal/catalog"
	pkgcatalog "github.com/HerbHall/ecotrace/pkg/catalog"
	"github.com/HerbHall/ecotrace/pkg/models"
)

func runExport(args []string, stdout io.Writer) error {
	def := catalog.DefaultCriteria()

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	category := fs.String("category", string(def.Category), "category to include")
	sortKey := fs.String("sort", string(def.Sort), "sort key (eco-desc, eco-asc, price-asc, price-desc, carbon-asc)")
	ecoMin := fs.Float64("eco-min", def.EcoScoreRange.Low, "minimum eco-score")
	ecoMax := fs.Float64("eco-max", def.EcoScoreRange.High, "maximum eco-score")
	carbonMin := fs.Float64("carbon-min", def.CarbonRange.Low, "minimum carbon footprint (kg CO2e)")
	carbonMax := fs.Float64("carbon-max", def.CarbonRange.High, "maximum carbon footprint (kg CO2e)")
	output := fs.String("output", "-", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := catalog.Criteria{
		Category:      models.Category(*category),
		EcoScoreRange: catalog.Range{Low: *ecoMin, High: *ecoMax},
		CarbonRange:   catalog.Range{Low: *carbonMin, High: *carbonMax},
		Sort:          catalog.SortKey(*sortKey),
	}

	products, err := catalog.NewEngine(pkgcatalog.NewCatalog()).Query(c)
	if err != nil {
		return err
	}

	w := stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := catalog.WriteCSV(w, products); err != nil {
		return err
	}
	if *output != "-" {
		fmt.Fprintf(stdout, "Exported %d products to %s\n", len(products), *output)
	}
	return nil
}
