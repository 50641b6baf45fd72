package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scentlab/scentmatch/internal/catalog"
	"github.com/scentlab/scentmatch/internal/ui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog utilities",
}

var catalogInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show catalog statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		styles := ui.DefaultStyles()

		docs, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}

		brands := make(map[string]int)
		withYear := 0
		withText := 0
		for _, d := range docs {
			brands[d.Brand]++
			if d.Year != nil {
				withYear++
			}
			if d.SearchText != "" {
				withText++
			}
		}

		fmt.Println(styles.Title.Render("Catalog: ") + cfg.Catalog.Path)
		fmt.Printf("  documents:   %d\n", len(docs))
		fmt.Printf("  brands:      %d\n", len(brands))
		fmt.Printf("  with year:   %d\n", withYear)
		fmt.Printf("  with notes:  %d\n", withText)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogInfoCmd)
	rootCmd.AddCommand(catalogCmd)
}
