package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scentlab/scentmatch/internal/search"
	"github.com/scentlab/scentmatch/internal/ui"
)

var (
	recommendWeather string
	recommendK       int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query...]",
	Short: "Recommend fragrances for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		styles := ui.DefaultStyles()

		provider := search.NewProvider(cfg, logger)
		engine, err := provider.Get(cmd.Context())
		if err != nil {
			return err
		}

		results, err := engine.Recommend(cmd.Context(), query, recommendWeather, recommendK)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println(styles.Muted.Render("no matches"))
			return nil
		}

		fmt.Println(styles.Title.Render("Recommendations for ") + styles.Name.Render(query))
		for i, res := range results {
			line := fmt.Sprintf("%2d. %s %s",
				i+1,
				styles.Brand.Render(res.Document.Brand),
				styles.Name.Render(res.Document.Name))
			if res.Document.Year != nil {
				line += styles.Muted.Render(fmt.Sprintf(" (%d)", *res.Document.Year))
			}
			line += styles.Score.Render(fmt.Sprintf("  %.3f", res.Score))
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendWeather, "weather", "", "weather description for context scoring")
	recommendCmd.Flags().IntVarP(&recommendK, "count", "k", 0, "number of recommendations (default from config)")
	rootCmd.AddCommand(recommendCmd)
}
