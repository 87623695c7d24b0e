package cli

import (
	"context"
	"fmt"

	"honey-shop/internal/domain"
	"honey-shop/internal/repository"
	"honey-shop/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// CatalogSeed is the starter catalog of six honeys
func CatalogSeed() []*domain.Product {
	return []*domain.Product{
		{
			Name:        "Wildflower Honey",
			Description: "Delicate honey with the scent of meadow flowers, gathered from mixed herbs in a clean rural area.",
			Price:       decimal.NewFromInt(650),
			Image:       "https://images.unsplash.com/photo-1587049352846-4a222e784d38?auto=format&fit=crop&w=800&q=80",
			Stock:       50,
		},
		{
			Name:        "Linden Honey",
			Description: "Fragrant honey with a rich linden taste. Traditionally taken for colds.",
			Price:       decimal.NewFromInt(750),
			Image:       "https://images.unsplash.com/photo-1558583055-d7ac93557d05?auto=format&fit=crop&w=800&q=80",
			Stock:       30,
		},
		{
			Name:        "Buckwheat Honey",
			Description: "Dark honey with the distinctive taste of buckwheat. Rich in iron and trace elements.",
			Price:       decimal.NewFromInt(700),
			Image:       "https://images.unsplash.com/photo-1555878453-4efd73c9640f?auto=format&fit=crop&w=800&q=80",
			Stock:       40,
		},
		{
			Name:        "Acacia Honey",
			Description: "Light honey with a gentle acacia aroma. Slow to crystallize and suitable for children.",
			Price:       decimal.NewFromInt(800),
			Image:       "https://images.unsplash.com/photo-1582993728550-c3c3d51c4e08?auto=format&fit=crop&w=800&q=80",
			Stock:       25,
		},
		{
			Name:        "Mountain Honey",
			Description: "Collected from alpine meadows, with the full flavour of mountain herbs.",
			Price:       decimal.NewFromInt(900),
			Image:       "https://images.unsplash.com/photo-1595475207225-428b62bda831?auto=format&fit=crop&w=800&q=80",
			Stock:       20,
		},
		{
			Name:        "Chestnut Honey",
			Description: "Dark honey with a bold character. Rich in minerals and antioxidants.",
			Price:       decimal.NewFromInt(850),
			Image:       "https://images.unsplash.com/photo-1600657644140-aa5b5fd2b3c9?auto=format&fit=crop&w=800&q=80",
			Stock:       15,
		},
	}
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert or refresh the starter catalog",
		Long: `Upserts the six starter honeys by name. Existing products keep their
ids, so orders that reference them stay valid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			db := e.db.DB()
			products := CatalogSeed()
			svc := service.NewProductService(repository.NewProductRepository(db), repository.NewUnitOfWork(db))
			if err := svc.Seed(context.Background(), products); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}

			for _, p := range products {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Price, p.Stock)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", len(products))
			return nil
		},
	}
}
