package cli

import (
	"github.com/spf13/cobra"

	"petchef/internal/core/recipe"
	"petchef/internal/core/rules"
	"petchef/internal/pkg/common"
)

func newRankCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank catalog recipes of one variant against the catalog inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			svc := recipe.NewRecipeService(base, a.v.GetInt("limit"))
			res, err := svc.Suggest(cmd.Context(), common.RecipeVariant(a.v.GetString("variant")), a.v.GetString("pet"))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	addCatalogFlag(cmd)
	cmd.Flags().String("variant", string(common.VariantHuman), "recipe variant: human or pet")
	cmd.Flags().String("pet", "", "pet id whose allergies exclude pet recipes")
	cmd.Flags().Int("limit", recipe.DefaultSuggestLimit, "maximum number of suggestions")
	return cmd
}

func newDuoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duo",
		Short: "Pair human and pet recipes that share a base dish",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			res, err := recipe.NewDuoService(base).Suggest(cmd.Context(), a.v.GetString("pet"))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	addCatalogFlag(cmd)
	cmd.Flags().String("pet", "", "pet id whose allergies exclude pet recipes")
	return cmd
}

func newCaloriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calories",
		Short: "Estimate kcal per meal for a pet (two meals a day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			weight := a.v.GetFloat64("weight")
			if weight <= 0 {
				return common.NewValidationError("--weight must be positive")
			}

			pet := common.PetProfile{
				Species:       common.Species(a.v.GetString("species")),
				WeightKg:      weight,
				ActivityLevel: common.ActivityLevel(a.v.GetString("activity")),
			}
			return writeJSON(cmd.OutOrStdout(), recipe.CaloriesResult{
				KcalPerMeal: rules.EstimateCaloriesPerMeal(pet),
			})
		},
	}
	cmd.Flags().String("species", string(common.SpeciesDog), "dog, cat or other")
	cmd.Flags().Float64("weight", 0, "body weight in kg")
	cmd.Flags().String("activity", string(common.ActivityNormal), "low, normal or high")
	return cmd
}
