package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"petchef/internal/client"
	"petchef/internal/pkg/common"
)

func newRemoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Query a running petchef API server",
	}
	cmd.PersistentFlags().String("server", "http://localhost:8787", "API base URL")
	cmd.PersistentFlags().Duration("timeout", 10*time.Second, "request timeout")

	suggest := &cobra.Command{
		Use:   "suggest",
		Short: "Recipe suggestions from the server inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client().SuggestRecipes(cmd.Context(), common.RecipeVariant(a.v.GetString("variant")), a.v.GetString("pet"))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	suggest.Flags().String("variant", string(common.VariantHuman), "recipe variant: human or pet")

	cmd.AddCommand(
		suggest,
		&cobra.Command{
			Use:   "duo",
			Short: "Duo suggestions from the server inventory",
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := a.client().SuggestDuos(cmd.Context(), a.v.GetString("pet"))
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			},
		},
		&cobra.Command{
			Use:   "calories",
			Short: "Calories per meal for a registered pet",
			RunE: func(cmd *cobra.Command, args []string) error {
				petID := a.v.GetString("pet")
				if petID == "" {
					return errors.New("--pet is required")
				}
				res, err := a.client().PetCalories(cmd.Context(), petID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			},
		},
	)

	for _, sub := range cmd.Commands() {
		sub.Flags().String("pet", "", "pet id")
	}
	return cmd
}

func (a *app) client() *client.Client {
	return client.New(a.v.GetString("server"), a.v.GetDuration("timeout"))
}
