package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dogjoy/miniapp/internal/api"
)

func (a *app) newPetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pets",
		Aliases: []string{"pet"},
		Short:   "Manage the user's pets",
	}
	cmd.AddCommand(
		a.newPetsListCmd(),
		a.newPetsShowCmd(),
		a.newPetsAddCmd(),
		a.newPetsUpdateCmd(),
		a.newPetsDeleteCmd(),
	)
	return cmd
}

func (a *app) newPetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			pets, err := a.pets().List(ctx, a.session(cmd))
			if err != nil {
				return fmt.Errorf("list pets: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), pets)
			}
			renderPets(cmd.OutOrStdout(), pets)
			return nil
		},
	}
}

func (a *app) newPetsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <pet-id>",
		Short: "Show one pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			pet, err := a.pets().Get(ctx, a.session(cmd), args[0])
			if err != nil {
				return fmt.Errorf("get pet: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), pet)
			}
			renderPet(cmd.OutOrStdout(), pet)
			return nil
		},
	}
}

func petFlags(cmd *cobra.Command, in *api.PetInput) {
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Pet name")
	f.StringVar(&in.Breed, "breed", "", "Breed")
	f.IntVar(&in.Age, "age", 0, "Age in years")
	f.StringVar(&in.Description, "description", "", "Free-form notes")
}

func (a *app) newPetsAddCmd() *cobra.Command {
	var in api.PetInput

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a pet",
		Example: `  miniapp pets add --name Rex --breed Corgi --age 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			pet, err := a.pets().Add(ctx, a.session(cmd), in)
			if err != nil {
				return fmt.Errorf("add pet: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), pet)
			}
			successColor.Fprintf(cmd.OutOrStdout(), "✓ Added %s (id %s)\n", pet.Name, pet.ID)
			return nil
		},
	}
	petFlags(cmd, &in)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("breed")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}

func (a *app) newPetsUpdateCmd() *cobra.Command {
	var in api.PetInput

	cmd := &cobra.Command{
		Use:   "update <pet-id>",
		Short: "Change pet fields",
		Long:  "Change pet fields. Fields without a flag keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			svc := a.pets()
			sess := a.session(cmd)
			cur, err := svc.Get(ctx, sess, args[0])
			if err != nil {
				return fmt.Errorf("get pet: %w", err)
			}

			f := cmd.Flags()
			merged := api.PetInput{
				Name:        cur.Name,
				Breed:       cur.Breed,
				Age:         cur.Age,
				Description: cur.Description,
			}
			if f.Changed("name") {
				merged.Name = in.Name
			}
			if f.Changed("breed") {
				merged.Breed = in.Breed
			}
			if f.Changed("age") {
				merged.Age = in.Age
			}
			if f.Changed("description") {
				merged.Description = in.Description
			}

			pet, err := svc.Update(ctx, sess, args[0], merged)
			if err != nil {
				return fmt.Errorf("update pet: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), pet)
			}
			successColor.Fprintf(cmd.OutOrStdout(), "✓ Updated %s\n", pet.Name)
			return nil
		},
	}
	petFlags(cmd, &in)
	return cmd
}

func (a *app) newPetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <pet-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a pet",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			if err := a.pets().Delete(ctx, a.session(cmd), args[0]); err != nil {
				return fmt.Errorf("delete pet: %w", err)
			}
			if a.outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			}
			successColor.Fprintf(cmd.OutOrStdout(), "✓ Deleted pet %s\n", args[0])
			return nil
		},
	}
}
