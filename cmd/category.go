package cmd

import (
	"fmt"
	"strings"

	"github.com/recipebook/recipebook/internal/database"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage recipe categories",
}

var categoryAddCmd = &cobra.Command{
	Use:     "add <name>...",
	Short:   "Add categories",
	Example: `recipebook category add Soups "Main Courses"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openDatabase(loadConfig())
		defer db.Close() //nolint: errcheck

		names := lo.Uniq(lo.Compact(lo.Map(args, func(name string, _ int) string {
			return strings.TrimSpace(name)
		})))
		if len(names) == 0 {
			return fmt.Errorf("category names must not be empty")
		}

		existing, err := db.ListCategories(cmd.Context())
		if err != nil {
			return err
		}
		known := lo.SliceToMap(existing, func(c database.Category) (string, uint) {
			return c.Name, c.ID
		})

		for _, name := range names {
			if id, ok := known[name]; ok {
				fmt.Printf("Category %q already exists (id %d)\n", name, id)
				continue
			}
			category, err := db.CreateCategory(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Printf("Added category %q (id %d)\n", category.Name, category.ID)
		}
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openDatabase(loadConfig())
		defer db.Close() //nolint: errcheck

		categories, err := db.ListCategories(cmd.Context())
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			fmt.Println("No categories yet.")
			return nil
		}

		for _, category := range categories {
			recipes, err := db.ListRecipesByCategory(cmd.Context(), category.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%4d  %-30s %d recipes\n", category.ID, category.Name, len(recipes))
		}
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd)
	rootCmd.AddCommand(categoryCmd)
}
