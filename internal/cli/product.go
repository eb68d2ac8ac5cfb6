// filepath: internal/cli/product.go
package cli

import (
	"context"
	"fmt"
	"pantry/internal/models"

	"github.com/spf13/cobra"
)

var (
	// Product flags
	productURL      string
	productCategory string
	productBarcode  string
	productImageURL string
	productRename   string
	productByCode   string
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage products",
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products with their category and count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if productByCode != "" {
				p, err := a.Inventory.FindByBarcode(ctx, productByCode)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), []models.Product{*p})
			}
			products, err := a.Inventory.ListProducts(ctx, productCategory)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), products)
		})
	},
}

var productAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a product to an existing category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := models.ProductCreatePayload{
			Name:     args[0],
			URL:      productURL,
			Category: productCategory,
		}
		if cmd.Flags().Changed("barcode") {
			payload.Barcode = &productBarcode
		}
		if cmd.Flags().Changed("image-url") {
			payload.ImageFrontSmallURL = &productImageURL
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			p, err := a.Inventory.AddProduct(ctx, payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		})
	},
}

var productUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update fields of a product; an empty --barcode or --image-url clears it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := models.ProductUpdatePayload{}
		if cmd.Flags().Changed("name") {
			payload.Name = &productRename
		}
		if cmd.Flags().Changed("url") {
			payload.URL = &productURL
		}
		if cmd.Flags().Changed("category") {
			payload.Category = &productCategory
		}
		if cmd.Flags().Changed("barcode") {
			payload.Barcode = &productBarcode
		}
		if cmd.Flags().Changed("image-url") {
			payload.ImageFrontSmallURL = &productImageURL
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			p, err := a.Inventory.UpdateProduct(ctx, args[0], payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		})
	},
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a product and its count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.Inventory.DeleteProduct(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %q\n", args[0])
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(productCmd)
	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productAddCmd)
	productCmd.AddCommand(productUpdateCmd)
	productCmd.AddCommand(productDeleteCmd)

	productListCmd.Flags().StringVar(&productCategory, "category", "", "Only list products of this category.")
	productListCmd.Flags().StringVar(&productByCode, "barcode", "", "Look up the product carrying this barcode.")

	productAddCmd.Flags().StringVar(&productURL, "url", "", "Image URL of the product.")
	productAddCmd.Flags().StringVar(&productCategory, "category", "", "Category of the product.")
	productAddCmd.Flags().StringVar(&productBarcode, "barcode", "", "Barcode (8 to 13 digits).")
	productAddCmd.Flags().StringVar(&productImageURL, "image-url", "", "Small front image URL.")
	productAddCmd.MarkFlagRequired("url")
	productAddCmd.MarkFlagRequired("category")

	productUpdateCmd.Flags().StringVar(&productRename, "name", "", "New product name.")
	productUpdateCmd.Flags().StringVar(&productURL, "url", "", "New image URL.")
	productUpdateCmd.Flags().StringVar(&productCategory, "category", "", "New category.")
	productUpdateCmd.Flags().StringVar(&productBarcode, "barcode", "", "New barcode; empty clears it.")
	productUpdateCmd.Flags().StringVar(&productImageURL, "image-url", "", "New small front image URL; empty clears it.")
}
