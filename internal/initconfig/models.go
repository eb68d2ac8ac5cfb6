// filepath: internal/initconfig/models.go
package initconfig

// InitConfig is the root struct for parsing the TOML initialization file.
type InitConfig struct {
	Categories []InitCategory `toml:"category"`
	Products   []InitProduct  `toml:"product"`
}

// InitCategory represents a category entry in the TOML file.
type InitCategory struct {
	Name string `toml:"name"`
}

// InitProduct represents a product entry in the TOML file. Count is the
// starting quantity applied when the product is created.
type InitProduct struct {
	Name               string  `toml:"name"`
	URL                string  `toml:"url"`
	Category           string  `toml:"category"`
	Barcode            *string `toml:"barcode"`
	ImageFrontSmallURL *string `toml:"image_front_small_url"`
	Count              int     `toml:"count"`
}

// Result reports what an initialization run did.
type Result struct {
	CategoriesCreated int
	ProductsCreated   int
	Skipped           int
	Failed            int
}
