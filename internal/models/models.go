// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// UncategorizedName is the sentinel category products fall back to when
// their category is deleted.
const UncategorizedName = "Uncategorized"

// Count actions accepted by the inventory service.
const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"
)

var barcodeRegex = regexp.MustCompile(`^\d{8,13}$`)

// Category is a named grouping for products.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Product is a tracked inventory item joined with its category name and count.
type Product struct {
	ID                 int64   `db:"id" json:"id"`
	Name               string  `db:"name" json:"name"`
	URL                string  `db:"url" json:"url"`
	CategoryID         int64   `db:"category_id" json:"-"`
	Category           string  `db:"category" json:"category"`
	Barcode            *string `db:"barcode" json:"barcode,omitempty"`
	ImageFrontSmallURL *string `db:"image_front_small_url" json:"image_front_small_url,omitempty"`
	Count              int     `db:"count" json:"count"`
}

// Count is the on-hand quantity of a product.
type Count struct {
	ProductID   int64  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	Count       int    `db:"count" json:"count"`
}

// CategoryCreatePayload is the input for creating a category.
type CategoryCreatePayload struct {
	Name string `json:"name" toml:"name"`
}

// Validate checks the payload.
func (p CategoryCreatePayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}

// ProductCreatePayload is the input for creating a product. Name, URL and
// Category are mandatory.
type ProductCreatePayload struct {
	Name               string  `json:"name" toml:"name"`
	URL                string  `json:"url" toml:"url"`
	Category           string  `json:"category" toml:"category"`
	Barcode            *string `json:"barcode,omitempty" toml:"barcode"`
	ImageFrontSmallURL *string `json:"image_front_small_url,omitempty" toml:"image_front_small_url"`
}

// Validate checks the payload.
func (p ProductCreatePayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if err := ValidateURL(p.URL); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("category must not be empty")
	}
	if p.Barcode != nil {
		if err := ValidateBarcode(*p.Barcode); err != nil {
			return err
		}
	}
	if p.ImageFrontSmallURL != nil {
		if err := ValidateURL(*p.ImageFrontSmallURL); err != nil {
			return fmt.Errorf("image_front_small_url: %w", err)
		}
	}
	return nil
}

// ProductUpdatePayload is a partial update. Nil fields are left unchanged.
type ProductUpdatePayload struct {
	Name               *string `json:"name,omitempty"`
	URL                *string `json:"url,omitempty"`
	Category           *string `json:"category,omitempty"`
	Barcode            *string `json:"barcode,omitempty"`
	ImageFrontSmallURL *string `json:"image_front_small_url,omitempty"`
}

// Validate checks only the fields that are set.
func (p ProductUpdatePayload) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if p.URL != nil {
		if err := ValidateURL(*p.URL); err != nil {
			return fmt.Errorf("url: %w", err)
		}
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return fmt.Errorf("category must not be empty")
	}
	if p.Barcode != nil && *p.Barcode != "" {
		if err := ValidateBarcode(*p.Barcode); err != nil {
			return err
		}
	}
	if p.ImageFrontSmallURL != nil && *p.ImageFrontSmallURL != "" {
		if err := ValidateURL(*p.ImageFrontSmallURL); err != nil {
			return fmt.Errorf("image_front_small_url: %w", err)
		}
	}
	return nil
}

// IsEmpty reports whether the update carries no fields.
func (p ProductUpdatePayload) IsEmpty() bool {
	return p.Name == nil && p.URL == nil && p.Category == nil && p.Barcode == nil && p.ImageFrontSmallURL == nil
}

// ValidateBarcode accepts numeric strings of 8 to 13 digits.
func ValidateBarcode(barcode string) error {
	if !barcodeRegex.MatchString(barcode) {
		return fmt.Errorf("barcode must be 8 to 13 digits: %q", barcode)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q", raw)
	}
	return nil
}

// BackupInfo describes a backup file on disk.
type BackupInfo struct {
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// RetentionReport summarizes the results of a backup retention run.
type RetentionReport struct {
	BackupsDeleted  int    `json:"backups_deleted"`
	SpaceFreedBytes int64  `json:"space_freed_bytes"`
	Message         string `json:"message"`
}

// RecoveryReport summarizes the repairs made by a recovery run.
type RecoveryReport struct {
	CountsCreated     int      `json:"counts_created"`
	CountsClamped     int      `json:"counts_clamped"`
	OrphansRemoved    int      `json:"orphans_removed"`
	DuplicateBarcodes []string `json:"duplicate_barcodes"`
}

// Info holds the status of the running application.
type Info struct {
	ServiceName       string   `json:"service_name"`
	Version           string   `json:"version"`
	Status            string   `json:"status"`
	DatabasePath      string   `json:"database_path"`
	Categories        int      `json:"categories"`
	Products          int      `json:"products"`
	DuplicateBarcodes []string `json:"duplicate_barcodes,omitempty"`
}
