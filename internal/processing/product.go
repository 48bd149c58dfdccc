package processing

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/spacesedan/reviewpulse/internal/ingest"
	"github.com/spacesedan/reviewpulse/internal/models"
)

// Optional columns are looked up by trying these header names in order.
var (
	ProductNameColumns = []string{"Product Name", "product_name", "Product", "product", "Product Title", "Title", "Name"}
	BrandNameColumns   = []string{"Brand Name", "brand_name", "Brand", "brand", "Manufacturer"}
	PriceColumns       = []string{"Price", "price", "Selling Price", "MRP", "Cost"}
	RatingColumns      = []string{"Rating", "rating", "Stars", "Star Rating", "Review Rating", "Score"}
)

var currencyCodePattern = regexp.MustCompile(`(?i)^(rs\.?|inr|usd|eur|gbp|us\$)\s*|\s*(rs\.?|inr|usd|eur|gbp)$`)

// ResolveProductInfo reads product, brand and price from the first retained
// row. For each field the first candidate column with a value wins.
func ResolveProductInfo(ds *ingest.Dataset) models.ProductInfo {
	info := models.ProductInfo{
		Name:  models.DefaultProductName,
		Brand: models.DefaultBrandName,
		Price: models.UnknownPrice(),
	}
	if v, ok := firstValue(ds, 0, ProductNameColumns); ok {
		info.Name = v
	}
	if v, ok := firstValue(ds, 0, BrandNameColumns); ok {
		info.Brand = v
	}
	if v, ok := firstValue(ds, 0, PriceColumns); ok {
		info.Price = ParsePrice(v)
	}
	return info
}

// firstColumn returns the first candidate present in the header.
func firstColumn(ds *ingest.Dataset, candidates []string) (string, bool) {
	for _, c := range candidates {
		if ds.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

func firstValue(ds *ingest.Dataset, row int, candidates []string) (string, bool) {
	for _, c := range candidates {
		if v, ok := ds.Value(row, c); ok {
			return v, true
		}
	}
	return "", false
}

// ParsePrice strips currency markers and thousands separators and parses the
// rest as a decimal. On failure the raw value is kept.
func ParsePrice(raw string) models.Price {
	cleaned := currencyCodePattern.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) || r == ',' || r == '_' {
			return -1
		}
		return r
	}, cleaned)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return models.Price{Raw: raw}
	}
	return models.Price{Amount: amount, Parsed: true}
}
