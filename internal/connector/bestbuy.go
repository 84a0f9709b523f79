package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/almastelek/Sourceror/internal/cache"
	"github.com/almastelek/Sourceror/internal/catalog"
)

const bestBuyBaseURL = "https://api.bestbuy.com/v1"

// bestBuyCategoryFilters maps category tags to Products API category filters.
var bestBuyCategoryFilters = map[string]string{
	"headphones": "(categoryPath.id=abcat0204000)",
	"monitors":   "(categoryPath.id=abcat0509000)",
	"laptops":    "(categoryPath.id=abcat0502000)",
}

// BestBuy is a connector for the Best Buy Products API.
type BestBuy struct {
	apiKey     string
	baseURL    string
	cache      cache.Cache
	httpClient *http.Client
}

// NewBestBuy creates a Best Buy connector. An empty API key yields a
// connector that returns no listings rather than an error.
func NewBestBuy(apiKey string, c cache.Cache, timeout time.Duration) *BestBuy {
	return &BestBuy{
		apiKey:     apiKey,
		baseURL:    bestBuyBaseURL,
		cache:      c,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (b *BestBuy) SourceName() string { return string(catalog.SourceBestBuy) }

type bestBuyProduct struct {
	SKU                   json.Number `json:"sku"`
	Name                  string      `json:"name"`
	SalePrice             float64     `json:"salePrice"`
	RegularPrice          float64     `json:"regularPrice"`
	URL                   string      `json:"url"`
	Image                 string      `json:"image"`
	ShortDescription      string      `json:"shortDescription"`
	FreeShipping          bool        `json:"freeShipping"`
	ShippingCost          *float64    `json:"shippingCost"`
	OnlineAvailability    bool        `json:"onlineAvailability"`
	CustomerReviewAverage *float64    `json:"customerReviewAverage"`
	CustomerReviewCount   *int        `json:"customerReviewCount"`
	ScreenSizeIn          *float64    `json:"screenSizeIn"`
}

type bestBuySearchResponse struct {
	Products []bestBuyProduct `json:"products"`
}

// Search queries the Products API, consulting the response cache first.
func (b *BestBuy) Search(ctx context.Context, query, category string, maxResults int) ([]catalog.Listing, error) {
	if b.apiKey == "" {
		return nil, nil
	}

	cacheParams := map[string]any{"query": query, "category": category, "max": maxResults}
	if data, ok := b.cache.Get("bestbuy_search", cacheParams); ok {
		var listings []catalog.Listing
		if err := json.Unmarshal(data, &listings); err == nil {
			return listings, nil
		}
	}

	categoryFilter, ok := bestBuyCategoryFilters[strings.ToLower(category)]
	if !ok {
		categoryFilter = bestBuyCategoryFilters["headphones"]
	}

	pageSize := maxResults
	if pageSize > 100 {
		pageSize = 100
	}
	params := url.Values{
		"apiKey":   {b.apiKey},
		"format":   {"json"},
		"show":     {"sku,name,salePrice,regularPrice,url,image,shortDescription,freeShipping,shippingCost,onlineAvailability,customerReviewAverage,customerReviewCount,screenSizeIn"},
		"pageSize": {fmt.Sprintf("%d", pageSize)},
		"page":     {"1"},
	}
	reqURL := fmt.Sprintf("%s/products(search=%s)&%s?%s",
		b.baseURL, url.QueryEscape(query), categoryFilter, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bestbuy search: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("bestbuy search: %d %s", resp.StatusCode, string(body))
	}

	var parsed bestBuySearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("bestbuy response: %w", err)
	}

	products := parsed.Products
	if len(products) > maxResults {
		products = products[:maxResults]
	}
	listings := make([]catalog.Listing, 0, len(products))
	for i := range products {
		listings = append(listings, b.normalize(&products[i], category))
	}

	if data, err := json.Marshal(listings); err == nil {
		b.cache.Set("bestbuy_search", cacheParams, data)
	}
	return listings, nil
}

func (b *BestBuy) normalize(p *bestBuyProduct, category string) catalog.Listing {
	price := p.SalePrice
	if price == 0 {
		price = p.RegularPrice
	}

	var shipping *float64
	if !p.FreeShipping && p.ShippingCost != nil && *p.ShippingCost > 0 {
		shipping = p.ShippingCost
	}
	total := price
	if shipping != nil {
		total += *shipping
	}

	// Best Buy carries standardized return and manufacturer-warranty terms.
	returnDays := 15
	warrantyMonths := 12
	sellerRating := 98.0
	feedbackCount := 100000

	etaMin, etaMax := 5, 10
	if p.OnlineAvailability {
		etaMin, etaMax = 2, 5
	}

	condition := bestBuyCondition(p.Name)
	return catalog.Listing{
		ID:                  p.SKU.String(),
		Source:              catalog.SourceBestBuy,
		Title:               p.Name,
		URL:                 p.URL,
		ImageURL:            p.Image,
		Price:               price,
		ShippingCost:        shipping,
		TotalCost:           total,
		Condition:           &condition,
		ETAMinDays:          &etaMin,
		ETAMaxDays:          &etaMax,
		ReturnWindowDays:    &returnDays,
		SellerRating:        &sellerRating,
		SellerFeedbackCount: &feedbackCount,
		WarrantyMonths:      &warrantyMonths,
		Specs:               bestBuySpecs(p, category),
		Raw: map[string]any{
			"sku":                   p.SKU,
			"regularPrice":          p.RegularPrice,
			"salePrice":             p.SalePrice,
			"customerReviewAverage": p.CustomerReviewAverage,
			"customerReviewCount":   p.CustomerReviewCount,
		},
	}
}

// bestBuyCondition infers condition from title keywords; the catalog is
// overwhelmingly new stock.
func bestBuyCondition(name string) catalog.Condition {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "refurbished") || strings.Contains(lower, "renewed") {
		return catalog.ConditionRefurbished
	}
	if strings.Contains(lower, "open-box") || strings.Contains(lower, "pre-owned") {
		return catalog.ConditionUsed
	}
	return catalog.ConditionNew
}

func bestBuySpecs(p *bestBuyProduct, category string) map[string]any {
	specs := map[string]any{}
	switch strings.ToLower(category) {
	case "headphones":
		combined := strings.ToLower(p.Name + " " + p.ShortDescription)
		specs["wireless"] = strings.Contains(combined, "wireless") || strings.Contains(combined, "bluetooth")
		specs["noise_canceling"] = containsAny(combined, "noise cancel", "noise-cancel", "anc", "active noise")
		specs["over_ear"] = strings.Contains(combined, "over-ear") || strings.Contains(combined, "over ear")
		specs["in_ear"] = strings.Contains(combined, "in-ear") || strings.Contains(combined, "earbud")
		if parts := strings.Fields(p.Name); len(parts) > 0 {
			specs["brand"] = parts[0]
		}
	case "monitors":
		specs["size_inches"] = p.ScreenSizeIn
	}
	return specs
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
