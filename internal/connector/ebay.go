package connector

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/almastelek/Sourceror/internal/cache"
	"github.com/almastelek/Sourceror/internal/catalog"
)

const (
	ebayBrowseURL  = "https://api.ebay.com/buy/browse/v1"
	ebayAuthURL    = "https://api.ebay.com/identity/v1/oauth2/token"
	ebayOAuthScope = "https://api.ebay.com/oauth/api_scope"
)

// ebayCategoryIDs maps category tags to eBay Browse category ids.
var ebayCategoryIDs = map[string]string{
	"headphones": "112529",
	"monitors":   "80053",
	"laptops":    "175672",
}

// Ebay is a connector for the eBay Browse API. It manages its own OAuth
// client-credentials token, refreshing shortly before expiry.
type Ebay struct {
	clientID     string
	clientSecret string
	browseURL    string
	authURL      string
	cache        cache.Cache
	httpClient   *http.Client

	mu           sync.Mutex
	accessToken  string
	tokenExpires time.Time
}

// NewEbay creates an eBay connector. Missing credentials yield a connector
// that returns no listings rather than an error.
func NewEbay(clientID, clientSecret string, c cache.Cache, timeout time.Duration) *Ebay {
	return &Ebay{
		clientID:     clientID,
		clientSecret: clientSecret,
		browseURL:    ebayBrowseURL,
		authURL:      ebayAuthURL,
		cache:        c,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (e *Ebay) SourceName() string { return string(catalog.SourceEbay) }

func (e *Ebay) token(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.accessToken != "" && time.Now().Before(e.tokenExpires.Add(-5*time.Minute)) {
		return e.accessToken, nil
	}
	if e.clientID == "" || e.clientSecret == "" {
		return "", nil
	}

	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {ebayOAuthScope},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	creds := base64.StdEncoding.EncodeToString([]byte(e.clientID + ":" + e.clientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+creds)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ebay oauth: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ebay oauth: %d %s", resp.StatusCode, string(body))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("ebay oauth response: %w", err)
	}
	if tok.ExpiresIn == 0 {
		tok.ExpiresIn = 7200
	}
	e.accessToken = tok.AccessToken
	e.tokenExpires = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return e.accessToken, nil
}

type ebayItem struct {
	ItemID      string `json:"itemId"`
	Title       string `json:"title"`
	ItemWebURL  string `json:"itemWebUrl"`
	ConditionID string `json:"conditionId"`
	Condition   string `json:"condition"`
	Image       struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
	Price struct {
		Value string `json:"value"`
	} `json:"price"`
	Seller struct {
		FeedbackPercentage string `json:"feedbackPercentage"`
		FeedbackScore      *int   `json:"feedbackScore"`
	} `json:"seller"`
	ShippingOptions []struct {
		ShippingCost struct {
			Value string `json:"value"`
		} `json:"shippingCost"`
		MinEstimatedDeliveryDays *int `json:"minEstimatedDeliveryDays"`
		MaxEstimatedDeliveryDays *int `json:"maxEstimatedDeliveryDays"`
	} `json:"shippingOptions"`
	ReturnTerms struct {
		ReturnPeriod struct {
			Value *int   `json:"value"`
			Unit  string `json:"unit"`
		} `json:"returnPeriod"`
	} `json:"returnTerms"`
}

type ebaySearchResponse struct {
	ItemSummaries []ebayItem `json:"itemSummaries"`
}

// Search queries the Browse API item summary search. Auctions are excluded
// so pricing stays comparable across listings.
func (e *Ebay) Search(ctx context.Context, query, category string, maxResults int) ([]catalog.Listing, error) {
	token, err := e.token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	cacheParams := map[string]any{"query": query, "category": category, "max": maxResults}
	if data, ok := e.cache.Get("ebay_search", cacheParams); ok {
		var listings []catalog.Listing
		if err := json.Unmarshal(data, &listings); err == nil {
			return listings, nil
		}
	}

	limit := maxResults
	if limit > 50 {
		limit = 50
	}
	params := url.Values{
		"q":      {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"filter": {"buyingOptions:{FIXED_PRICE}"},
	}
	if id, ok := ebayCategoryIDs[strings.ToLower(category)]; ok {
		params.Set("category_ids", id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		e.browseURL+"/item_summary/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", "EBAY_US")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ebay search: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("ebay search: %d %s", resp.StatusCode, string(body))
	}

	var parsed ebaySearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("ebay response: %w", err)
	}

	items := parsed.ItemSummaries
	if len(items) > maxResults {
		items = items[:maxResults]
	}
	listings := make([]catalog.Listing, 0, len(items))
	for i := range items {
		listings = append(listings, e.normalize(&items[i], category))
	}

	if data, err := json.Marshal(listings); err == nil {
		e.cache.Set("ebay_search", cacheParams, data)
	}
	return listings, nil
}

func (e *Ebay) normalize(item *ebayItem, category string) catalog.Listing {
	price := parseFloat(item.Price.Value)

	var shipping *float64
	if len(item.ShippingOptions) > 0 {
		if v := item.ShippingOptions[0].ShippingCost.Value; v != "" {
			cost := parseFloat(v)
			shipping = &cost
		}
	}
	total := price
	if shipping != nil {
		total += *shipping
	}

	var rating *float64
	if item.Seller.FeedbackPercentage != "" {
		r := parseFloat(item.Seller.FeedbackPercentage)
		rating = &r
	}

	var etaMin, etaMax *int
	if len(item.ShippingOptions) > 0 {
		etaMin = item.ShippingOptions[0].MinEstimatedDeliveryDays
		etaMax = item.ShippingOptions[0].MaxEstimatedDeliveryDays
	}

	return catalog.Listing{
		ID:                  item.ItemID,
		Source:              catalog.SourceEbay,
		Title:               item.Title,
		URL:                 item.ItemWebURL,
		ImageURL:            item.Image.ImageURL,
		Price:               price,
		ShippingCost:        shipping,
		TotalCost:           total,
		Condition:           ebayCondition(item),
		ETAMinDays:          etaMin,
		ETAMaxDays:          etaMax,
		ReturnWindowDays:    ebayReturnWindow(item),
		SellerRating:        rating,
		SellerFeedbackCount: item.Seller.FeedbackScore,
		WarrantyMonths:      nil, // eBay items rarely report warranty
		Specs:               ebaySpecs(item, category),
		Raw: map[string]any{
			"itemId":    item.ItemID,
			"condition": item.Condition,
			"seller":    item.Seller,
		},
	}
}

func ebayCondition(item *ebayItem) *catalog.Condition {
	name := strings.ToLower(item.Condition)
	id := item.ConditionID

	var c catalog.Condition
	switch {
	// "renewed" contains "new", so refurbished checks must come first.
	case strings.Contains(name, "refurbished"), strings.Contains(name, "renewed"),
		id == "2000", id == "2010", id == "2020", id == "2030":
		c = catalog.ConditionRefurbished
	case strings.Contains(name, "new"), id == "1000", id == "1500":
		c = catalog.ConditionNew
	case id == "3000", id == "4000", id == "5000", id == "6000", id == "7000":
		c = catalog.ConditionUsed
	case strings.Contains(name, "used"), strings.Contains(name, "pre-owned"):
		c = catalog.ConditionUsed
	default:
		return nil
	}
	return &c
}

func ebayReturnWindow(item *ebayItem) *int {
	period := item.ReturnTerms.ReturnPeriod
	if period.Value == nil {
		return nil
	}
	switch strings.ToUpper(period.Unit) {
	case "DAY":
		return period.Value
	case "MONTH":
		days := *period.Value * 30
		return &days
	}
	return nil
}

func ebaySpecs(item *ebayItem, category string) map[string]any {
	specs := map[string]any{}
	if strings.ToLower(category) != "headphones" {
		return specs
	}
	title := strings.ToLower(item.Title)
	specs["wireless"] = strings.Contains(title, "wireless") || strings.Contains(title, "bluetooth")
	specs["noise_canceling"] = containsAny(title, "noise cancel", "noise-cancel", "anc", "active noise")
	specs["over_ear"] = strings.Contains(title, "over-ear") || strings.Contains(title, "over ear")
	specs["in_ear"] = strings.Contains(title, "in-ear") || strings.Contains(title, "earbud")
	if parts := strings.Fields(item.Title); len(parts) > 0 {
		specs["brand"] = parts[0]
	}
	return specs
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
