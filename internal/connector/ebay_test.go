package connector

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/almastelek/Sourceror/internal/cache"
	"github.com/almastelek/Sourceror/internal/catalog"
)

const ebaySearchFixture = `{
	"itemSummaries": [
		{
			"itemId": "v1|123|0",
			"title": "Sony WH-1000XM5 Wireless Noise Cancelling Headphones",
			"itemWebUrl": "https://ebay.com/itm/123",
			"conditionId": "2000",
			"condition": "Certified Refurbished",
			"price": {"value": "229.99"},
			"seller": {"feedbackPercentage": "99.2", "feedbackScore": 15423},
			"shippingOptions": [
				{
					"shippingCost": {"value": "5.00"},
					"minEstimatedDeliveryDays": 3,
					"maxEstimatedDeliveryDays": 6
				}
			],
			"returnTerms": {"returnPeriod": {"value": 30, "unit": "DAY"}}
		},
		{
			"itemId": "v1|456|0",
			"title": "Generic Earbuds",
			"itemWebUrl": "https://ebay.com/itm/456",
			"price": {"value": "19.99"},
			"seller": {}
		}
	]
}`

func newTestEbay(t *testing.T, searchHandler http.HandlerFunc) (*Ebay, *int64) {
	t.Helper()
	var authCalls int64

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&authCalls, 1)
		if r.Header.Get("Authorization") == "" {
			t.Error("missing basic auth header on token request")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "test-token", "expires_in": 7200}`))
	}))
	t.Cleanup(auth.Close)

	search := httptest.NewServer(searchHandler)
	t.Cleanup(search.Close)

	e := NewEbay("client-id", "client-secret", cache.Nop{}, 5*time.Second)
	e.authURL = auth.URL
	e.browseURL = search.URL
	return e, &authCalls
}

func TestEbaySearchNormalizes(t *testing.T) {
	e, _ := newTestEbay(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header: %q", got)
		}
		if got := r.URL.Query().Get("filter"); got != "buyingOptions:{FIXED_PRICE}" {
			t.Errorf("unexpected filter: %q", got)
		}
		if got := r.URL.Query().Get("category_ids"); got != "112529" {
			t.Errorf("unexpected category id: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(ebaySearchFixture))
	})

	listings, err := e.Search(context.Background(), "wireless headphones", "headphones", 25)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	l := listings[0]
	if l.Source != catalog.SourceEbay {
		t.Errorf("expected ebay source, got %s", l.Source)
	}
	if l.Price != 229.99 {
		t.Errorf("expected price 229.99, got %f", l.Price)
	}
	if l.ShippingCost == nil || *l.ShippingCost != 5.00 {
		t.Errorf("expected shipping 5.00, got %v", l.ShippingCost)
	}
	if math.Abs(l.TotalCost-234.99) > 0.001 {
		t.Errorf("expected total 234.99, got %f", l.TotalCost)
	}
	if l.Condition == nil || *l.Condition != catalog.ConditionRefurbished {
		t.Errorf("expected refurb condition, got %v", l.Condition)
	}
	if l.ETAMinDays == nil || *l.ETAMinDays != 3 || l.ETAMaxDays == nil || *l.ETAMaxDays != 6 {
		t.Errorf("unexpected ETA: %v-%v", l.ETAMinDays, l.ETAMaxDays)
	}
	if l.ReturnWindowDays == nil || *l.ReturnWindowDays != 30 {
		t.Errorf("unexpected return window: %v", l.ReturnWindowDays)
	}
	if l.SellerRating == nil || *l.SellerRating != 99.2 {
		t.Errorf("unexpected seller rating: %v", l.SellerRating)
	}
	if l.SellerFeedbackCount == nil || *l.SellerFeedbackCount != 15423 {
		t.Errorf("unexpected feedback count: %v", l.SellerFeedbackCount)
	}
	if l.WarrantyMonths != nil {
		t.Errorf("ebay warranty should be unknown, got %v", l.WarrantyMonths)
	}
	if v, ok := l.Specs["wireless"].(bool); !ok || !v {
		t.Errorf("expected wireless spec from title, got %v", l.Specs["wireless"])
	}
	if v, ok := l.Specs["noise_canceling"].(bool); !ok || !v {
		t.Errorf("expected noise_canceling spec from title, got %v", l.Specs["noise_canceling"])
	}

	// Bare second item: unknowns stay nil instead of defaulting.
	bare := listings[1]
	if bare.Condition != nil {
		t.Errorf("expected unknown condition, got %v", bare.Condition)
	}
	if bare.ShippingCost != nil || bare.TotalCost != 19.99 {
		t.Errorf("expected total to equal price, got %f", bare.TotalCost)
	}
	if bare.SellerRating != nil {
		t.Errorf("expected unknown rating, got %v", bare.SellerRating)
	}
}

func TestEbayTokenReuse(t *testing.T) {
	e, authCalls := newTestEbay(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"itemSummaries": []}`))
	})

	for i := 0; i < 3; i++ {
		if _, err := e.Search(context.Background(), "headphones", "headphones", 10); err != nil {
			t.Fatalf("search %d failed: %v", i, err)
		}
	}
	if got := atomic.LoadInt64(authCalls); got != 1 {
		t.Errorf("expected token fetched once, got %d auth calls", got)
	}
}

func TestEbayWithoutCredentials(t *testing.T) {
	e := NewEbay("", "", cache.Nop{}, time.Second)
	listings, err := e.Search(context.Background(), "headphones", "headphones", 10)
	if err != nil {
		t.Fatalf("expected quiet no-op, got %v", err)
	}
	if listings != nil {
		t.Errorf("expected nil listings, got %d", len(listings))
	}
}

func TestEbaySearchUsesCache(t *testing.T) {
	var searchCalls int64
	c := cache.NewMemory(time.Minute)

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token": "test-token"}`))
	}))
	defer auth.Close()
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&searchCalls, 1)
		w.Write([]byte(ebaySearchFixture))
	}))
	defer search.Close()

	e := NewEbay("id", "secret", c, time.Second)
	e.authURL = auth.URL
	e.browseURL = search.URL

	for i := 0; i < 3; i++ {
		listings, err := e.Search(context.Background(), "wireless headphones", "headphones", 25)
		if err != nil {
			t.Fatalf("search %d failed: %v", i, err)
		}
		if len(listings) != 2 {
			t.Fatalf("search %d: expected 2 listings, got %d", i, len(listings))
		}
	}
	if got := atomic.LoadInt64(&searchCalls); got != 1 {
		t.Errorf("expected 1 upstream call with warm cache, got %d", got)
	}
}

func TestEbayCondition(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		id        string
		want      *catalog.Condition
	}{
		{"brand new", "New", "1000", condPtr(catalog.ConditionNew)},
		{"open box", "Open box", "1500", condPtr(catalog.ConditionNew)},
		{"certified refurb", "Certified Refurbished", "2000", condPtr(catalog.ConditionRefurbished)},
		{"seller refurb", "Seller Refurbished", "2500", condPtr(catalog.ConditionRefurbished)},
		{"used", "Used", "3000", condPtr(catalog.ConditionUsed)},
		{"pre-owned by name", "Pre-Owned Excellent", "", condPtr(catalog.ConditionUsed)},
		{"unknown", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &ebayItem{Condition: tt.condition, ConditionID: tt.id}
			got := ebayCondition(item)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("expected %s, got %s", *tt.want, *got)
			}
		})
	}
}

func TestEbayReturnWindow(t *testing.T) {
	days := 30
	months := 2

	dayItem := &ebayItem{}
	dayItem.ReturnTerms.ReturnPeriod.Value = &days
	dayItem.ReturnTerms.ReturnPeriod.Unit = "DAY"
	if got := ebayReturnWindow(dayItem); got == nil || *got != 30 {
		t.Errorf("expected 30 days, got %v", got)
	}

	monthItem := &ebayItem{}
	monthItem.ReturnTerms.ReturnPeriod.Value = &months
	monthItem.ReturnTerms.ReturnPeriod.Unit = "MONTH"
	if got := ebayReturnWindow(monthItem); got == nil || *got != 60 {
		t.Errorf("expected 60 days, got %v", got)
	}

	if got := ebayReturnWindow(&ebayItem{}); got != nil {
		t.Errorf("expected nil for missing return terms, got %v", got)
	}
}

func condPtr(c catalog.Condition) *catalog.Condition { return &c }
