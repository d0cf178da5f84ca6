package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"storefront/internal/models"
)

func TestCheckSalePricingMissingSalePrice(t *testing.T) {
	err := checkSalePricing(100, 0, true, false)
	if err == nil {
		t.Fatal("expected validation error when saleEnabled=true and salePrice is missing")
	}
}

func TestCheckSalePricingSalePriceGreaterOrEqualPrice(t *testing.T) {
	tests := []float64{100, 120}
	for _, salePrice := range tests {
		err := checkSalePricing(100, salePrice, true, true)
		if err == nil {
			t.Fatalf("expected validation error for salePrice=%v", salePrice)
		}
	}
}

func TestUnitPriceUsesSalePriceWhenOnSale(t *testing.T) {
	onSale := models.Product{Price: 100, SaleEnabled: true, SalePrice: 75}
	if got := unitPrice(onSale); got != 75 {
		t.Fatalf("expected sale price 75, got %v", got)
	}

	disabled := models.Product{Price: 100, SaleEnabled: false, SalePrice: 75}
	if got := unitPrice(disabled); got != 100 {
		t.Fatalf("expected regular price 100 when sale disabled, got %v", got)
	}
}

func TestApplySalePatchDisablingSaleClearsSalePrice(t *testing.T) {
	current := models.Product{Price: 100, SaleEnabled: true, SalePrice: 80}
	disabled := false

	result, err := applySalePatch(current, salePatch{SaleEnabled: &disabled})
	if err != nil {
		t.Fatalf("applySalePatch returned error: %v", err)
	}
	if result.SaleEnabled || result.SalePrice != 0 || !result.WriteSalePrice {
		t.Fatalf("expected sale cleared, got %+v", result)
	}
}

func TestApplySalePatchReEnableWithoutSalePriceFails(t *testing.T) {
	current := models.Product{Price: 100, SaleEnabled: false, SalePrice: 0}
	enabled := true

	if _, err := applySalePatch(current, salePatch{SaleEnabled: &enabled}); err == nil {
		t.Fatal("expected validation error when enabling a sale with no stored sale price")
	}
}

func TestApplySalePatchPriceDropBelowSalePriceFails(t *testing.T) {
	current := models.Product{Price: 100, SaleEnabled: true, SalePrice: 80}
	newPrice := 70.0

	if _, err := applySalePatch(current, salePatch{Price: &newPrice}); err == nil {
		t.Fatal("expected validation error when the new list price undercuts the active sale price")
	}
}

func TestNormalizeProductDocumentIncludesSaleFields(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":        "Test",
		"price":       100.0,
		"saleEnabled": true,
		"salePrice":   80.0,
		"stock":       5,
		"category":    []string{"Snacks"},
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}
	if !product.SaleEnabled || product.SalePrice != 80 {
		t.Fatalf("expected sale fields to be preserved, got saleEnabled=%v salePrice=%v", product.SaleEnabled, product.SalePrice)
	}
	if !product.IsOnSale {
		t.Fatal("expected IsOnSale to be true")
	}
	if !product.InStock {
		t.Fatal("expected InStock to be true for stock=5")
	}
}

func TestNormalizeProductDocumentLegacyStringCategory(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":     "Test",
		"price":    10.0,
		"category": "Drinks",
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}
	if len(product.Category) != 1 || product.Category[0] != "Drinks" {
		t.Fatalf("expected legacy string category to decode, got %v", product.Category)
	}
}

func TestProductJSONAlwaysIncludesSalePrice(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":        "Test",
		"price":       120.0,
		"saleEnabled": true,
		"salePrice":   99.0,
		"stock":       10,
		"category":    []string{"Fruit"},
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}

	body, err := json.Marshal(product)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}

	jsonBody := string(body)
	if !strings.Contains(jsonBody, "\"salePrice\":99") {
		t.Fatalf("expected salePrice in response json, got %s", jsonBody)
	}
	if !strings.Contains(jsonBody, "\"isOnSale\":true") {
		t.Fatalf("expected isOnSale=true in response json, got %s", jsonBody)
	}
}
