package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/service"
	"github.com/labstack/echo/v4"
)

func newCategorizeContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/categorize", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCategorize_KeywordMatch(t *testing.T) {
	handler := NewCategorizeHandler(service.NewClassifierService(domain.DefaultCategoryRules, nil))

	c, rec := newCategorizeContext(t, `{"description":"Starbucks Coffee #4521","amount":6.75,"type":"expense"}`)
	if err := handler.Categorize(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response domain.Classification
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Category != "Dining" {
		t.Errorf("Expected category Dining, got %s", response.Category)
	}
	if response.Confidence != 0.85 {
		t.Errorf("Expected confidence 0.85, got %v", response.Confidence)
	}
	if response.Method != "keyword_matching" {
		t.Errorf("Expected method keyword_matching, got %s", response.Method)
	}
}

func TestCategorize_DefaultForUnknownIncome(t *testing.T) {
	handler := NewCategorizeHandler(service.NewClassifierService(domain.DefaultCategoryRules, nil))

	c, rec := newCategorizeContext(t, `{"description":"Acme Consulting Payment","amount":1500,"type":"income"}`)
	if err := handler.Categorize(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response domain.Classification
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Category != "Other Income" {
		t.Errorf("Expected category Other Income, got %s", response.Category)
	}
	if response.Confidence != 0.50 {
		t.Errorf("Expected confidence 0.50, got %v", response.Confidence)
	}
	if response.Method != "default" {
		t.Errorf("Expected method default, got %s", response.Method)
	}
}

func TestCategorize_RejectsUnknownType(t *testing.T) {
	handler := NewCategorizeHandler(service.NewClassifierService(domain.DefaultCategoryRules, nil))

	c, rec := newCategorizeContext(t, `{"description":"Something","amount":10,"type":"transfer"}`)
	if err := handler.Categorize(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCategorize_RejectsNegativeAmount(t *testing.T) {
	handler := NewCategorizeHandler(service.NewClassifierService(domain.DefaultCategoryRules, nil))

	c, rec := newCategorizeContext(t, `{"description":"Refund","amount":-5,"type":"expense"}`)
	if err := handler.Categorize(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
