package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vlietberg/teambudget-backend/internal/domain"
	"github.com/vlietberg/teambudget-backend/internal/service"
	"github.com/vlietberg/teambudget-backend/internal/testutil"
)

func newCategoryFixture() (*CategoryHandler, *testutil.MockExpenseCategoryRepository) {
	repo := testutil.NewMockExpenseCategoryRepository()
	return NewCategoryHandler(service.NewCategoryService(repo)), repo
}

func TestCreateCategory_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newCategoryFixture()

	body := `{"name":"Cloud Services"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response domain.ExpenseCategory
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "Cloud Services" {
		t.Errorf("Expected name Cloud Services, got %q", response.Name)
	}
}

func TestCreateCategory_EmptyName(t *testing.T) {
	e := echo.New()
	handler, _ := newCategoryFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"name":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateCategory_Duplicate(t *testing.T) {
	e := echo.New()
	handler, repo := newCategoryFixture()

	if _, err := repo.Create(&domain.ExpenseCategory{Name: "Cloud Services"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"name":"Cloud Services"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestDeleteCategory_Referenced(t *testing.T) {
	e := echo.New()
	handler, repo := newCategoryFixture()

	category, err := repo.Create(&domain.ExpenseCategory{Name: "Training Programs"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	repo.Referenced[category.ID] = true

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.DeleteCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeConflict {
		t.Errorf("Expected conflict problem type, got %q", problem.Type)
	}
}

func TestDeleteCategory_NotFound(t *testing.T) {
	e := echo.New()
	handler, _ := newCategoryFixture()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := handler.DeleteCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
