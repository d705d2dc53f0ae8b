package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"shoeshop/internal/repository/memory"
	"shoeshop/internal/seed"
	"shoeshop/internal/service/auth"
	"shoeshop/internal/service/catalog"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// testRouter builds the full route table over a seeded memory repository.
func testRouter(t *testing.T) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.New(nil)
	if err := seed.Apply(context.Background(), repo); err != nil {
		t.Fatalf("seed repository: %v", err)
	}
	authSvc := auth.New(repo)
	router := buildRouter(logDiscard(), nil, Deps{
		CatalogSvc: catalog.New(repo),
		AuthSvc:    authSvc,
	})
	return router, authSvc
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d body=%s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := testRouter(t)

	if rec := doJSON(t, router, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d, want 200", rec.Code)
	}
	// On the memory backend readiness has nothing to ping.
	if rec := doJSON(t, router, http.MethodGet, "/readyz", "", ""); rec.Code != http.StatusOK {
		t.Errorf("/readyz = %d, want 200", rec.Code)
	}
}

func TestGetProductHandler(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/products/AH2430", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var view catalog.ProductView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if view.ID != "AH2430" || view.Price != 2999 || len(view.Comments) != 2 {
		t.Errorf("unexpected view %+v", view)
	}
	if view.Brand == nil || view.Brand.Name != "ORIGINALS" {
		t.Errorf("view brand = %v", view.Brand)
	}

	if rec := doJSON(t, router, http.MethodGet, "/api/products/nope", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown product = %d, want 404", rec.Code)
	}
}

func TestFirstAndLastProductHandlers(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/products/first", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"280648"`) {
		t.Errorf("first: %d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodGet, "/api/products/last", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"S82260"`) {
		t.Errorf("last: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestProductsByPriceHandler(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/products_by_price?price=2999", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Products      []catalog.ProductView `json:"products"`
		PreviousPrice *int64                `json:"previous_price"`
		NextPrice     *int64                `json:"next_price"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Products) != 2 {
		t.Errorf("got %d products, want 2", len(resp.Products))
	}
	if resp.PreviousPrice != nil {
		t.Errorf("previous_price = %d, want null", *resp.PreviousPrice)
	}
	if resp.NextPrice == nil || *resp.NextPrice != 4999 {
		t.Errorf("next_price = %v, want 4999", resp.NextPrice)
	}

	// Without a price the series starts at the first product's price.
	rec = doJSON(t, router, http.MethodGet, "/api/products_by_price", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("default price: expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Products) != 2 || resp.Products[0].Price != 2999 {
		t.Errorf("default price products = %+v", resp.Products)
	}

	if rec := doJSON(t, router, http.MethodGet, "/api/products_by_price?price=abc", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad price = %d, want 400", rec.Code)
	}
}

func TestProductsByNameHandler_Pagination(t *testing.T) {
	router, _ := testRouter(t)

	// "adidas" appears in 7 of the 9 seeded names; the default page size is 3.
	rec := doJSON(t, router, http.MethodGet, "/api/products_by_name?name=adidas", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var page struct {
		Products    []*catalog.ProductView `json:"products"`
		Total       int                    `json:"total"`
		Cursor      int                    `json:"cursor"`
		PrevCursor  *int                   `json:"prev_cursor"`
		NextCursor  *int                   `json:"next_cursor"`
		FirstCursor *int                   `json:"first_cursor"`
		LastCursor  *int                   `json:"last_cursor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if page.Total != 7 || len(page.Products) != 3 {
		t.Fatalf("total=%d len=%d, want 7 and 3", page.Total, len(page.Products))
	}
	if page.PrevCursor != nil || page.FirstCursor != nil {
		t.Error("first page should have no backward cursors")
	}
	if page.NextCursor == nil || *page.NextCursor != 3 {
		t.Errorf("next_cursor = %v, want 3", page.NextCursor)
	}
	if page.LastCursor == nil || *page.LastCursor != 6 {
		t.Errorf("last_cursor = %v, want 6", page.LastCursor)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/products_by_name?name=adidas&cursor=6", "", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode last page: %v", err)
	}
	if len(page.Products) != 1 {
		t.Errorf("last page has %d products, want 1", len(page.Products))
	}
	if page.NextCursor != nil || page.LastCursor != nil {
		t.Error("last page should have no forward cursors")
	}
	if page.PrevCursor == nil || *page.PrevCursor != 3 {
		t.Errorf("prev_cursor = %v, want 3", page.PrevCursor)
	}
	if page.FirstCursor == nil || *page.FirstCursor != 0 {
		t.Errorf("first_cursor = %v, want 0", page.FirstCursor)
	}

	if rec := doJSON(t, router, http.MethodGet, "/api/products_by_name", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing name = %d, want 400", rec.Code)
	}
}

func TestProductsByBrandHandler(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/products_by_brand?brand=SPORT+PERFORMANCE&count=10", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var page struct {
		Products []*catalog.ProductView `json:"products"`
		Total    int                    `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if page.Total != 3 || len(page.Products) != 3 {
		t.Errorf("total=%d len=%d, want 3 and 3", page.Total, len(page.Products))
	}

	// Unknown brand is an empty result page, not an error.
	rec = doJSON(t, router, http.MethodGet, "/api/products_by_brand?brand=NOPE", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown brand = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if page.Total != 0 || len(page.Products) != 0 {
		t.Errorf("unknown brand page = %+v", page)
	}
}

func TestBrandsHandler(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/brands", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Brands []catalog.BrandView `json:"brands"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Brands) != 3 || resp.Brands[0].Name != "ORIGINALS" {
		t.Errorf("brands = %+v", resp.Brands)
	}
}

func TestRegisterHandler(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", `{"username":"newbie","password":"Sup3rSecret"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	// Taken username.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", `{"username":"newbie","password":"Sup3rSecret"}`, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("taken username = %d, want 409", rec.Code)
	}

	// Weak password.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", `{"username":"other","password":"weak"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("weak password = %d, want 400", rec.Code)
	}

	// Missing fields.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", `{"username":"other"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing password = %d, want 400", rec.Code)
	}
}

func TestLoginAndLogoutHandlers(t *testing.T) {
	router, authSvc := testRouter(t)

	token := loginAs(t, router, "irem", "MSra(Z8G+sgb")
	if _, err := authSvc.LookupByToken(context.Background(), token); err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", `{"username":"irem","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password = %d, want 401", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/auth/logout", "", token)
	if rec.Code != http.StatusNoContent {
		t.Errorf("logout = %d, want 204", rec.Code)
	}
	if _, err := authSvc.LookupByToken(context.Background(), token); err == nil {
		t.Error("token still valid after logout")
	}
}

func TestAddCommentHandler(t *testing.T) {
	router, _ := testRouter(t)
	token := loginAs(t, router, "tobin", "cLQ^C#oFXloS")

	rec := doJSON(t, router, http.MethodPost, "/api/products/S82260/comments", `{"comment":"Loving these."}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/products/S82260/comments", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list comments = %d", rec.Code)
	}
	var resp struct {
		Comments []catalog.CommentView `json:"comments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Comments) != 1 || resp.Comments[0].Username != "tobin" || resp.Comments[0].CommentText != "Loving these." {
		t.Errorf("comments = %+v", resp.Comments)
	}

	// No token.
	rec = doJSON(t, router, http.MethodPost, "/api/products/S82260/comments", `{"comment":"anon"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated comment = %d, want 401", rec.Code)
	}

	// Unknown product.
	rec = doJSON(t, router, http.MethodPost, "/api/products/nope/comments", `{"comment":"ghost"}`, token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown product = %d, want 404", rec.Code)
	}

	// Empty body.
	rec = doJSON(t, router, http.MethodPost, "/api/products/S82260/comments", `{}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing comment text = %d, want 400", rec.Code)
	}
}

func TestCollectionHandlers(t *testing.T) {
	router, _ := testRouter(t)
	token := loginAs(t, router, "irem", "MSra(Z8G+sgb")

	if rec := doJSON(t, router, http.MethodGet, "/api/collection", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated collection = %d, want 401", rec.Code)
	}

	if rec := doJSON(t, router, http.MethodPost, "/api/collection/AH2430", "", token); rec.Code != http.StatusNoContent {
		t.Fatalf("add to collection = %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodPost, "/api/collection/EF9924", "", token); rec.Code != http.StatusNoContent {
		t.Fatalf("add to collection = %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/collection", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get collection = %d", rec.Code)
	}
	var resp struct {
		Username   string                `json:"username"`
		Collection []catalog.ProductView `json:"collection"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Username != "irem" || len(resp.Collection) != 2 {
		t.Errorf("collection response = %+v", resp)
	}

	if rec := doJSON(t, router, http.MethodDelete, "/api/collection/AH2430", "", token); rec.Code != http.StatusNoContent {
		t.Fatalf("remove from collection = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/collection", "", token)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Collection) != 1 || resp.Collection[0].ID != "EF9924" {
		t.Errorf("collection after remove = %+v", resp.Collection)
	}

	if rec := doJSON(t, router, http.MethodPost, "/api/collection/nope", "", token); rec.Code != http.StatusNotFound {
		t.Errorf("unknown product = %d, want 404", rec.Code)
	}
}
