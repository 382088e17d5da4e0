package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/types"
)

func testCatalog() *Catalog {
	return NewCatalog([]types.DataItem{
		{Id: 1, Title: "red small", Facets: map[string][]string{"color": {"red"}, "size": {"S"}}},
		{Id: 2, Title: "blue small", Facets: map[string][]string{"color": {"blue"}, "size": {"S"}}},
		{Id: 3, Title: "red medium", Facets: map[string][]string{"color": {"red"}, "size": {"M"}}},
	}, []types.CategoryConfig{
		{Category: "color", Label: "Färg"},
		{Category: "size", QueryKey: "s"},
	})
}

func doRequest(t *testing.T, h http.Handler, method, target string, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeFacets(t *testing.T, w *httptest.ResponseRecorder) FacetResponse {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res FacetResponse
	if err := jsoncompat.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("Expected valid json, got %v", err)
	}
	return res
}

func TestGetFacets(t *testing.T) {
	ws := NewWebServer(testCatalog())
	res := decodeFacets(t, doRequest(t, ws.Handler(), http.MethodGet, "/api/facets?color=red", ""))

	if res.Count != 2 {
		t.Errorf("Expected 2 matching items, got %d", res.Count)
	}
	if res.Query != "color=red" {
		t.Errorf("Expected query color=red, got %s", res.Query)
	}
	if !res.Active["color"].Contains("red") || len(res.ActiveCategories) != 1 {
		t.Errorf("Expected color=red to be active, got %v", res.Active)
	}
	if res.Facets["color"].Label != "Färg" || res.Facets["size"].QueryKey != "s" {
		t.Errorf("Expected labels and query keys to be kept, got %+v", res.Facets)
	}
	if res.Facets["color"].Facets["blue"].IsDisabled {
		t.Errorf("Expected blue to stay enabled while color is the only selection")
	}
	if len(res.Items) != 0 {
		t.Errorf("Expected no items without paging, got %d", len(res.Items))
	}
}

func TestGetFacetsDropsUnreachableSelection(t *testing.T) {
	ws := NewWebServer(testCatalog())
	res := decodeFacets(t, doRequest(t, ws.Handler(), http.MethodGet, "/api/facets?color=blue&s=M", ""))
	if res.Query != "s=M" {
		t.Errorf("Expected blue to be dropped from the query, got %s", res.Query)
	}
	if res.Count != 1 {
		t.Errorf("Expected 1 item, got %d", res.Count)
	}
}

func TestGetFacetsPaging(t *testing.T) {
	ws := NewWebServer(testCatalog())
	res := decodeFacets(t, doRequest(t, ws.Handler(), http.MethodGet, "/api/facets?color=red&_page=1&_size=1", ""))
	if len(res.Items) != 1 || res.Items[0].Id != 3 {
		t.Errorf("Expected second page to hold item 3, got %v", res.Items)
	}
	if res.Query != "color=red" {
		t.Errorf("Expected paging keys to be stripped from query, got %s", res.Query)
	}

	res = decodeFacets(t, doRequest(t, ws.Handler(), http.MethodGet, "/api/facets?_page=9", ""))
	if len(res.Items) != 0 {
		t.Errorf("Expected empty page, got %v", res.Items)
	}
	if res.PageSize != 40 {
		t.Errorf("Expected default page size 40, got %d", res.PageSize)
	}

	w := doRequest(t, ws.Handler(), http.MethodGet, "/api/facets?_size=0", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for size 0, got %d", w.Code)
	}
}

func TestApplyFacetAction(t *testing.T) {
	ws := NewWebServer(testCatalog())
	h := ws.Handler()

	tests := []struct {
		target string
		query  string
		count  int
	}{
		{"/api/facets/add?color=red&_category=size&_value=S", "color=red&s=S", 1},
		{"/api/facets/toggle?color=red&s=S&_category=color&_value=red", "s=S", 2},
		{"/api/facets/remove?color=red&_category=color&_value=red", "", 3},
		{"/api/facets/clear?color=red&s=S&ref=abc", "ref=abc", 3},
		{"/api/facets/add?_category=color&_value=green", "", 3},
	}
	for _, test := range tests {
		res := decodeFacets(t, doRequest(t, h, http.MethodPost, test.target, ""))
		if res.Query != test.query {
			t.Errorf("%s: expected query %q, got %q", test.target, test.query, res.Query)
		}
		if res.Count != test.count {
			t.Errorf("%s: expected count %d, got %d", test.target, test.count, res.Count)
		}
	}
}

func TestApplyFacetActionFormBody(t *testing.T) {
	ws := NewWebServer(testCatalog())
	w := doRequest(t, ws.Handler(), http.MethodPost, "/api/facets/add?color=red", "_category=size&_value=M",
		"Content-Type", "application/x-www-form-urlencoded")
	res := decodeFacets(t, w)
	if res.Query != "color=red&s=M" {
		t.Errorf("Expected form params to be used, got %s", res.Query)
	}
}

func TestSizeCategoryRoundTrip(t *testing.T) {
	ws := NewWebServer(NewCatalog([]types.DataItem{
		{Id: 1, Facets: map[string][]string{"color": {"red"}, "size": {"M"}}},
		{Id: 2, Facets: map[string][]string{"color": {"red"}, "size": {"L"}}},
	}, []types.CategoryConfig{{Category: "color"}, {Category: "size"}}))
	h := ws.Handler()

	res := decodeFacets(t, doRequest(t, h, http.MethodPost, "/api/facets/add?color=red&_category=size&_value=M", ""))
	if res.Query != "color=red&size=M" {
		t.Fatalf("Expected color=red&size=M, got %s", res.Query)
	}
	res = decodeFacets(t, doRequest(t, h, http.MethodGet, "/api/facets?"+res.Query, ""))
	if res.Count != 1 || !res.Active["size"].Contains("M") {
		t.Errorf("Expected size=M to be applied on the way back, got count %d active %v", res.Count, res.Active)
	}
	if len(res.Items) != 0 {
		t.Errorf("Expected size selection not to turn on paging, got %d items", len(res.Items))
	}
}

func TestValidateCategories(t *testing.T) {
	if err := ValidateCategories([]types.CategoryConfig{{Category: "size"}, {Category: "page"}}); err != nil {
		t.Errorf("Expected plain keys to be accepted, got %v", err)
	}
	if err := ValidateCategories([]types.CategoryConfig{{Category: "x", QueryKey: "_page"}}); err == nil {
		t.Errorf("Expected reserved query key to be rejected")
	}
	if err := ValidateCategories([]types.CategoryConfig{{Category: "_value"}}); err == nil {
		t.Errorf("Expected reserved category key to be rejected")
	}
	if err := ValidateCategories([]types.CategoryConfig{{Label: "empty"}}); err == nil {
		t.Errorf("Expected category without key to be rejected")
	}
}

func TestApplyFacetActionErrors(t *testing.T) {
	ws := NewWebServer(testCatalog())
	h := ws.Handler()
	if w := doRequest(t, h, http.MethodPost, "/api/facets/explode?_category=color&_value=red", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown action, got %d", w.Code)
	}
	if w := doRequest(t, h, http.MethodPost, "/api/facets/add?_category=color", ""); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without value, got %d", w.Code)
	}
	if w := doRequest(t, h, http.MethodPost, "/api/facets/add?color=%zz&_category=color&_value=red", ""); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for broken query, got %d", w.Code)
	}
}

func TestGetEnabledCount(t *testing.T) {
	ws := NewWebServer(testCatalog())
	h := ws.Handler()
	w := doRequest(t, h, http.MethodGet, "/api/facets/enabled/size?color=blue", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var res EnabledResponse
	if err := jsoncompat.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("Expected valid json, got %v", err)
	}
	if res.Category != "size" || res.Enabled != 1 {
		t.Errorf("Expected one enabled size, got %+v", res)
	}
	if w := doRequest(t, h, http.MethodGet, "/api/facets/enabled/brand", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown category, got %d", w.Code)
	}
}

type recordingPublisher struct {
	sent [][]types.DataItem
}

func (p *recordingPublisher) SendItems(items []types.DataItem) error {
	p.sent = append(p.sent, items)
	return nil
}

func TestAdminReplaceItems(t *testing.T) {
	ws := NewWebServer(testCatalog())
	ws.AdminSecret = []byte("secret")
	publisher := &recordingPublisher{}
	ws.Publisher = publisher
	h := ws.Handler()
	body := `[{"id":10,"facets":{"color":["green"]}}]`

	if w := doRequest(t, h, http.MethodPut, "/admin/items", body); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
	wrong, _ := CreateAdminToken([]byte("other"), "test", time.Hour)
	if w := doRequest(t, h, http.MethodPut, "/admin/items", body, "Authorization", "Bearer "+wrong); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with foreign token, got %d", w.Code)
	}
	expired, _ := CreateAdminToken(ws.AdminSecret, "test", -time.Hour)
	if w := doRequest(t, h, http.MethodPut, "/admin/items", body, "Authorization", "Bearer "+expired); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with expired token, got %d", w.Code)
	}

	token, err := CreateAdminToken(ws.AdminSecret, "test", time.Hour)
	if err != nil {
		t.Fatalf("Expected token, got %v", err)
	}
	w := doRequest(t, h, http.MethodPut, "/admin/items", body, "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated ItemsUpdatedResponse
	if err := jsoncompat.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Expected valid json, got %v", err)
	}
	if updated.Version != 2 || updated.Items != 1 {
		t.Errorf("Expected version 2 with 1 item, got %+v", updated)
	}
	if len(publisher.sent) != 1 || publisher.sent[0][0].Id != 10 {
		t.Errorf("Expected the new collection to be published, got %v", publisher.sent)
	}

	res := decodeFacets(t, doRequest(t, h, http.MethodGet, "/api/facets?color=green", ""))
	if res.Count != 1 {
		t.Errorf("Expected new collection to be served, got count %d", res.Count)
	}

	if w := doRequest(t, h, http.MethodPut, "/admin/items", "{broken", "Authorization", "Bearer "+token); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for broken body, got %d", w.Code)
	}
}

func TestAdminReplaceCategories(t *testing.T) {
	ws := NewWebServer(testCatalog())
	ws.AdminSecret = []byte("secret")
	token, _ := CreateAdminToken(ws.AdminSecret, "test", time.Hour)
	w := doRequest(t, ws.Handler(), http.MethodPut, "/admin/categories", `[{"category":"size"}]`, "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	snapshot := ws.Catalog.Snapshot()
	if snapshot.HasCategory("color") || !snapshot.HasCategory("size") {
		t.Errorf("Expected only size to be configured, got %v", snapshot.Categories)
	}

	w = doRequest(t, ws.Handler(), http.MethodPut, "/admin/categories", `[{"category":"size","queryKey":"_size"}]`, "Authorization", "Bearer "+token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for reserved query key, got %d", w.Code)
	}
	if ws.Catalog.Snapshot().Version != snapshot.Version {
		t.Errorf("Expected rejected categories to leave the catalog untouched")
	}
}

func TestAdminIgnoresCookieToken(t *testing.T) {
	ws := NewWebServer(testCatalog())
	ws.AdminSecret = []byte("secret")
	token, _ := CreateAdminToken(ws.AdminSecret, "test", time.Hour)
	if w := doRequest(t, ws.Handler(), http.MethodGet, "/admin/items", "", "Cookie", "sf-admin="+token); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for cookie token, got %d", w.Code)
	}
	if w := doRequest(t, ws.Handler(), http.MethodGet, "/admin/items", "", "Authorization", "Bearer "+token); w.Code != http.StatusOK {
		t.Errorf("Expected 200 for bearer token, got %d", w.Code)
	}
}

func TestAdminRequiresSecret(t *testing.T) {
	ws := NewWebServer(testCatalog())
	token, _ := CreateAdminToken([]byte(""), "test", time.Hour)
	if w := doRequest(t, ws.Handler(), http.MethodGet, "/admin/items", "", "Authorization", "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 when no secret is configured, got %d", w.Code)
	}
}

func TestDebugHandler(t *testing.T) {
	h := DebugHandler(false)
	if w := doRequest(t, h, http.MethodGet, "/health", ""); w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("Expected ok health, got %d %s", w.Code, w.Body.String())
	}
	if w := doRequest(t, h, http.MethodGet, "/metrics", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "slaskfacets_items_total") {
		t.Errorf("Expected metrics to be exposed")
	}
}
