package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrahimdesign/atelier/pkg/router"
)

func handler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck
	}
}

func TestNamedRoutesAndVerbs(t *testing.T) {
	r := router.New()
	r.Get("/things", "things.list", handler("list"))
	r.Post("/things", "things.create", handler("create"))
	r.Patch("/things/{id}", "things.update", handler("update"))
	r.Delete("/things/{id}", "things.delete", handler("delete"))

	infos := r.Routes()
	assert.Len(t, infos, 4)

	for method, want := range map[string]string{
		http.MethodPatch:  "update",
		http.MethodDelete: "delete",
	} {
		req := httptest.NewRequest(method, "/things/42", nil)
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Body.String())
	}
}

func TestGroupsNest(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	manage := api.Group("/manage")
	manage.Post("/create", "manage.create", handler("created"))

	req := httptest.NewRequest(http.MethodPost, "/api/manage/create", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "created", rec.Body.String())

	path, ok := r.Path("manage.create")
	require.True(t, ok)
	assert.Equal(t, "/api/manage/create", path)
}

func TestURLSubstitution(t *testing.T) {
	r := router.New()
	r.Get("/products/{slug}", "products.show", handler("ok"))

	url, err := r.URL("products.show", map[string]string{"slug": "linen-blazer"})
	require.NoError(t, err)
	assert.Equal(t, "/products/linen-blazer", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)
}

func TestGroupMiddlewareApplies(t *testing.T) {
	r := router.New()
	tagged := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Tag", "yes")
			next.ServeHTTP(w, req)
		})
	}

	grp := r.Group("/g", tagged)
	grp.Get("/x", "g.x", handler("ok"))

	req := httptest.NewRequest(http.MethodGet, "/g/x", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "yes", rec.Header().Get("X-Tag"))
}
