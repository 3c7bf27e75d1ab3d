package routes

import (
	"testing"

	"sportcenter_go/config"

	"github.com/gofiber/fiber/v2"
)

// Older clients fetch the signed-in account through /profile and
// /users/current-user; both must stay registered alongside /auth/me,
// and the literal users route must win over the numeric :id route.
func TestProfileRouteAliases(t *testing.T) {
	config.AppConfig = &config.Config{}
	app := fiber.New()
	SetupRoutes(app)

	type key struct{ method, path string }
	index := map[key]int{}
	for i, r := range app.GetRoutes(true) {
		index[key{r.Method, r.Path}] = i
	}

	want := []key{
		{fiber.MethodGet, "/api/auth/me"},
		{fiber.MethodPut, "/api/auth/password"},
		{fiber.MethodGet, "/api/profile"},
		{fiber.MethodPut, "/api/profile/password"},
		{fiber.MethodGet, "/api/users/current-user"},
	}
	for _, k := range want {
		if _, ok := index[k]; !ok {
			t.Fatalf("route %s %s not registered", k.method, k.path)
		}
	}

	alias, ok := index[key{fiber.MethodGet, "/api/users/current-user"}]
	if !ok {
		t.Fatal("current-user route not registered")
	}
	byID, ok := index[key{fiber.MethodGet, "/api/users/:id"}]
	if !ok {
		t.Fatal("users :id route not registered")
	}
	if alias > byID {
		t.Fatal("current-user must be registered before the :id route")
	}
}
