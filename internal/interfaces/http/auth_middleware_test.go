package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/exp-usinagem-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/exp-usinagem-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "op-0001"
	testUserName  = "Ana Souza"
	testIssuer    = "exp-usinagem-test"
	testExpMin    = 60
)

// buildAuthApp rota protegida por AuthMiddleware + RequireRole que só responde 200.
func buildAuthApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUserName, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_SupervisorAccessesSupervisorRoute(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleSupervisor, pkgjwt.RoleAdmin)
	resp := doGet(t, app, "/protected", tokenForRole(t, pkgjwt.RoleSupervisor))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, pkgjwt.RoleSupervisor, body["role"])
}

func TestRequireRole_OperatorBlockedOnAdminRoute(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin)
	resp := doGet(t, app, "/protected", tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenWithoutRole(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin)
	resp := doGet(t, app, "/protected", tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_MissingAndInvalidToken(t *testing.T) {
	app := buildAuthApp(pkgjwt.RoleAdmin)

	resp := doGet(t, app, "/protected", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp2 := doGet(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	resp3 := doGet(t, app, "/protected", "Basic abc")
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp3.StatusCode)
}

func TestAuthMiddleware_StoresClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"actor":   apphttp.GetActor(c),
			"role":    apphttp.GetRole(c),
		})
	})

	resp := doGet(t, app, "/me", tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUserName, body["actor"])
	assert.Equal(t, pkgjwt.RoleOperator, body["role"])
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	tok, err := pkgjwt.Generate("outro-secret", testUserID, testUserName, pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildAuthApp(pkgjwt.RoleAdmin)
	resp := doGet(t, app, "/protected", "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
