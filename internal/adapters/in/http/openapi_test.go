package http_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	httpin "lastmile/internal/adapters/in/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoadOpenAPI(t *testing.T) {
	doc, err := httpin.LoadOpenAPI(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "lastmile", doc.Info.Title)
}

func TestOpenAPI_DescribesEveryRoute(t *testing.T) {
	doc, err := httpin.LoadOpenAPI(context.Background())
	require.NoError(t, err)

	e := newEcho(t, httpin.Handlers{})

	documented := 0
	for _, route := range e.Routes() {
		switch route.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut:
		default:
			continue
		}
		if strings.Contains(route.Path, "*") {
			continue
		}

		path := toOpenAPIPath(route.Path)
		item := doc.Paths.Find(path)
		if assert.NotNil(t, item, "%s %s is not documented", route.Method, path) {
			assert.NotNil(t, item.GetOperation(route.Method), "%s %s is not documented", route.Method, path)
		}
		documented++
	}

	operations := 0
	for _, item := range doc.Paths.Map() {
		operations += len(item.Operations())
	}
	assert.Equal(t, operations, documented, "document lists operations without a route")
}

func TestOpenAPI_Served(t *testing.T) {
	doc, err := httpin.LoadOpenAPI(context.Background())
	require.NoError(t, err)

	server := httpin.NewServer(httpin.Handlers{}, zaptest.NewLogger(t)).WithOpenAPI(doc)
	e := httpin.NewEcho(server)

	rec := do(e, http.MethodGet, httpin.OpenAPIPath, "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openapi":"3.0.3"`)

	rec = do(e, http.MethodGet, "/swagger/index.html", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func toOpenAPIPath(echoPath string) string {
	parts := strings.Split(echoPath, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}
