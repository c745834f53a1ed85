package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const OpenAPIPath = "/api/v1/openapi.json"

//go:embed openapi.yaml
var openAPISpec []byte

// LoadOpenAPI parses and validates the embedded API description.
func LoadOpenAPI(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// WithOpenAPI makes Register serve the document and a Swagger UI for it.
func (s *Server) WithOpenAPI(doc *openapi3.T) *Server {
	s.doc = doc
	return s
}

func (s *Server) registerDocs(e *echo.Echo) {
	if s.doc == nil {
		return
	}
	e.GET(OpenAPIPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.doc)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL(OpenAPIPath)))
}
