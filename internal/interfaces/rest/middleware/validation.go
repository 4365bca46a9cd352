package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// Validation checks requests against the OpenAPI document before they reach a
// handler. Paths the document does not describe pass through untouched.
func Validation(openAPI []byte, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	router, err := newOpenAPIRouter(openAPI)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				rest.WriteError(w, r, toAPIError(err), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func newOpenAPIRouter(openAPI []byte) (routers.Router, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPI)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return gorillamux.NewRouter(doc)
}

func toAPIError(err error) error {
	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return apierrors.InvalidRequestData(err.Error())
	}

	if errors.Is(reqErr.Err, openapi3filter.ErrInvalidRequired) {
		if reqErr.Parameter != nil {
			return apierrors.MissingRequiredField(reqErr.Parameter.Name)
		}
		return apierrors.MissingRequiredField("request body")
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(reqErr.Err, &schemaErr) {
		field := strings.Join(schemaErr.JSONPointer(), ".")
		if reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}
		if field == "" {
			field = "request body"
		}
		if schemaErr.SchemaField == "required" {
			return apierrors.MissingRequiredField(field)
		}
		apiErr := apierrors.InvalidDataValue(field)
		apiErr.Reason = schemaErr.Reason
		return apiErr
	}

	return apierrors.InvalidRequestData(reqErr.Error())
}
