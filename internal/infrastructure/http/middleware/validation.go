package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/flyerhub/flyerd/internal/infrastructure/http/response"
)

// ValidationConfig holds configuration for the OpenAPI validation middleware.
type ValidationConfig struct {
	// MultiError when true collects all validation errors instead of stopping at first.
	MultiError bool
}

// NewValidator creates OpenAPI request validation middleware.
// Requests that do not match the OpenAPI document get a 400 VALIDATION_ERROR response.
// Requests for paths the document does not describe are passed through so the
// router can answer 404/405 itself.
func NewValidator(spec *openapi3.T, config ValidationConfig) (func(http.Handler) http.Handler, error) {
	// The API router is mounted at /api; host is not validated.
	spec.Servers = openapi3.Servers{
		{URL: "/api"},
	}

	router, err := gorillamux.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	opts := &openapi3filter.Options{
		MultiError:         config.MultiError,
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
				Options:    opts,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				details := validationDetails("", err)
				slog.WarnContext(r.Context(), "request validation failed",
					"path", r.URL.Path,
					"method", r.Method,
					"invalid_field_count", len(details),
					"error", err.Error())
				response.ValidationErrors(w, details)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// validationDetails flattens kin-openapi errors into field/issue pairs.
// field is the enclosing parameter or body name, empty at the top level.
func validationDetails(field string, err error) []response.ErrorField {
	switch e := err.(type) {
	case openapi3.MultiError:
		var details []response.ErrorField
		for _, inner := range e {
			details = append(details, validationDetails(field, inner)...)
		}
		return details

	case *openapi3filter.RequestError:
		field := "body"
		if e.Parameter != nil {
			field = e.Parameter.Name
		}
		if e.Err == nil {
			return []response.ErrorField{{Field: field, Issue: e.Reason}}
		}
		return validationDetails(field, e.Err)

	case *openapi3.SchemaError:
		if path := e.JSONPointer(); len(path) > 0 && field == "body" {
			field = strings.Join(path, ".")
		}
		return []response.ErrorField{{Field: orDefault(field, "body"), Issue: e.Reason}}
	}

	return []response.ErrorField{{Field: orDefault(field, "request"), Issue: err.Error()}}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
