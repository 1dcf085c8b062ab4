package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/AltEgora/avito/api/openapi"
	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
	"github.com/AltEgora/avito/internal/service"
)

type Server struct {
	app    *service.App
	logger *slog.Logger
}

func NewServer(app *service.App, logger *slog.Logger) *Server {
	return &Server{
		app:    app,
		logger: logger,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, status int, code domain.ErrorCode, message string) {
	var resp openapi.ErrorResponse
	resp.Error.Code = openapi.ErrorResponseErrorCode(code)
	resp.Error.Message = message
	s.writeJSON(w, status, resp)
}

func (s *Server) badRequest(w http.ResponseWriter, message string) {
	s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeBadRequest, message)
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.ErrorCodeTeamExists, domain.ErrorCodeBadRequest:
		return http.StatusBadRequest
	case domain.ErrorCodePRExists,
		domain.ErrorCodePRMerged,
		domain.ErrorCodeNotAssigned,
		domain.ErrorCodeNoCandidate:
		return http.StatusConflict
	case domain.ErrorCodeNotFound, domain.ErrorCodeAuthorNotEligible:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	var de *domain.DomainError
	if errors.As(err, &de) {
		s.writeDomainError(w, statusFor(de.Code), de.Code, de.Message)
		return
	}

	if errors.Is(err, repo.ErrPersistence) {
		s.logger.Error("storage failure",
			slog.String("path", r.URL.Path),
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.Any("error", err),
		)
		s.writeDomainError(w, http.StatusInternalServerError, domain.ErrorCodeDBError, "database error")
		return
	}

	s.logger.Error("unexpected error",
		slog.String("path", r.URL.Path),
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.Any("error", err),
	)
	s.writeDomainError(w, http.StatusInternalServerError, domain.ErrorCodeInternal, "internal server error")
}

// decodeBody decodes a JSON request body into dst. An empty body is accepted
// when allowEmpty is set and leaves dst untouched.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	defer func() {
		if err := r.Body.Close(); err != nil {
			s.logger.Debug("error closing request body", "error", err)
		}
	}()

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	if allowEmpty && errors.Is(err, io.EOF) {
		return true
	}
	s.badRequest(w, "invalid JSON body")
	return false
}

// queryParam binds a required query parameter the way generated oapi-codegen
// wrappers do.
func (s *Server) queryParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var value string
	if err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), &value); err != nil {
		s.badRequest(w, name+" is required")
		return "", false
	}
	if value == "" {
		s.badRequest(w, name+" is required")
		return "", false
	}
	return value, true
}

func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) ServeOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if _, err := w.Write(openapi.Spec); err != nil {
		s.logger.Error("failed to write openapi spec", "error", err)
	}
}

func (s *Server) SwaggerUI(w http.ResponseWriter, r *http.Request) {
	const html = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <title>Swagger UI - Reviewer Service</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist/swagger-ui-standalone-preset.js"></script>
    <script>
      window.onload = function() {
        window.ui = SwaggerUIBundle({
          url: '/openapi.yaml',
          dom_id: '#swagger-ui',
          presets: [
            SwaggerUIBundle.presets.apis,
            SwaggerUIStandalonePreset
          ],
          layout: 'StandaloneLayout'
        });
      };
    </script>
  </body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(html)); err != nil {
		s.logger.Error("failed to write swagger ui html", "error", err)
	}
}
