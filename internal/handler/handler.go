package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/graph-gophers/graphql-go"
	"github.com/jlefonde/preservica_graphql/internal/errs"
)

type Handler struct {
	schema *graphql.Schema
}

func New(schema *graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

type errorPayload struct {
	Errors []errorEntry `json:"errors"`
}

type errorEntry struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func jsonResponse(status int, body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: body,
	}
}

func errorResponse(status int, entry errorEntry) events.APIGatewayV2HTTPResponse {
	body, err := json.Marshal(errorPayload{Errors: []errorEntry{entry}})
	if err != nil {
		return jsonResponse(http.StatusInternalServerError, `{"errors":[{"message":"Internal Server Error"}]}`)
	}
	return jsonResponse(status, string(body))
}

func clientError(status int, err error) events.APIGatewayV2HTTPResponse {
	entry := errorEntry{Message: err.Error()}

	var e *errs.Error
	if errors.As(err, &e) {
		entry.Extensions = e.Extensions()
	}

	return errorResponse(status, entry)
}

func serverError(ctx context.Context, err error) events.APIGatewayV2HTTPResponse {
	slog.ErrorContext(ctx, "Request failed", "error", err)

	return errorResponse(http.StatusInternalServerError, errorEntry{
		Message: http.StatusText(http.StatusInternalServerError),
	})
}

// Handle serves a GraphQL request from API Gateway or a function URL. Field
// and query errors are reported in the payload with a 200 status, only a
// malformed request or an unusable HTTP method gets a 4xx.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	var (
		params *graphQLRequest
		err    error
	)

	switch req.RequestContext.HTTP.Method {
	case http.MethodPost, "":
		params, err = parseBody(req)
	case http.MethodGet:
		params, err = parseQueryString(req)
	default:
		return clientError(http.StatusMethodNotAllowed,
			errs.New(errs.InvalidRequest, "method %s not allowed", req.RequestContext.HTTP.Method)), nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Rejected request", "error", err)
		return clientError(http.StatusBadRequest, err), nil
	}

	slog.InfoContext(ctx, "Executing query", "operation", params.OperationName)
	resp := h.schema.Exec(ctx, params.Query, params.OperationName, params.Variables)
	if len(resp.Errors) > 0 {
		slog.WarnContext(ctx, "Query completed with errors", "count", len(resp.Errors))
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return serverError(ctx, err), nil
	}

	return jsonResponse(http.StatusOK, string(body)), nil
}
