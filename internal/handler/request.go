package handler

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/jlefonde/preservica_graphql/internal/errs"
)

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func parseBody(req events.APIGatewayV2HTTPRequest) (*graphQLRequest, error) {
	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, errs.New(errs.InvalidRequest, "failed to decode base64 body: %w", err)
		}
		body = string(decoded)
	}

	if !utf8.ValidString(body) {
		return nil, errs.New(errs.InvalidRequest, "request body is not valid UTF-8")
	}

	var params graphQLRequest
	if err := json.Unmarshal([]byte(body), &params); err != nil {
		return nil, errs.New(errs.InvalidRequest, "failed to parse request body: %w", err)
	}

	return validate(&params)
}

func parseQueryString(req events.APIGatewayV2HTTPRequest) (*graphQLRequest, error) {
	params := graphQLRequest{
		Query:         req.QueryStringParameters["query"],
		OperationName: req.QueryStringParameters["operationName"],
	}

	if raw := req.QueryStringParameters["variables"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &params.Variables); err != nil {
			return nil, errs.New(errs.InvalidRequest, "failed to parse variables: %w", err)
		}
	}

	return validate(&params)
}

func validate(params *graphQLRequest) (*graphQLRequest, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, errs.New(errs.InvalidRequest, "missing query")
	}
	return params, nil
}
