package preservica

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jlefonde/preservica_graphql/internal/errs"
	"github.com/jlefonde/preservica_graphql/internal/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entityXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<EntityResponse xmlns="http://preservica.com/EntityAPI/v6.2" xmlns:xip="http://preservica.com/XIP/v6.2">
  <xip:InformationObject>
    <xip:Ref>11111111-1111-1111-1111-111111111111</xip:Ref>
    <xip:Title>Report</xip:Title>
    <xip:SecurityTag>open</xip:SecurityTag>
    <xip:Parent>22222222-2222-2222-2222-222222222222</xip:Parent>
  </xip:InformationObject>
  <AdditionalInformation>
    <Children>https://eu.preservica.com/api/entity/information-objects/11111111-1111-1111-1111-111111111111/children</Children>
  </AdditionalInformation>
</EntityResponse>`

var testCreds = secret.Credentials{Username: "archivist", Password: "s3cret"}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/accesstoken/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "archivist", r.PostForm.Get("username"))
		assert.Equal(t, "s3cret", r.PostForm.Get("password"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"token":"tok-abc","refresh-token":"ref-xyz","validFor":15}`))
	}))
	defer server.Close()

	token, err := NewClient(server.URL+"/", nil).Login(context.Background(), testCreds)

	require.NoError(t, err)
	assert.Equal(t, Token("tok-abc"), token)
}

func TestClient_LoginDoesNotLogCredentials(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-abc"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Login(context.Background(), testCreds)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Requesting access token")
	assert.NotContains(t, buf.String(), "archivist")
	assert.NotContains(t, buf.String(), "s3cret")
	assert.NotContains(t, buf.String(), "tok-abc")
}

func TestClient_LoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr errs.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"success":false}`, errs.AuthTransportError},
		{"not json", http.StatusOK, `<html>login</html>`, errs.AuthDecodeError},
		{"missing token", http.StatusOK, `{"success":true}`, errs.AuthDecodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, nil).Login(context.Background(), testCreds)

			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestClient_LoginTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	_, err := NewClient(baseURL, nil).Login(context.Background(), testCreds)

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.AuthTransportError))
}

func TestClient_FetchEntity(t *testing.T) {
	ref := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/entity/information-objects/11111111-1111-1111-1111-111111111111", r.URL.Path)
		assert.Equal(t, "tok-abc", r.Header.Get("Preservica-Access-Token"))

		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(entityXML))
	}))
	defer server.Close()

	body, err := NewClient(server.URL, nil).FetchEntity(context.Background(), ref, Token("tok-abc"))

	require.NoError(t, err)
	assert.Equal(t, entityXML, body)
}

func TestClient_FetchEntityFailures(t *testing.T) {
	ref := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	t.Run("non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewClient(server.URL, nil).FetchEntity(context.Background(), ref, Token("tok-abc"))

		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.FetchTransportError))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("transport error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		baseURL := server.URL
		server.Close()

		_, err := NewClient(baseURL, nil).FetchEntity(context.Background(), ref, Token("tok-abc"))

		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.FetchTransportError))
	})
}

func TestDecodeEntity(t *testing.T) {
	entity, err := DecodeEntity(entityXML)

	require.NoError(t, err)
	assert.Equal(t, &Entity{
		Reference:   uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Title:       "Report",
		SecurityTag: "open",
		Parent:      uuid.MustParse("22222222-2222-2222-2222-222222222222"),
	}, entity)
}

func TestDecodeEntity_WithoutNamespaces(t *testing.T) {
	body := `<EntityResponse><InformationObject>` +
		`<Ref>33333333-3333-3333-3333-333333333333</Ref><Title></Title>` +
		`<SecurityTag>closed</SecurityTag><Parent>44444444-4444-4444-4444-444444444444</Parent>` +
		`</InformationObject></EntityResponse>`

	entity, err := DecodeEntity(body)

	require.NoError(t, err)
	assert.Equal(t, "", entity.Title)
	assert.Equal(t, "closed", entity.SecurityTag)
}

func TestDecodeEntity_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"json body", `{"Ref":"11111111-1111-1111-1111-111111111111"}`},
		{"truncated xml", `<EntityResponse><InformationObject><Ref>`},
		{"no information object", `<EntityResponse><Folder/></EntityResponse>`},
		{
			"missing security tag",
			`<EntityResponse><InformationObject><Ref>11111111-1111-1111-1111-111111111111</Ref>` +
				`<Title>Report</Title><Parent>22222222-2222-2222-2222-222222222222</Parent></InformationObject></EntityResponse>`,
		},
		{
			"malformed ref",
			`<EntityResponse><InformationObject><Ref>not-a-uuid</Ref><Title>Report</Title>` +
				`<SecurityTag>open</SecurityTag><Parent>22222222-2222-2222-2222-222222222222</Parent></InformationObject></EntityResponse>`,
		},
		{
			"malformed parent",
			`<EntityResponse><InformationObject><Ref>11111111-1111-1111-1111-111111111111</Ref><Title>Report</Title>` +
				`<SecurityTag>open</SecurityTag><Parent>2222</Parent></InformationObject></EntityResponse>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity, err := DecodeEntity(tt.body)

			require.Error(t, err)
			assert.Nil(t, entity)
			assert.True(t, errs.Is(err, errs.DecodeError), "got %v", err)
		})
	}
}
