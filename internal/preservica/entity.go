package preservica

import (
	"encoding/xml"
	"strings"

	"github.com/google/uuid"
	"github.com/jlefonde/preservica_graphql/internal/errs"
)

// Entity is an information object as exposed to API consumers.
type Entity struct {
	Reference   uuid.UUID
	Title       string
	SecurityTag string
	Parent      uuid.UUID
}

// InformationObject mirrors the <InformationObject> element of an Entity API
// response. Pointers distinguish a missing element from an empty one.
type InformationObject struct {
	Reference   *string `xml:"Ref"`
	Title       *string `xml:"Title"`
	SecurityTag *string `xml:"SecurityTag"`
	Parent      *string `xml:"Parent"`
}

type entityResponse struct {
	InformationObject *InformationObject `xml:"InformationObject"`
}

// DecodeEntity parses an Entity API response. Element names are matched
// without regard to the xip/EntityAPI namespaces.
func DecodeEntity(body string) (*Entity, error) {
	var res entityResponse
	if err := xml.NewDecoder(strings.NewReader(body)).Decode(&res); err != nil {
		return nil, errs.New(errs.DecodeError, "failed to decode entity response: %w", err)
	}

	obj := res.InformationObject
	if obj == nil {
		return nil, errs.New(errs.DecodeError, "failed to decode entity response: missing InformationObject")
	}

	required := []struct {
		name  string
		value *string
	}{
		{"Ref", obj.Reference},
		{"Title", obj.Title},
		{"SecurityTag", obj.SecurityTag},
		{"Parent", obj.Parent},
	}
	for _, field := range required {
		if field.value == nil {
			return nil, errs.New(errs.DecodeError, "failed to decode entity response: missing field '%s'", field.name)
		}
	}

	reference, err := uuid.Parse(strings.TrimSpace(*obj.Reference))
	if err != nil {
		return nil, errs.New(errs.DecodeError, "failed to parse Ref '%s': %w", *obj.Reference, err)
	}

	parent, err := uuid.Parse(strings.TrimSpace(*obj.Parent))
	if err != nil {
		return nil, errs.New(errs.DecodeError, "failed to parse Parent '%s': %w", *obj.Parent, err)
	}

	return &Entity{
		Reference:   reference,
		Title:       *obj.Title,
		SecurityTag: *obj.SecurityTag,
		Parent:      parent,
	}, nil
}
