// Package contract loads the OpenAPI document describing the quote intake
// API and exposes the request-schema facts the gateway validates against:
// required fields, the email pattern, and the known property set. Driving
// server-side validation from the same document the clients are generated
// from keeps the two sides aligned.
package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var embeddedDocument []byte

// SubmitPath is the gateway route described by the contract.
const SubmitPath = "/api/contact"

// Contract is the parsed request contract for the submit operation.
type Contract struct {
	required     []string
	properties   map[string]struct{}
	emailPattern *regexp.Regexp
}

// Load parses the embedded OpenAPI document.
func Load(ctx context.Context) (*Contract, error) {
	return LoadFromData(ctx, embeddedDocument)
}

// LoadFromData parses an OpenAPI document payload and extracts the submit
// operation's request schema.
func LoadFromData(ctx context.Context, data []byte) (*Contract, error) {
	if len(data) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}

	schema, err := requestSchema(doc)
	if err != nil {
		return nil, err
	}

	c := &Contract{
		required:   append([]string(nil), schema.Required...),
		properties: make(map[string]struct{}, len(schema.Properties)),
	}
	sort.Strings(c.required)
	for name, prop := range schema.Properties {
		c.properties[name] = struct{}{}
		if name == "email" && prop.Value != nil && prop.Value.Pattern != "" {
			pattern, err := regexp.Compile(prop.Value.Pattern)
			if err != nil {
				return nil, fmt.Errorf("contract: email pattern: %w", err)
			}
			c.emailPattern = pattern
		}
	}
	if c.emailPattern == nil {
		return nil, errors.New("contract: email property has no pattern")
	}
	if len(c.required) == 0 {
		return nil, errors.New("contract: request schema declares no required fields")
	}
	return c, nil
}

func requestSchema(doc *openapi3.T) (*openapi3.Schema, error) {
	if doc.Paths == nil {
		return nil, errors.New("contract: document has no paths")
	}
	item := doc.Paths.Find(SubmitPath)
	if item == nil || item.Post == nil {
		return nil, fmt.Errorf("contract: document does not describe POST %s", SubmitPath)
	}
	body := item.Post.RequestBody
	if body == nil || body.Value == nil {
		return nil, errors.New("contract: submit operation has no request body")
	}
	media := body.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, errors.New("contract: submit operation has no JSON schema")
	}
	return media.Schema.Value, nil
}

// Required returns the required field names in sorted order.
func (c *Contract) Required() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.required...)
}

// HasProperty reports whether the request schema declares the property.
func (c *Contract) HasProperty(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.properties[name]
	return ok
}

// ValidEmail checks a value against the contract's email pattern.
func (c *Contract) ValidEmail(value string) bool {
	if c == nil || c.emailPattern == nil {
		return false
	}
	return c.emailPattern.MatchString(value)
}
