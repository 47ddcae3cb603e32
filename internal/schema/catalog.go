// Package schema publishes the push catalog as a JSON Schema document and
// checks encoded pushes against it.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/example/ec-datalayer/internal/domain/ecommerce"
)

// CatalogURL is the $id of the embedded document.
const CatalogURL = "https://ecommerce.schemas.local/datalayer/catalog.schema.json"

//go:embed catalog.schema.json
var catalogDocument []byte

// Document returns a copy of the raw JSON Schema document.
func Document() []byte {
	return bytes.Clone(catalogDocument)
}

// Catalog is the compiled catalog schema. It is safe for concurrent use.
type Catalog struct {
	schema *jsonschema.Schema
	kinds  map[ecommerce.Kind]*jsonschema.Schema
}

// kindDefinition is the $defs entry describing pushes of kind.
func kindDefinition(kind ecommerce.Kind) string {
	return CatalogURL + "#/$defs/" + string(kind) + "Push"
}

func Compile() (*Catalog, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(CatalogURL, bytes.NewReader(catalogDocument)); err != nil {
		return nil, fmt.Errorf("catalog schema load failed: %w", err)
	}
	compiled, err := c.Compile(CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("catalog schema compile failed: %w", err)
	}
	kinds := make(map[ecommerce.Kind]*jsonschema.Schema, len(ecommerce.Kinds()))
	for _, kind := range ecommerce.Kinds() {
		branch, err := c.Compile(kindDefinition(kind))
		if err != nil {
			return nil, fmt.Errorf("catalog schema compile failed for %s: %w", kind, err)
		}
		kinds[kind] = branch
	}
	return &Catalog{schema: compiled, kinds: kinds}, nil
}

// ValidatePush encodes push and checks the encoding against the catalog.
// When the push resolves to a kind, it is checked against that kind's entry
// so the error describes the intended kind.
func (c *Catalog) ValidatePush(push ecommerce.DataLayerPush) error {
	data, err := json.Marshal(push)
	if err != nil {
		return fmt.Errorf("failed to encode push: %w", err)
	}
	kind, err := push.Kind()
	if err != nil {
		return c.ValidateEncoded(data)
	}
	doc, err := decode(data)
	if err != nil {
		return err
	}
	if err := c.kinds[kind].Validate(doc); err != nil {
		return fmt.Errorf("%s push does not match catalog: %w", kind, err)
	}
	return nil
}

// ValidateEncoded checks an already encoded push against the catalog.
func (c *Catalog) ValidateEncoded(data []byte) error {
	doc, err := decode(data)
	if err != nil {
		return err
	}
	if err := c.schema.Validate(doc); err != nil {
		return fmt.Errorf("push does not match catalog: %w", err)
	}
	return nil
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode push: %w", err)
	}
	return doc, nil
}
