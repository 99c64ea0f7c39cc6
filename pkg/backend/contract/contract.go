// Package contract validates backend request payloads against the embedded
// OpenAPI description before they are sent.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// Operation ids declared by the embedded document.
const (
	OpPay          = "pay"
	OpNotification = "notification"
	OpReport       = "report"
)

// Document returns the embedded OpenAPI document.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Operation is a resolved endpoint.
type Operation struct {
	ID     string
	Method string
	Path   string
	op     *openapi3.Operation
}

// Validator checks payloads per operation.
type Validator struct {
	operations map[string]Operation
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// Default returns a validator over the embedded document.
func Default() (*Validator, error) {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = Load(context.Background(), document)
	})
	return defaultValidator, defaultErr
}

// Load parses and validates an OpenAPI document.
func Load(ctx context.Context, data []byte) (*Validator, error) {
	if len(data) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}

	v := &Validator{operations: make(map[string]Operation)}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID == "" {
				continue
			}
			v.operations[op.OperationID] = Operation{ID: op.OperationID, Method: method, Path: path, op: op}
		}
	}
	return v, nil
}

// Operation returns the endpoint declared under id.
func (v *Validator) Operation(id string) (Operation, bool) {
	op, ok := v.operations[id]
	return op, ok
}

// Operations lists the declared operation ids, sorted.
func (v *Validator) Operations() []string {
	ids := make([]string, 0, len(v.operations))
	for id := range v.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ValidateQuery checks query parameters of operation id.
func (v *Validator) ValidateQuery(id string, params map[string]string) error {
	op, ok := v.operations[id]
	if !ok {
		return fmt.Errorf("contract: unknown operation %q", id)
	}
	for _, ref := range op.op.Parameters {
		if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInQuery {
			continue
		}
		param := ref.Value
		value, present := params[param.Name]
		if !present {
			if param.Required {
				return fmt.Errorf("contract: %s: query parameter %q is required", id, param.Name)
			}
			continue
		}
		if param.Schema == nil || param.Schema.Value == nil {
			continue
		}
		if err := param.Schema.Value.VisitJSON(value); err != nil {
			return fmt.Errorf("contract: %s: query parameter %q: %w", id, param.Name, err)
		}
	}
	return nil
}

// ValidateBody checks the JSON encoding of body against the request schema of
// operation id.
func (v *Validator) ValidateBody(id string, body any) error {
	op, ok := v.operations[id]
	if !ok {
		return fmt.Errorf("contract: unknown operation %q", id)
	}
	if op.op.RequestBody == nil || op.op.RequestBody.Value == nil {
		return nil
	}
	media := op.op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("contract: %s: encode body: %w", id, err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("contract: %s: decode body: %w", id, err)
	}
	if err := media.Schema.Value.VisitJSON(decoded); err != nil {
		return fmt.Errorf("contract: %s: %w", id, err)
	}
	return nil
}
