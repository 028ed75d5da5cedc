// Package validation checks request bodies for the todo API against JSON schemas.
package validation

import (
	"encoding/json"
	"errors"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	createSchema = jsonschema.MustCompileString("todo_create.json", `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1}
		},
		"required": ["name"]
	}`)
	patchSchema = jsonschema.MustCompileString("todo_patch.json", `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1}
		}
	}`)
)

// TodoInput is the decoded body of a create or patch request. Name is nil when the field is absent.
type TodoInput struct {
	Name *string `json:"name"`
}

// Error describes why a body was rejected. Path is a dotted field path, empty for the whole body.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// CreateInput validates a POST body. name is required.
func CreateInput(body []byte) (TodoInput, error) {
	return decode(createSchema, body)
}

// PatchInput validates a PATCH body. Every field is optional.
func PatchInput(body []byte) (TodoInput, error) {
	return decode(patchSchema, body)
}

func decode(schema *jsonschema.Schema, body []byte) (TodoInput, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return TodoInput{}, &Error{Message: "malformed JSON body"}
	}
	if err := schema.Validate(doc); err != nil {
		return TodoInput{}, schemaError(err)
	}
	var in TodoInput
	if err := json.Unmarshal(body, &in); err != nil {
		return TodoInput{}, &Error{Message: err.Error()}
	}
	return in, nil
}

// schemaError reduces a jsonschema error tree to its first leaf.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &Error{Message: err.Error()}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &Error{
		Path:    pointerToPath(ve.InstanceLocation),
		Message: ve.Message,
	}
}

func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
