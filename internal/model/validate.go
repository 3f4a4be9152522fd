// Package model defines the pipeline document types (intent documents and
// execution-plan documents) together with their field-level constraints.
// Parsing is strict: unknown fields are rejected, and every violation is
// reported, not just the first.
package model

import (
	"bytes"
	"errors"
	"io"

	yamlv3 "gopkg.in/yaml.v3"
)

// ParseIntent decodes and validates an intent document. On failure the
// returned document is nil and the list carries every defect found; parse
// failures abort before field checks run.
func ParseIntent(data []byte) (*IntentDocument, ErrorList) {
	var doc IntentDocument
	if errs := decodeStrict(data, &doc); len(errs) > 0 {
		return nil, errs
	}
	if errs := doc.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &doc, nil
}

// ParsePlan decodes and validates an execution-plan document at the field
// level. Cross-collection checks are the consistency package's job.
func ParsePlan(data []byte) (*ExecutionPlanDocument, ErrorList) {
	var doc ExecutionPlanDocument
	if errs := decodeStrict(data, &doc); len(errs) > 0 {
		return nil, errs
	}
	if errs := doc.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &doc, nil
}

// SerializeIntent renders a document back to YAML. Round-trips all fields
// except those normalized during validation.
func SerializeIntent(d *IntentDocument) ([]byte, error) {
	return yamlv3.Marshal(d)
}

func SerializePlan(p *ExecutionPlanDocument) ([]byte, error) {
	return yamlv3.Marshal(p)
}

func decodeStrict(data []byte, out any) ErrorList {
	var errs ErrorList

	if len(bytes.TrimSpace(data)) == 0 {
		errs.Add("", "document is empty", ErrorTypeParse)
		return errs
	}

	dec := yamlv3.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // closed-world schema: extra fields are defects

	err := dec.Decode(out)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		errs.Add("", "document is empty", ErrorTypeParse)
		return errs
	}

	var typeErr *yamlv3.TypeError
	if errors.As(err, &typeErr) {
		for _, msg := range typeErr.Errors {
			errs.Add("", msg, ErrorTypeParse)
		}
		return errs
	}

	errs.Add("", err.Error(), ErrorTypeParse)
	return errs
}
