package model

import (
	"reflect"
	"strings"
	"testing"
)

const validIntentYAML = `name: billing-service
requirements:
  content: |
    # Billing
    Customers are invoiced monthly for metered usage.
diagram_requests:
  - category: architecture
`

func hasError(errs ErrorList, field string, errType ErrorType) bool {
	for _, e := range errs {
		if e.Field == field && e.Type == errType {
			return true
		}
	}
	return false
}

func TestParseIntent_Valid(t *testing.T) {
	doc, errs := ParseIntent([]byte(validIntentYAML))
	if len(errs) > 0 {
		t.Fatalf("ParseIntent failed: %v", errs)
	}

	if doc.Name != "billing-service" {
		t.Errorf("name: got %q, want %q", doc.Name, "billing-service")
	}
	if doc.Version != "1.0.0" {
		t.Errorf("version default: got %q, want %q", doc.Version, "1.0.0")
	}
	if doc.Requirements.Format != "markdown" {
		t.Errorf("requirements format default: got %q, want %q", doc.Requirements.Format, "markdown")
	}
	if len(doc.DiagramRequests) != 1 || doc.DiagramRequests[0].Category != CategoryArchitecture {
		t.Errorf("diagram_requests: got %+v", doc.DiagramRequests)
	}
}

func TestParseIntent_RoundTrip(t *testing.T) {
	doc, errs := ParseIntent([]byte(validIntentYAML))
	if len(errs) > 0 {
		t.Fatalf("ParseIntent failed: %v", errs)
	}

	serialized, err := SerializeIntent(doc)
	if err != nil {
		t.Fatalf("SerializeIntent failed: %v", err)
	}

	reparsed, errs := ParseIntent(serialized)
	if len(errs) > 0 {
		t.Fatalf("reparse failed: %v", errs)
	}

	if !reflect.DeepEqual(doc, reparsed) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", reparsed, doc)
	}
}

func TestParseIntent_RequirementsExclusivity(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			"both",
			`name: svc
requirements:
  content: inline text
  file_path: docs/prd.md
diagram_requests:
  - category: flowchart
`,
		},
		{
			"neither",
			`name: svc
requirements: {}
diagram_requests:
  - category: flowchart
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseIntent([]byte(tt.yaml))
			if !hasError(errs, "requirements", ErrorTypeCrossField) {
				t.Errorf("expected cross_field error on requirements, got %v", errs)
			}
		})
	}
}

func TestParseIntent_BadName(t *testing.T) {
	tests := []string{"1service", "-svc", "my service", ""}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			yamlDoc := strings.Replace(validIntentYAML, "billing-service", name, 1)
			_, errs := ParseIntent([]byte(yamlDoc))
			if !hasError(errs, "name", ErrorTypeConstraint) {
				t.Errorf("name %q: expected constraint error, got %v", name, errs)
			}
		})
	}
}

func TestParseIntent_NoDiagramRequests(t *testing.T) {
	yamlDoc := `name: svc
requirements:
  content: some requirements text
diagram_requests: []
`
	_, errs := ParseIntent([]byte(yamlDoc))
	if !hasError(errs, "diagram_requests", ErrorTypeConstraint) {
		t.Errorf("expected constraint error on diagram_requests, got %v", errs)
	}
}

func TestParseIntent_DuplicateRequests(t *testing.T) {
	yamlDoc := `name: svc
requirements:
  content: some requirements text
diagram_requests:
  - category: flowchart
    description: checkout flow
  - category: flowchart
    description: checkout flow
`
	_, errs := ParseIntent([]byte(yamlDoc))
	if !hasError(errs, "diagram_requests[1]", ErrorTypeConstraint) {
		t.Errorf("expected duplicate error on diagram_requests[1], got %v", errs)
	}
}

func TestParseIntent_DistinctDescriptionsAllowed(t *testing.T) {
	yamlDoc := `name: svc
requirements:
  content: some requirements text
diagram_requests:
  - category: flowchart
    description: checkout flow
  - category: flowchart
    description: refund flow
`
	_, errs := ParseIntent([]byte(yamlDoc))
	if len(errs) > 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestParseIntent_CategoryNormalization(t *testing.T) {
	yamlDoc := `name: svc
requirements:
  content: some requirements text
diagram_requests:
  - category: XY Chart
`
	doc, errs := ParseIntent([]byte(yamlDoc))
	if len(errs) > 0 {
		t.Fatalf("ParseIntent failed: %v", errs)
	}
	if doc.DiagramRequests[0].Category != CategoryXYChart {
		t.Errorf("category: got %q, want %q", doc.DiagramRequests[0].Category, CategoryXYChart)
	}
}

func TestParseIntent_UnknownCategory(t *testing.T) {
	yamlDoc := `name: svc
requirements:
  content: some requirements text
diagram_requests:
  - category: hologram
`
	_, errs := ParseIntent([]byte(yamlDoc))
	if !hasError(errs, "diagram_requests[0].category", ErrorTypeConstraint) {
		t.Errorf("expected constraint error on category, got %v", errs)
	}
}

func TestParseIntent_UnknownField(t *testing.T) {
	yamlDoc := validIntentYAML + "surprise_field: boom\n"
	_, errs := ParseIntent([]byte(yamlDoc))
	if len(errs) == 0 || errs[0].Type != ErrorTypeParse {
		t.Errorf("expected parse error for unknown field, got %v", errs)
	}
}

func TestParseIntent_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t\n"},
		{"broken yaml", "name: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, errs := ParseIntent([]byte(tt.data))
			if doc != nil {
				t.Fatalf("expected nil document")
			}
			if len(errs) == 0 || errs[0].Type != ErrorTypeParse {
				t.Errorf("expected parse error, got %v", errs)
			}
		})
	}
}

func TestParseIntent_AccumulatesAllErrors(t *testing.T) {
	yamlDoc := `name: 1bad
version: not-semver
requirements: {}
diagram_requests:
  - category: hologram
    preferred_framework: crayon
`
	_, errs := ParseIntent([]byte(yamlDoc))
	for _, field := range []string{"name", "version", "requirements", "diagram_requests[0].category", "diagram_requests[0].preferred_framework"} {
		found := false
		for _, e := range errs {
			if e.Field == field {
				found = true
			}
		}
		if !found {
			t.Errorf("expected an error on %s, got %v", field, errs)
		}
	}
}

func TestParseIntent_OversizeContent(t *testing.T) {
	yamlDoc := `name: svc
requirements:
  content: ` + strings.Repeat("x", maxContentBytes+1) + `
diagram_requests:
  - category: flowchart
`
	_, errs := ParseIntent([]byte(yamlDoc))
	if !hasError(errs, "requirements.content", ErrorTypeConstraint) {
		t.Errorf("expected constraint error on requirements.content, got %v", errs)
	}
}

func TestParseIntent_PresentationBounds(t *testing.T) {
	yamlDoc := `name: svc
requirements:
  content: some requirements text
diagram_requests:
  - category: flowchart
presentation_instructions:
  max_slides: 3
`
	_, errs := ParseIntent([]byte(yamlDoc))
	if !hasError(errs, "presentation_instructions.max_slides", ErrorTypeConstraint) {
		t.Errorf("expected constraint error on max_slides, got %v", errs)
	}
}
