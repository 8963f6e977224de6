// Package xsdcheck is a narrow structural pre-validator standing in for an
// external CMSIS-SVD XSD validator (spec.md §6: "an external XSD validator
// may be invoked before resolution; the core does not re-validate schema").
// It checks required child-element presence the way a real XSD
// validator's error surface looks — minOccurs="1" elements must appear;
// attributes are not checked — without embedding a full schema
// engine, grounded on the xs:complexType/xs:sequence/minOccurs idiom the
// pack's own droyo-go-xml schema constant follows.
package xsdcheck

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/svdkit/svdkit/pkg/diag"
)

// requiredChild names a child element that must appear at least once
// (minOccurs="1" in the real XSD) within its parent, keyed by the parent's
// own element name for lookup during the single-pass scan below.
var requiredChild = map[string][]string{
	"device":     {"name", "version", "description"},
	"peripheral": {"name", "baseAddress"},
	"register":   {"name", "addressOffset"},
	"cluster":    {"name", "addressOffset"},
	"field":      {"name"},
}

// Validate scans content for the structural constraints requiredChild
// describes and returns one Diagnostic per violation. It does not attempt
// full XSD conformance (type constraints, enumerated tokens, ordering) —
// those are exactly the checks internal/svdxml's own decoder and
// internal/resolve's element processors already perform as a side effect
// of building a typed tree, so re-checking them here would only duplicate
// that work under a different name.
func Validate(content []byte) []diag.Diagnostic {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var diags []diag.Diagnostic
	var stack []frame
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, frame{name: t.Name.Local, seen: map[string]bool{}})
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if required, ok := requiredChild[top.name]; ok {
				for _, want := range required {
					if !top.seen[want] {
						diags = append(diags, diag.Diagnostic{
							Severity: diag.SeverityError,
							Kind:     diag.KindSchemaViolation,
							Path:     top.name,
							Message:  fmt.Sprintf("%s: missing required element %q", top.name, want),
						})
					}
				}
			}
			if len(stack) > 0 {
				stack[len(stack)-1].seen[top.name] = true
			}
		case xml.CharData:
			// text content carries no structural information here.
		}
	}
	return diags
}

type frame struct {
	name string
	seen map[string]bool
}
