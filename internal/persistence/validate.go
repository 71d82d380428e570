// Copyright 2025 James Ross
package persistence

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/riskforge/montecarlo/internal/errs"
)

// DocumentKind selects which schema a document is validated against.
type DocumentKind string

const (
	DocumentResults      DocumentKind = "results"
	DocumentScenario     DocumentKind = "scenario"
	DocumentChangeReport DocumentKind = "change_report"
)

func schemaFor(kind DocumentKind) (string, error) {
	switch kind {
	case DocumentResults:
		return resultsSchema, nil
	case DocumentScenario:
		return scenarioSchema, nil
	case DocumentChangeReport:
		return changeReportSchema, nil
	default:
		return "", fmt.Errorf("persistence: unknown document kind %q", kind)
	}
}

// ValidateDocument checks raw JSON against the schema for kind before
// the caller unmarshals it into the corresponding *Document type.
func ValidateDocument(kind DocumentKind, raw []byte) error {
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errs.NewValidationError(errs.ErrSchemaValidation, fmt.Sprintf("%s: schema evaluation failed: %v", kind, err), err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			messages = append(messages, e.String())
		}
		return errs.NewValidationError(errs.ErrSchemaValidation,
			fmt.Sprintf("%s: document failed schema validation: %s", kind, strings.Join(messages, "; ")), nil)
	}
	return nil
}
