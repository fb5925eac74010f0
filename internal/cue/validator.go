package cue

import (
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// ValidationError is a single schema violation.
type ValidationError struct {
	Field   string
	Message string
}

// Validator handles CUE validation. It is not safe for concurrent use.
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles every embedded .cue file.
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("compiling schema %s: %w", entry.Name(), instErr)
		}

		// record.cue -> record
		schemaName := strings.TrimSuffix(entry.Name(), ".cue")
		v.schemas[schemaName] = inst.Value()
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}
	return nil
}

// RecordData is the value checked against #Record. Missing ratios are omitted.
func RecordData(rec types.Record) map[string]any {
	data := map[string]any{
		"center_id": rec.CenterID,
		"year":      rec.Month.Year,
		"month":     rec.Month.Month,
		"complaint": rec.Adjustments.Complaint,
		"warning":   rec.Adjustments.Warning,
		"bonus":     rec.Adjustments.Bonus,
	}
	for _, ind := range types.Indicators {
		if m := rec.Ratios.Get(ind); m.Valid {
			data[ind.Key()] = m.Value
		}
	}
	return data
}

// ValidateRecord checks one record against #Record and reports every violation
// as an error issue.
func (v *Validator) ValidateRecord(rec types.Record) ([]types.Issue, error) {
	schema, ok := v.schemas["record"]
	if !ok {
		return nil, fmt.Errorf("record schema not loaded")
	}

	errs, err := v.validateAgainstSchema(schema, RecordData(rec), "record")
	if err != nil {
		return nil, err
	}

	issues := make([]types.Issue, 0, len(errs))
	for _, e := range errs {
		issues = append(issues, types.Issue{
			Center:   rec.CenterID,
			Month:    rec.Month.String(),
			Field:    e.Field,
			Message:  e.Message,
			Severity: types.SeverityError,
			Source:   types.SourceSchema,
			Location: rec.Source,
		})
	}
	return issues, nil
}

// validateAgainstSchema unifies data with the #<Type> definition of schema.
func (v *Validator) validateAgainstSchema(schema cue.Value, data map[string]any, schemaType string) ([]ValidationError, error) {
	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	defPath := cue.ParsePath("#" + strings.ToUpper(schemaType[:1]) + schemaType[1:])
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return nil, fmt.Errorf("schema definition %s not found", defPath)
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrorsFromCUE(err), nil
	}
	return nil, nil
}

// extractErrorsFromCUE keeps the first message reported for each field.
func extractErrorsFromCUE(err error) []ValidationError {
	seen := make(map[string]bool)
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		field := ""
		if path := e.Path(); len(path) > 0 {
			field = path[len(path)-1]
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		format, args := e.Msg()
		out = append(out, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Field < out[j].Field
	})
	return out
}
