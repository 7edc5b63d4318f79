package inspect

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/validation"
)

//go:embed schemas/report.schema.json
var schemaFS embed.FS

var reportValidator = validation.NewSchemaValidator(schemaFS)

// Report is the outcome of one pass
type Report struct {
	Tick      uint64       `json:"tick"`
	Timestamp time.Time    `json:"timestamp"`
	Script    *ScriptInfo  `json:"script,omitempty"`
	Views     []ViewResult `json:"views"`
}

// ScriptInfo names the script the inspected weapons came from. It is read from
// the script context stored in the world's resources after startup.
type ScriptInfo struct {
	EntryPoint string   `json:"entry_point"`
	Sources    []string `json:"sources"`
}

// ViewResult lists the entities matched by one view, in entity order
type ViewResult struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Counts returns the number of matched entities per view
func (r *Report) Counts() map[string]int {
	out := make(map[string]int, len(r.Views))
	for _, v := range r.Views {
		out[v.Name] = len(v.Rows)
	}
	return out
}

// View returns the result of the named view
func (r *Report) View(name string) (ViewResult, bool) {
	for _, v := range r.Views {
		if v.Name == name {
			return v, true
		}
	}
	return ViewResult{}, false
}

// EncodeReport renders r as indented JSON and checks it against the report schema
func EncodeReport(r *Report) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNoReport)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf(ErrMsgEncodeReport, err)
	}
	if err := reportValidator.ValidateBytes(data, ReportSchemaPath); err != nil {
		return nil, fmt.Errorf(ErrMsgInvalidReport, err)
	}
	return data, nil
}

// WriteReportFile encodes r and writes it to path
func WriteReportFile(path string, r *Report) error {
	data, err := EncodeReport(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf(ErrMsgWriteReport, err)
	}
	return nil
}
