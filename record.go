package rfpdesk

import "strings"

// Record is one validated RFP document. Id is assigned by the external store
// when the record is persisted; zero means not yet persisted. Title and
// Company are non-empty once validated. Every other field may be absent and
// is never fabricated: the extraction prompt instructs the model to return
// null for anything the source text does not state.
//
// The json tags drive both on-disk persistence and the generated extraction
// schema; the jsonschema tags make the optional fields nullable so the model
// can report "not found" explicitly.
type Record struct {
	ID           int     `json:"id,omitempty"`
	Title        string  `json:"title" jsonschema_description:"The title or name of the RFP"`
	Company      string  `json:"company" jsonschema_description:"The company or organization issuing the RFP"`
	Description  *string `json:"description,omitempty" jsonschema:"oneof_type=string;null" jsonschema_description:"A brief description of the project or service requested"`
	Requirements *string `json:"requirements,omitempty" jsonschema:"oneof_type=string;null" jsonschema_description:"Key requirements or specifications"`
	Contact      *string `json:"contact,omitempty" jsonschema:"oneof_type=string;null" jsonschema_description:"Contact information (email, phone, or person name)"`
	Deadline     *string `json:"deadline,omitempty" jsonschema:"oneof_type=string;null" jsonschema_description:"Submission deadline date"`
	Budget       *string `json:"budget,omitempty" jsonschema:"oneof_type=string;null" jsonschema_description:"Budget or cost information"`
}

// Validate implements Validatable: title and company must not be blank.
// The JSON Schema pass already rejects absent fields; this layer rejects
// present-but-empty values.
func (r Record) Validate() error {
	var blank []string
	if strings.TrimSpace(r.Title) == "" {
		blank = append(blank, "title")
	}
	if strings.TrimSpace(r.Company) == "" {
		blank = append(blank, "company")
	}
	if len(blank) > 0 {
		return &ExtractionError{
			Reason: "required fields are blank",
			Fields: blank,
			Err:    ErrSchemaViolation,
		}
	}
	return nil
}

// Snapshot is the full current record collection supplied to one orchestration
// call. It is passed in per call and never retained; dispatch and rendering
// treat it as read-only.
type Snapshot []Record

// Find returns the record with the given id and whether it exists.
func (s Snapshot) Find(id int) (Record, bool) {
	for _, rec := range s {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// Select returns the records matching ids, in requested order. Ids with no
// matching record are skipped, not errored: partial results are preferred over
// total failure.
func (s Snapshot) Select(ids []int) []Record {
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.Find(id); ok {
			out = append(out, rec)
		}
	}
	return out
}
