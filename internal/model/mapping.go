package model

// Canonical field names of the normalized schema. Source mappings translate
// per-source field names into these.
const (
	FieldSubjectID = "subjectId"
	FieldPeriod    = "period"
	FieldExposure  = "exposure"
	FieldSubtype   = "subtype"
	FieldWeight    = "weight"
)

// SourceMapping declares how one data source's raw fields map onto the
// normalized schema, so new sources are configuration, not code.
type SourceMapping struct {
	// Fields maps canonical field names to the source's own field names.
	// FieldPeriod, FieldExposure and FieldSubtype are required; a source
	// without FieldWeight gets weight 1, a source without FieldSubjectID
	// is treated as aggregate-only.
	Fields map[string]string `json:"fields"`

	// Relabels maps a canonical field name to a source-value → vocabulary
	// relabeling table, applied before vocabulary validation.
	Relabels map[string]map[string]string `json:"relabels,omitempty"`

	// Defaults supplies a fixed value for a canonical field the source does
	// not carry at all, e.g. subtype "unknown" for outcome-less survey rows.
	Defaults map[string]string `json:"defaults,omitempty"`
}

// RejectRule drops raw records matched by an expr expression before schema
// mapping; matches are counted in the rejection report under the rule name.
type RejectRule struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}
