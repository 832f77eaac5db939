package logging

// Standardized field names for structured logging.
const (
	FieldFile         = "file_path"
	FieldCategory     = "category"
	FieldSignal       = "signal"
	FieldParty        = "party"
	FieldPartyType    = "party_type"
	FieldPartySource  = "party_source"
	FieldMutationNr   = "mutation_nr"
	FieldRelationCode = "relation_code"
	FieldPattern      = "pattern"
	FieldKeyword      = "keyword"
	FieldReason       = "reason"
	FieldOperation    = "operation"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
	FieldCount        = "count"
	FieldDelimiter    = "delimiter"
	FieldInputFile    = "input_file"
	FieldOutputFile   = "output_file"
	FieldRunID        = "run_id"
)
