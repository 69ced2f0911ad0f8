package logging

// Field names used in structured log output.
const (
	FieldFile          = "file_path"
	FieldFormat        = "format"
	FieldParser        = "parser"
	FieldTransactionID = "transaction_id"
	FieldRow           = "row"
	FieldCategory      = "category"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
	FieldDelimiter     = "delimiter"
	FieldEncoding      = "encoding"
	FieldModel         = "model"
	FieldProvider      = "provider"
	FieldObjectKey     = "object_key"
	FieldUserID        = "user_id"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
)
