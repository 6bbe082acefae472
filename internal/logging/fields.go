package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Scan configuration fields.
	FieldEngine       = "engine"
	FieldKernel       = "kernel"
	FieldEmitComments = "emit_comments"
	FieldCloseNames   = "close_names"
	FieldMarkdown     = "markdown"
	FieldJobs         = "jobs"
	FieldFormat       = "format"
	FieldFragments    = "fragments"
	FieldDuplicateOf  = "duplicate_of"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesScanned    = "files_scanned"
	FieldFilesFailed     = "files_failed"
	FieldFilesDuplicate  = "files_duplicate"
	FieldEvents          = "events"
	FieldBytes           = "bytes"
	FieldOffset          = "offset"
	FieldLine            = "line"
	FieldIterations      = "iterations"
	FieldThroughput      = "mb_per_s"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
