package models

// OptFilters refines a search. A nil field imposes no constraint.
type OptFilters struct {
	Exit        *int64
	ExcludeExit *int64
	Cwd         *string
	ExcludeCwd  *string
	Before      *string // natural-language date, e.g. "yesterday"
	After       *string
	Limit       *int64
	Offset      *int64
	Reverse     bool
}
