package result

// ValidationResult is a single entry of a ValidationReport.
type ValidationResult struct {
	Severity Severity `json:"-"`
	Level    string   `json:"level"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
}

// ValidationReport is the flattened view of a Result used by validators.
type ValidationReport struct {
	// Location is the root document location
	Location string `json:"location"`
	// Results holds errors first, then warnings, each in reported order
	Results []ValidationResult `json:"results"`
}

// FromResult builds a ValidationReport from a Result.
func FromResult(location string, r *Result) *ValidationReport {
	report := &ValidationReport{
		Location: location,
		Results:  make([]ValidationResult, 0, len(r.Errors)+len(r.Warnings)),
	}
	for _, e := range r.Errors {
		report.Results = append(report.Results, newValidationResult(SeverityError, e))
	}
	for _, w := range r.Warnings {
		report.Results = append(report.Results, newValidationResult(SeverityWarning, w))
	}
	return report
}

func newValidationResult(sev Severity, i Issue) ValidationResult {
	return ValidationResult{Severity: sev, Level: sev.String(), Code: i.Code, Message: i.Cause}
}

// Conforms reports whether no result has error severity.
func (r *ValidationReport) Conforms() bool {
	for _, res := range r.Results {
		if res.Severity == SeverityError {
			return false
		}
	}
	return true
}

// ErrorCount returns the number of error-severity results.
func (r *ValidationReport) ErrorCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity results.
func (r *ValidationReport) WarningCount() int {
	return len(r.Results) - r.ErrorCount()
}
