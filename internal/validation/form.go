package validation

// Form binds a mutable form-data map to a static rule set and tracks the
// per-field errors produced so far. The caller owns Data and may mutate it
// between calls; Form never copies it.
type Form struct {
	Data map[string]string

	rules  map[string]Rule
	errors map[string][]string
	valid  bool
}

// NewForm wraps data with the given rules. The form starts valid with no
// recorded errors.
func NewForm(data map[string]string, rules map[string]Rule) *Form {
	if data == nil {
		data = make(map[string]string)
	}
	return &Form{
		Data:   data,
		rules:  rules,
		errors: make(map[string][]string),
		valid:  true,
	}
}

// Validate runs every rule against the current data, replacing all recorded
// errors, and returns the aggregate validity.
func (f *Form) Validate() bool {
	results := ValidateAll(f.Data, f.rules)
	for field, res := range results {
		f.errors[field] = res.Errors
	}
	f.valid = AllValid(results)
	return f.valid
}

// ValidateField re-validates a single field and updates only its error list.
// Aggregate validity is recomputed over fields validated so far; fields
// never touched count as passing.
func (f *Form) ValidateField(field string) bool {
	rule, ok := f.rules[field]
	if !ok {
		return true
	}
	res := Validate(f.Data[field], rule)
	f.errors[field] = res.Errors

	f.valid = true
	for _, errs := range f.errors {
		if len(errs) > 0 {
			f.valid = false
			break
		}
	}
	return res.Valid
}

// ClearErrors drops all recorded errors and marks the form valid without
// re-running any rule.
func (f *Form) ClearErrors() {
	f.errors = make(map[string][]string)
	f.valid = true
}

// Valid reports the aggregate validity as of the last Validate/ValidateField
// call.
func (f *Form) Valid() bool { return f.valid }

// FieldError returns the first recorded error for field, or "" when the
// field has none.
func (f *Form) FieldError(field string) string {
	if errs := f.errors[field]; len(errs) > 0 {
		return errs[0]
	}
	return ""
}

// HasFieldError reports whether field has at least one recorded error.
func (f *Form) HasFieldError(field string) bool {
	return len(f.errors[field]) > 0
}

// FieldErrors returns all recorded errors for field.
func (f *Form) FieldErrors(field string) []string {
	return f.errors[field]
}
