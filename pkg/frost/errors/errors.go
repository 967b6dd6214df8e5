// Package errors provides structured error types for the Frost language.
//
// FrostError is the unified diagnostic produced from error elements in a syntax tree
// and from evaluation. Messages come from a catalog of templates keyed by code.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassLex   ErrorClass = "lex"   // Unrecognized input
	ClassParse ErrorClass = "parse" // Structural errors
	ClassEval  ErrorClass = "eval"  // Evaluation errors
)

// FrostError represents any error from parsing or evaluation.
type FrostError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "PARSE-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Column  int            `json:"column"`          // 1-based column (0 if unknown)
	Offset  int            `json:"offset"`          // Byte offset in the source
	Length  int            `json:"length"`          // Bytes covered by the offending text
	File    string         `json:"file,omitempty"`  // File path (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables
}

// Error implements the error interface.
func (e *FrostError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *FrostError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *FrostError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassLex:
		sb.WriteString("Lexical error")
	case ClassParse:
		sb.WriteString("Parser error")
	default:
		sb.WriteString("Evaluation error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Use: ")
		} else {
			sb.WriteString(" or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *FrostError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *FrostError) WithFile(file string) *FrostError {
	copy := *e
	copy.File = file
	return &copy
}

// IsSyntaxError returns true for lexical and structural errors.
func (e *FrostError) IsSyntaxError() bool {
	return e.Class == ClassLex || e.Class == ClassParse
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	"LEX-0001": {
		Class:    ClassLex,
		Template: "unrecognized character '{{.Char}}'",
	},

	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected expression, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "expected expression, got end of input",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "expected ')'",
		Hints:    []string{"close the parenthesis opened at column {{.OpenColumn}}"},
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "'{{.Keyword}}' statements are not supported here",
		Hints:    []string{"only expressions can be parsed, e.g. 1 + 2 * x"},
	},

	"EVAL-0001": {
		Class:    ClassEval,
		Template: "identifier not found: {{.Name}}",
		// "Did you mean" hint added by fuzzy matching
	},
	"EVAL-0002": {
		Class:    ClassEval,
		Template: "division by zero",
	},
	"EVAL-0003": {
		Class:    ClassEval,
		Template: "expected a single expression, got {{.Count}}",
	},
	"EVAL-0004": {
		Class:    ClassEval,
		Template: "cannot evaluate source with syntax errors",
	},
	"EVAL-0005": {
		Class:    ClassEval,
		Template: "integer literal out of range: {{.Literal}}",
	},
}

// New creates a FrostError from the catalog.
// An uncatalogued code becomes an evaluation error whose message is the code.
func New(code string, data map[string]any) *FrostError {
	def, ok := ErrorCatalog[code]
	if !ok {
		return &FrostError{Class: ClassEval, Code: code, Message: code, Data: data}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &FrostError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewAt creates a FrostError covering [offset, offset+length) at the given position.
func NewAt(code string, offset, length, line, column int, data map[string]any) *FrostError {
	err := New(code, data)
	err.Offset = offset
	err.Length = length
	err.Line = line
	err.Column = column
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// threshold allows 1 edit for short words, 2 for medium, 3 for long ones.
func threshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	default:
		return 1
	}
}

// FindTopMatches returns up to n candidates within the edit threshold, closest first.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	type match struct {
		value    string
		distance int
	}

	inputLower := strings.ToLower(input)
	var matches []match
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 && dist <= threshold(input) {
			matches = append(matches, match{candidate, dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// maxSuggestions caps the "Did you mean" hints on an undefined identifier.
const maxSuggestions = 3

// NewUndefinedIdentifier creates an undefined identifier error with a hint for
// each close match among availableIdentifiers, nearest first.
func NewUndefinedIdentifier(name string, availableIdentifiers []string) *FrostError {
	err := New("EVAL-0001", map[string]any{"Name": name})

	for _, suggestion := range FindTopMatches(name, availableIdentifiers, maxSuggestions) {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}

	return err
}
