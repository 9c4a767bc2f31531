package domain

// ResolvedType is the data type of a variable
type ResolvedType string

const (
	ResolvedTypeColor   ResolvedType = "COLOR"
	ResolvedTypeFloat   ResolvedType = "FLOAT"
	ResolvedTypeString  ResolvedType = "STRING"
	ResolvedTypeBoolean ResolvedType = "BOOLEAN"
)

// VariableAlias is a bound-variable reference: it points at a variable by ID
type VariableAlias struct {
	ID string
}

// ValueKind tags the shape of a stored variable value
type ValueKind int

const (
	ValueUnknown ValueKind = iota
	ValueColor
	ValueAlias
)

// VariableValue is a value stored for one mode: a literal color, an alias,
// or something else (numbers, strings) kept only for display.
type VariableValue struct {
	Kind  ValueKind
	Color RGBA
	Alias VariableAlias
}

// ColorValue builds a literal color value
func ColorValue(c RGBA) VariableValue {
	return VariableValue{Kind: ValueColor, Color: c}
}

// AliasValue builds an alias value pointing at variableID
func AliasValue(variableID string) VariableValue {
	return VariableValue{Kind: ValueAlias, Alias: VariableAlias{ID: variableID}}
}

// Variable is a design token owned by the host document
type Variable struct {
	ID           string // scoped to a collection or library
	Key          string // stable across local and library copies
	Name         string // e.g., "color/brand/primary"
	Description  string
	ResolvedType ResolvedType
	CollectionID string
	ValuesByMode map[string]VariableValue
	Remote       bool // true for variables coming from a library
}

// IsColor reports whether the variable holds colors
func (v *Variable) IsColor() bool {
	return v.ResolvedType == ResolvedTypeColor
}

// Mode is a named value set within a collection (e.g., Light, Dark)
type Mode struct {
	ModeID string
	Name   string
}

// VariableCollection groups variables and their modes
type VariableCollection struct {
	ID            string
	Name          string
	DefaultModeID string
	Modes         []Mode
	Remote        bool
}

// ColorVariable is the listing entry for a color variable, with every mode
// resolved to a color or a descriptive fallback.
type ColorVariable struct {
	ID            string
	Name          string
	Description   string
	CollectionID  string
	DefaultModeID string
	Modes         []Mode
	Values        map[string]ResolvedValue // by mode ID
	Local         bool
}

// FontName identifies a font family and style
type FontName struct {
	Family string `toml:"family"`
	Style  string `toml:"style"`
}
