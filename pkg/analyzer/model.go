package analyzer

// ComponentType classifies how a component is declared.
type ComponentType string

const (
	ComponentFunctionDecl ComponentType = "FunctionDecl"
	ComponentArrowFn      ComponentType = "ArrowFn"
	ComponentFunctionExpr ComponentType = "FunctionExpr"
	ComponentClassDecl    ComponentType = "ClassDecl"
	ComponentForwardRef   ComponentType = "ForwardRef"
	ComponentUnknown      ComponentType = "Unknown"
)

// UnknownName is the component name when no component could be identified.
const UnknownName = "Unknown"

// ExportType records whether the identified component is the default export.
type ExportType string

const (
	ExportDefault ExportType = "default"
	ExportNamed   ExportType = "named"
)

// ComponentResult is everything the pipeline learned about one source file.
// NewComponentResult initializes every field, so an encoded result never
// contains null collections.
type ComponentResult struct {
	Name       string        `json:"name"`
	Type       ComponentType `json:"type"`
	ExportType ExportType    `json:"exportType"`
	FilePath   string        `json:"filePath"`
	Exports    []string      `json:"exports"`

	Props          []Prop          `json:"props"`
	Hooks          []Hook          `json:"hooks"`
	VariantConfigs []VariantConfig `json:"variantConfigs"`

	ClassNameUsage  ClassNameUsage       `json:"classNameUsage"`
	ClassNameLegacy LegacyClassNameUsage `json:"classNameUsageLegacy"`

	Packages []string `json:"packages"`

	JSXElements        map[string]JSXElement `json:"jsxElements"`
	JSXElementSequence []JSXOccurrence       `json:"jsxElementSequence"`

	StylingLibrary StylingLibrary `json:"stylingLibrary"`
}

// NewComponentResult returns a result with every field at its default.
func NewComponentResult(filePath string) *ComponentResult {
	return &ComponentResult{
		Name:               UnknownName,
		Type:               ComponentUnknown,
		ExportType:         ExportNamed,
		FilePath:           filePath,
		Exports:            []string{},
		Props:              []Prop{},
		Hooks:              []Hook{},
		VariantConfigs:     []VariantConfig{},
		ClassNameUsage:     ClassNameUsage{Usages: []ClassNameCall{}},
		ClassNameLegacy:    LegacyClassNameUsage{Usages: []LegacyClassNameCall{}},
		Packages:           []string{},
		JSXElements:        map[string]JSXElement{},
		JSXElementSequence: []JSXOccurrence{},
		StylingLibrary:     StylingLibrary{Type: StylingUnknown, Indicators: []string{}},
	}
}

// Prop is a component input detected syntactically. Types are never
// inferred.
type Prop struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	IsOptional   bool    `json:"isOptional"`
	DefaultValue *string `json:"defaultValue,omitempty"`
	Description  string  `json:"description,omitempty"`
}

// Hook is one call site of a hook.
type Hook struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments"`
}

// VariantConfig is a cva(...) call assigned to a variable.
type VariantConfig struct {
	VariableName string       `json:"variableName"`
	Value        VariantValue `json:"value"`
}

// VariantValue is the reconstructed cva configuration.
type VariantValue struct {
	Base             string     `json:"base"`
	Variants         MapValue   `json:"variants"`
	DefaultVariants  MapValue   `json:"defaultVariants"`
	CompoundVariants ArrayValue `json:"compoundVariants"`
}

// ClassNameUsage describes calls to class-name composition utilities.
type ClassNameUsage struct {
	HasUtility   bool            `json:"hasUtility"`
	ImportSource string          `json:"importSource"`
	Usages       []ClassNameCall `json:"usages"`
}

// ClassNameKind names the utility a call resolved to.
type ClassNameKind string

const (
	ClassNameCn         ClassNameKind = "cn"
	ClassNameClsx       ClassNameKind = "clsx"
	ClassNameClassnames ClassNameKind = "classnames"
)

// ClassNameCall is one utility call with typed arguments.
type ClassNameCall struct {
	Kind      ClassNameKind `json:"kind"`
	Arguments []TypedArg    `json:"arguments"`
	Line      int           `json:"line"`
	Column    int           `json:"column"`
}

// ArgKind classifies a utility call argument.
type ArgKind string

const (
	ArgString      ArgKind = "string"
	ArgObject      ArgKind = "object"
	ArgArray       ArgKind = "array"
	ArgIdentifier  ArgKind = "identifier"
	ArgConditional ArgKind = "conditional"
	ArgUnknown     ArgKind = "unknown"
)

// TypedArg is a classified utility argument.
type TypedArg struct {
	Kind  ArgKind `json:"kind"`
	Value Value   `json:"value"`
}

// LegacyClassNameUsage is the flattened view kept for older consumers.
type LegacyClassNameUsage struct {
	ImportSource string                `json:"importSource"`
	ImportName   string                `json:"importName"`
	Usages       []LegacyClassNameCall `json:"usages"`
}

// LegacyClassNameCall holds one call's arguments rendered as strings.
type LegacyClassNameCall struct {
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	Arguments []string `json:"arguments"`
}

// JSXElement summarizes one markup element.
type JSXElement struct {
	Name       string         `json:"name"`
	Props      []JSXProp      `json:"props"`
	Children   []JSXChild     `json:"children"`
	Attributes []JSXAttribute `json:"attributes"`
}

// JSXProp is an attribute as seen by the element. Value is nil when the
// attribute is bare or its value is not a literal or identifier.
type JSXProp struct {
	Name     string  `json:"name"`
	Value    *string `json:"value"`
	IsSpread bool    `json:"isSpread"`
}

// JSXAttribute is an attribute on an intrinsic (lowercase) element.
type JSXAttribute struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

// JSXChildKind classifies a direct child of an element.
type JSXChildKind string

const (
	JSXChildText       JSXChildKind = "text"
	JSXChildElement    JSXChildKind = "element"
	JSXChildExpression JSXChildKind = "expression"
	JSXChildFragment   JSXChildKind = "fragment"
)

// JSXChild is one direct child of an element.
type JSXChild struct {
	Kind    JSXChildKind `json:"kind"`
	Content string       `json:"content"`
}

// JSXOccurrence is an element together with where it appears.
type JSXOccurrence struct {
	JSXElement
	Line   int `json:"line"`
	Column int `json:"column"`
}

// StylingType is a styling-approach category.
type StylingType string

const (
	StylingTailwindLike         StylingType = "tailwindLike"
	StylingStyledComponentsLike StylingType = "styledComponentsLike"
	StylingEmotionLike          StylingType = "emotionLike"
	StylingVariantAuthoring     StylingType = "variantAuthoring"
	StylingUnknown              StylingType = "unknown"
)

// StylingLibrary is the styling classification.
type StylingLibrary struct {
	Type       StylingType `json:"type"`
	Confidence int         `json:"confidence"`
	Indicators []string    `json:"indicators"`
}
