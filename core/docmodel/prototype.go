package docmodel

// Image is a picture attached to prototype documentation.
type Image struct {
	Filename string `json:"filename"`
	Caption  string `json:"caption,omitempty"`
}

// Documented holds the prose fields of prototype-export entities.
type Documented struct {
	Common
	Lists    []string `json:"lists,omitempty"`
	Examples []string `json:"examples,omitempty"`
	Images   []Image  `json:"images,omitempty"`
}

// Prototype is a data-stage prototype such as "EntityPrototype". Parent names
// the prototype it inherits from.
type Prototype struct {
	Documented
	Visibility       []string          `json:"visibility,omitempty"`
	Parent           string            `json:"parent,omitempty"`
	Abstract         bool              `json:"abstract"`
	Typename         string            `json:"typename,omitempty"`
	InstanceLimit    *uint64           `json:"instance_limit,omitempty"`
	Deprecated       bool              `json:"deprecated"`
	Properties       []Property        `json:"properties"`
	CustomProperties *CustomProperties `json:"custom_properties,omitempty"`
}

// TypeConcept is a named type of the prototype export. Inline types are
// documented in place rather than on their own page.
type TypeConcept struct {
	Documented
	Parent     string     `json:"parent,omitempty"`
	Abstract   bool       `json:"abstract"`
	Inline     bool       `json:"inline"`
	Type       *Type      `json:"type"`
	Properties []Property `json:"properties,omitempty"`
}

// Property is a field of a prototype or of a struct type concept.
type Property struct {
	Documented
	Visibility []string `json:"visibility,omitempty"`
	AltName    string   `json:"alt_name,omitempty"`
	Override   bool     `json:"override"`
	Type       *Type    `json:"type"`
	Optional   bool     `json:"optional"`
	// Default is either a prose string or a literal type object.
	Default any `json:"default,omitempty"`
}

// CustomProperties describes the free-form keys a prototype accepts.
type CustomProperties struct {
	Description string   `json:"description,omitempty"`
	Lists       []string `json:"lists,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Images      []Image  `json:"images,omitempty"`
	KeyType     *Type    `json:"key_type"`
	ValueType   *Type    `json:"value_type"`
}

// NewPrototypeDocument returns a prototype-stage Document with every prototype
// collection present and empty.
func NewPrototypeDocument(version string) *Document {
	return &Document{
		Application:        "factorio",
		Stage:              StagePrototype,
		ApplicationVersion: version,
		Prototypes:         []Prototype{},
		Types:              []TypeConcept{},
		Defines:            []Define{},
	}
}
