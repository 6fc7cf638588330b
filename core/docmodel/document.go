// Package docmodel holds the in-memory representation of one API documentation
// snapshot. The types mirror the runtime-api.json and prototype-api.json exports
// and carry no behaviour beyond decoding and encoding.
package docmodel

import (
	"fmt"
	"strings"
)

// Stage identifies which documentation export a Document was parsed from.
type Stage string

const (
	StageRuntime   Stage = "runtime"
	StagePrototype Stage = "prototype"
)

// Stages lists the supported documentation stages.
var Stages = []Stage{StageRuntime, StagePrototype}

// ParseStage validates a stage name, ignoring case and surrounding space.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Stages {
		if stage == known {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q: want runtime or prototype", s)
}

// Document is one version's full API description.
//
// Collections absent from the source decode to nil slices, present-but-empty
// collections to empty slices. The distinction is used for schema checks.
// Runtime exports fill the runtime collections, prototype exports fill
// Prototypes, Types and Defines.
type Document struct {
	Application        string `json:"application"`
	Stage              Stage  `json:"stage"`
	ApplicationVersion string `json:"application_version"`
	APIVersion         int    `json:"api_version"`

	Classes         []Class        `json:"classes"`
	Events          []Event        `json:"events"`
	Defines         []Define       `json:"defines"`
	BuiltinTypes    []BuiltinType  `json:"builtin_types"`
	Concepts        []Concept      `json:"concepts"`
	GlobalObjects   []GlobalObject `json:"global_objects"`
	GlobalFunctions []Method       `json:"global_functions"`

	Prototypes []Prototype   `json:"prototypes,omitempty"`
	Types      []TypeConcept `json:"types,omitempty"`
}

// NewDocument returns a runtime Document with every collection present and empty.
func NewDocument(version string) *Document {
	return &Document{
		Application:        "factorio",
		Stage:              StageRuntime,
		ApplicationVersion: version,
		Classes:            []Class{},
		Events:             []Event{},
		Defines:            []Define{},
		BuiltinTypes:       []BuiltinType{},
		Concepts:           []Concept{},
		GlobalObjects:      []GlobalObject{},
		GlobalFunctions:    []Method{},
	}
}

// Common is shared by every named entity.
type Common struct {
	Name        string `json:"name"`
	Order       int    `json:"order"`
	Description string `json:"description,omitempty"`
}

// Key returns the identity used to match the entity across versions.
func (c Common) Key() string { return c.Name }

// Extended adds the documentation fields carried by top-level and member entities.
type Extended struct {
	Common
	Notes      []string `json:"notes,omitempty"`
	Examples   []string `json:"examples,omitempty"`
	Visibility []string `json:"visibility,omitempty"`
	Deprecated bool     `json:"deprecated,omitempty"`
}

// Class is a documented runtime class. It owns its methods, attributes and operators.
type Class struct {
	Extended
	Abstract    bool        `json:"abstract"`
	BaseClasses []string    `json:"base_classes,omitempty"`
	Methods     []Method    `json:"methods"`
	Attributes  []Attribute `json:"attributes"`
	Operators   []Operator  `json:"operators,omitempty"`
}

// Method is a class method or a global function.
type Method struct {
	Extended
	Raises                      []RaisedEvent    `json:"raises,omitempty"`
	Subclasses                  []string         `json:"subclasses,omitempty"`
	Parameters                  []Parameter      `json:"parameters"`
	VariantParameterGroups      []ParameterGroup `json:"variant_parameter_groups,omitempty"`
	VariantParameterDescription string           `json:"variant_parameter_description,omitempty"`
	VariadicType                *Type            `json:"variadic_type,omitempty"`
	VariadicDescription         string           `json:"variadic_description,omitempty"`
	TakesTable                  bool             `json:"takes_table"`
	TableIsOptional             *bool            `json:"table_is_optional,omitempty"`
	ReturnValues                []ReturnValue    `json:"return_values"`
}

// Attribute is a class property. Newer exports split Type into ReadType and WriteType.
type Attribute struct {
	Extended
	Raises     []RaisedEvent `json:"raises,omitempty"`
	Subclasses []string      `json:"subclasses,omitempty"`
	Type       *Type         `json:"type,omitempty"`
	ReadType   *Type         `json:"read_type,omitempty"`
	WriteType  *Type         `json:"write_type,omitempty"`
	Optional   bool          `json:"optional"`
	Read       bool          `json:"read"`
	Write      bool          `json:"write"`
}

// Event is a script event raised by the game.
type Event struct {
	Extended
	Data []Parameter `json:"data"`
}

// Define is an entry of the defines table, possibly nesting further defines.
type Define struct {
	Common
	Values  []DefineValue `json:"values,omitempty"`
	Subkeys []Define      `json:"subkeys,omitempty"`
}

// DefineValue is a leaf value of a Define.
type DefineValue = Common

// BuiltinType is a primitive type such as uint or string.
type BuiltinType = Common

// Concept is a named type used across the API.
type Concept struct {
	Extended
	Type *Type `json:"type"`
}

// GlobalObject is a global variable exposed to scripts, such as game or script.
type GlobalObject struct {
	Common
	Type *Type `json:"type"`
}

// Parameter is a named, typed argument or table field.
type Parameter struct {
	Common
	Type     *Type `json:"type"`
	Optional bool  `json:"optional"`
}

// ParameterGroup is a named set of parameters used by variant tables.
type ParameterGroup struct {
	Common
	Parameters []Parameter `json:"parameters"`
}

// ReturnValue is positional; it has no name and is compared by index.
type ReturnValue struct {
	Order       int    `json:"order"`
	Description string `json:"description,omitempty"`
	Type        *Type  `json:"type"`
	Optional    bool   `json:"optional"`
}

// TimeFrame states when a raised event fires relative to the call.
type TimeFrame string

const (
	TimeFrameInstantly   TimeFrame = "instantly"
	TimeFrameCurrentTick TimeFrame = "current_tick"
	TimeFrameFutureTick  TimeFrame = "future_tick"
)

// RaisedEvent records an event a method or attribute write may raise.
type RaisedEvent struct {
	Common
	Timeframe TimeFrame `json:"timeframe"`
	Optional  bool      `json:"optional"`
}
