// Package schema is the single source of truth for the field layout of the
// three data feeds. The registries are parsed once from an embedded YAML
// table at process start and never mutated afterwards.
package schema

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed feeds.yaml
var feedsYAML []byte

type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindText
)

// Wildcard marks a dimension whose size is fixed per record, not per schema.
const Wildcard = -1

// Field describes one column of a feed: the human-readable label used on the
// wire and in uploaded files, the internal key, the expected array shape
// (nil for scalars) and element kind, and the required/default policy.
type Field struct {
	Label    string
	Key      string
	Shape    []int
	Kind     Kind
	Required bool
	Default  string
}

func (f Field) Numeric() bool {
	return f.Kind == KindFloat || f.Kind == KindInt
}

type yamlField struct {
	Label    string  `yaml:"label"`
	Key      string  `yaml:"key"`
	Shape    []int   `yaml:"shape"`
	Kind     string  `yaml:"kind"`
	Required bool    `yaml:"required"`
	Default  *string `yaml:"default"`
}

type yamlFeeds struct {
	Opal  []yamlField `yaml:"opal"`
	DSR   []yamlField `yaml:"dsr"`
	Wesim struct {
		Regions         map[string]string `yaml:"regions"`
		Interconnectors []string          `yaml:"interconnectors"`
	} `yaml:"wesim"`
}

var (
	opalFields []Field
	dsrFields  []Field

	opalKeyByLabel map[string]string
	opalLabelByKey map[string]string
	dsrKeyByLabel  map[string]string
	dsrLabelByKey  map[string]string

	regionNames     map[string]string
	interconnectors map[string]struct{}
)

func init() {
	var feeds yamlFeeds
	if err := yaml.Unmarshal(feedsYAML, &feeds); err != nil {
		panic(fmt.Sprintf("schema: cannot parse embedded registry: %v", err))
	}

	var err error
	opalFields, opalKeyByLabel, opalLabelByKey, err = buildFeed(feeds.Opal)
	if err != nil {
		panic("schema: opal registry: " + err.Error())
	}
	dsrFields, dsrKeyByLabel, dsrLabelByKey, err = buildFeed(feeds.DSR)
	if err != nil {
		panic("schema: dsr registry: " + err.Error())
	}

	regionNames = feeds.Wesim.Regions
	interconnectors = make(map[string]struct{}, len(feeds.Wesim.Interconnectors))
	for _, code := range feeds.Wesim.Interconnectors {
		interconnectors[code] = struct{}{}
	}
}

func buildFeed(raw []yamlField) ([]Field, map[string]string, map[string]string, error) {
	fields := make([]Field, 0, len(raw))
	keyByLabel := make(map[string]string, len(raw))
	labelByKey := make(map[string]string, len(raw))
	for _, f := range raw {
		if f.Label == "" || f.Key == "" {
			return nil, nil, nil, fmt.Errorf("field without label or key: %+v", f)
		}
		if _, ok := keyByLabel[f.Label]; ok {
			return nil, nil, nil, fmt.Errorf("duplicate label %q", f.Label)
		}
		if _, ok := labelByKey[f.Key]; ok {
			return nil, nil, nil, fmt.Errorf("duplicate key %q", f.Key)
		}
		kind, err := parseKind(f.Kind)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("field %q: %w", f.Label, err)
		}
		field := Field{
			Label:    f.Label,
			Key:      f.Key,
			Shape:    f.Shape,
			Kind:     kind,
			Required: f.Required,
		}
		if f.Default != nil {
			field.Default = *f.Default
		}
		fields = append(fields, field)
		keyByLabel[f.Label] = f.Key
		labelByKey[f.Key] = f.Label
	}
	return fields, keyByLabel, labelByKey, nil
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "float":
		return KindFloat, nil
	case "int":
		return KindInt, nil
	case "text":
		return KindText, nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// Opal returns the 41 Opal columns in registry order: the derived Time column
// first, then the 40 telemetry fields. The integer frame index is the row
// key, not a column.
func Opal() []Field {
	return opalFields
}

// DSR returns the DSR fields in registry order.
func DSR() []Field {
	return dsrFields
}

func OpalKeyFor(label string) (string, bool) {
	k, ok := opalKeyByLabel[label]
	return k, ok
}

func OpalLabelFor(key string) (string, bool) {
	l, ok := opalLabelByKey[key]
	return l, ok
}

func DSRKeyFor(label string) (string, bool) {
	k, ok := dsrKeyByLabel[label]
	return k, ok
}

func DSRLabelFor(key string) (string, bool) {
	l, ok := dsrLabelByKey[key]
	return l, ok
}

// RegionName maps a short region code to its full name. Codes outside the
// five known regions (and "Total") come back unchanged.
func RegionName(code string) string {
	if name, ok := regionNames[code]; ok {
		return name
	}
	return code
}

// AllowedCode reports whether a column code survives the Wesim filter:
// the five region codes, the four interconnector codes, or "Total".
func AllowedCode(code string) bool {
	if code == "Total" {
		return true
	}
	if _, ok := regionNames[code]; ok {
		return true
	}
	_, ok := interconnectors[code]
	return ok
}

// RegionCodes returns the region codes in no particular order.
func RegionCodes() []string {
	codes := make([]string, 0, len(regionNames))
	for code := range regionNames {
		codes = append(codes, code)
	}
	return codes
}
