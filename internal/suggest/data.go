package suggest

import (
	_ "embed"

	"sigs.k8s.io/yaml"
)

//go:embed data.yaml
var rawData []byte

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	Display     string `json:"display"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	InsertText  string `json:"insert_text,omitempty"`
}

// Suggestion types.
const (
	TypeSyntax     = "syntax"
	TypeUser       = "user"
	TypeRepository = "repository"
	TypeLabel      = "label"
	TypeTemplate   = "template"
)

type curated struct {
	Syntax    []Suggestion `json:"syntax"`
	Templates []Suggestion `json:"templates"`
	Labels    []string     `json:"labels"`
}

// curatedData is decoded once at init; the embedded document is part of the
// build, so a decode failure is a programming error.
var curatedData = func() curated {
	var c curated
	if err := yaml.Unmarshal(rawData, &c); err != nil {
		panic("suggest: bad embedded data: " + err.Error())
	}
	for i := range c.Syntax {
		c.Syntax[i].Type = TypeSyntax
	}
	for i := range c.Templates {
		c.Templates[i].Type = TypeTemplate
	}
	return c
}()
