// Package config decodes the denoiser's YAML configuration document (spec.md §6) into the
// denoiser package's ArtifactConfig values, via sigs.k8s.io/yaml, a direct teacher dependency
// used the same way the teacher decodes its own YAML-shaped settings. Grounded on
// original_source/src/config.hpp for the {r: ...} / {s: ...} pattern-entry disambiguation,
// generalized here to the expanded schema's top-level, shared filters/normalizers lists.
package config

import (
	"fmt"
	"io"

	"github.com/lucastoro/denoiser/internal/denoise/denoiser"
	"github.com/lucastoro/denoiser/internal/denoise/pattern"
	pkgerrors "github.com/lucastoro/denoiser/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Document is the top-level shape of the configuration YAML.
type Document struct {
	Artifacts   []ArtifactSpec `json:"artifacts"`
	Filters     []PatternSpec  `json:"filters,omitempty"`
	Normalizers []PatternSpec  `json:"normalizers,omitempty"`
}

// ArtifactSpec is one entry of the top-level artifacts list.
type ArtifactSpec struct {
	Alias     string   `json:"alias"`
	Target    string   `json:"target"`
	Reference []string `json:"reference,omitempty"`
}

// PatternSpec is a single filter/normalizer entry: exactly one of R or S must be set.
type PatternSpec struct {
	R string `json:"r,omitempty"`
	S string `json:"s,omitempty"`
}

// compile resolves a PatternSpec into a pattern.Pattern, or a ConfigError if neither or both
// of R/S are set, matching the original's "hmmmmm" validation (given a proper message here).
func (p PatternSpec) compile() (pattern.Pattern, error) {
	switch {
	case p.R != "" && p.S != "":
		return pattern.Pattern{}, pkgerrors.Config("pattern entry has both 'r' and 's' set")
	case p.R != "":
		return pattern.NewRegex(p.R)
	case p.S != "":
		return pattern.NewLiteral(p.S), nil
	default:
		return pattern.Pattern{}, pkgerrors.Config("pattern entry has neither 'r' nor 's' set")
	}
}

func compileAll(specs []PatternSpec) ([]pattern.Pattern, error) {
	patterns := make([]pattern.Pattern, 0, len(specs))
	for i, spec := range specs {
		p, err := spec.compile()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Load decodes a configuration document from r and resolves it into the denoiser's
// ArtifactConfig values, one per configured artifact, sharing the same compiled
// filters/normalizers.
func Load(r io.Reader) ([]denoiser.ArtifactConfig, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, pkgerrors.IO(err, "reading configuration")
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, pkgerrors.ConfigWrap(err, "parsing configuration YAML")
	}

	if len(doc.Artifacts) == 0 {
		return nil, pkgerrors.Config("configuration has no artifacts")
	}

	filters, err := compileAll(doc.Filters)
	if err != nil {
		return nil, pkgerrors.ConfigWrap(err, "compiling filters")
	}
	normalizers, err := compileAll(doc.Normalizers)
	if err != nil {
		return nil, pkgerrors.ConfigWrap(err, "compiling normalizers")
	}

	rules := denoiser.Rules{Filters: filters, Normalizers: normalizers}

	configs := make([]denoiser.ArtifactConfig, 0, len(doc.Artifacts))
	for i, a := range doc.Artifacts {
		if a.Alias == "" {
			return nil, pkgerrors.Config("artifact %d is missing a required 'alias' field", i)
		}
		if a.Target == "" {
			return nil, pkgerrors.Config("artifact %q is missing a required 'target' field", a.Alias)
		}
		configs = append(configs, denoiser.ArtifactConfig{
			Alias:      a.Alias,
			Target:     a.Target,
			References: a.Reference,
			Rules:      rules,
		})
	}

	return configs, nil
}
