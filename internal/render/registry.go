package render

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tokens.yaml
var tokensManifest []byte

const registrySchemaV1 = "contractflow.tokens.v1"

// Registry is the closed, enumerable set of token names templates may use.
type Registry struct {
	static   map[string]bool
	trusted  map[string]bool
	families []*regexp.Regexp
}

type registrySpec struct {
	Schema   string   `yaml:"schema"`
	Static   []string `yaml:"static"`
	Families []struct {
		Pattern string `yaml:"pattern"`
	} `yaml:"families"`
	Trusted []string `yaml:"trusted"`
}

var (
	registryOnce sync.Once
	registry     *Registry
	registryErr  error
)

// LoadRegistry parses the embedded manifest. The result is cached; the
// manifest cannot change at runtime.
func LoadRegistry() (*Registry, error) {
	registryOnce.Do(func() {
		registry, registryErr = parseRegistry(tokensManifest)
	})
	return registry, registryErr
}

func parseRegistry(data []byte) (*Registry, error) {
	var spec registrySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode token manifest: %w", err)
	}
	if strings.TrimSpace(spec.Schema) != registrySchemaV1 {
		return nil, fmt.Errorf("token manifest schema must be %q", registrySchemaV1)
	}
	if len(spec.Static) == 0 {
		return nil, errors.New("token manifest lists no static tokens")
	}

	r := &Registry{
		static:  make(map[string]bool, len(spec.Static)),
		trusted: make(map[string]bool, len(spec.Trusted)),
	}
	for _, name := range spec.Static {
		r.static[strings.TrimSpace(name)] = true
	}
	for _, name := range spec.Trusted {
		r.trusted[strings.TrimSpace(name)] = true
	}
	for _, family := range spec.Families {
		re, err := regexp.Compile(family.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile family pattern %q: %w", family.Pattern, err)
		}
		r.families = append(r.families, re)
	}
	return r, nil
}

// Known reports whether a token name is registered.
func (r *Registry) Known(name string) bool {
	if r.static[name] || r.trusted[name] {
		return true
	}
	for _, re := range r.families {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// ValidateTemplate checks that a template references only registered tokens.
// Run at startup and on every admin template update.
func ValidateTemplate(template string) error {
	r, err := LoadRegistry()
	if err != nil {
		return err
	}
	var unknown []string
	for _, name := range ReferencedTokens(template) {
		if !r.Known(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("template references unknown tokens: %s", strings.Join(unknown, ", "))
	}
	return nil
}
