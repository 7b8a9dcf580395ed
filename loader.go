package pathweave

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// Definition is one bulk template definition. An empty Base registers a
// root template.
type Definition struct {
	Name    string
	Pattern string
	Base    string
}

// Load registers the definitions in order. A definition whose Base names
// a template not yet registered fails exactly as RegisterWithBase would,
// so within one batch a base must precede the templates built on it.
func (r *Resolver) Load(definitions []Definition) error {
	for _, def := range definitions {
		if def.Base == "" {
			r.Register(def.Name, def.Pattern)
			continue
		}
		if err := r.RegisterWithBase(def.Name, def.Pattern, def.Base); err != nil {
			return fmt.Errorf("failed to register template %q: %w", def.Name, err)
		}
	}
	return nil
}

// LoadFile reads a JSON definition document through the resolver's
// filesystem and registers its templates in document order.
func (r *Resolver) LoadFile(path string) error {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read definitions: %w", err)
	}
	defs, err := DecodeDefinitions(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode definitions from %s: %w", path, err)
	}
	return r.Load(defs)
}

// DecodeDefinitions reads a JSON definition document: an object mapping
// template names to either a pattern string or an object with a required
// "pattern" key and an optional "base" key. Definitions are returned in
// document order, which Load relies on for base references; the document
// is therefore streamed token by token instead of decoded into a map.
func DecodeDefinitions(reader io.Reader) ([]Definition, error) {
	dec := json.NewDecoder(reader)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("definitions must be a JSON object, got %v", tok)
	}

	var defs []Definition
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read definition name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected definition name %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to read definition %q: %w", name, err)
		}
		def, err := decodeDefinition(name, raw)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	return defs, nil
}

// decodeDefinition interprets one definition value, either form.
func decodeDefinition(name string, raw json.RawMessage) (Definition, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var pattern string
		if err := json.Unmarshal(trimmed, &pattern); err != nil {
			return Definition{}, fmt.Errorf("failed to decode definition %q: %w", name, err)
		}
		return Definition{Name: name, Pattern: pattern}, nil
	}

	var obj struct {
		Pattern string `json:"pattern"`
		Base    string `json:"base"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return Definition{}, fmt.Errorf("failed to decode definition %q: %w", name, err)
	}
	if obj.Pattern == "" {
		return Definition{}, fmt.Errorf("definition %q has no pattern", name)
	}
	return Definition{Name: name, Pattern: obj.Pattern, Base: obj.Base}, nil
}
