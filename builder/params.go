package builder

import "maps"

// Params is a layered set of template parameters. Layers are never
// modified once added; lookups consult the most recently added layer
// first, so later layers override earlier ones.
type Params struct {
	layers []map[string]string
}

// NewParams creates a parameter set with base as its bottom layer.
func NewParams(base map[string]string) Params {
	return Params{}.With(base)
}

// With returns a new Params with layer on top. The layer is copied.
func (p Params) With(layer map[string]string) Params {
	if len(layer) == 0 {
		return p
	}

	layers := make([]map[string]string, len(p.layers), len(p.layers)+1)
	copy(layers, p.layers)
	layers = append(layers, maps.Clone(layer))

	return Params{layers: layers}
}

// Set returns a new Params with a single key overridden.
func (p Params) Set(key, value string) Params {
	return p.With(map[string]string{key: value})
}

// Lookup returns the value for key from the most specific layer that has it.
func (p Params) Lookup(key string) (string, bool) {
	for i := len(p.layers) - 1; i >= 0; i-- {
		if v, ok := p.layers[i][key]; ok {
			return v, true
		}
	}
	return "", false
}

// Get returns the value for key, or "" when no layer has it.
func (p Params) Get(key string) string {
	v, _ := p.Lookup(key)
	return v
}

// Flatten merges all layers into one map.
func (p Params) Flatten() map[string]string {
	out := make(map[string]string)
	for _, layer := range p.layers {
		maps.Copy(out, layer)
	}
	return out
}
