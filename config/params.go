package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tailscale/hujson"
)

// SiteParams returns the site-wide template parameters: built-in values
// derived from c and now, overridden by the params file when it exists.
func (c Config) SiteParams(now time.Time) (map[string]string, error) {
	d := c.Deployment()
	params := map[string]string{
		"base_path":    d.BasePath,
		"site_url":     d.SiteURL,
		"author":       c.Author,
		"subtitle":     c.Subtitle,
		"current_year": strconv.Itoa(now.Year()),
	}

	if c.ParamsFile == "" {
		return params, nil
	}

	overrides, err := LoadParamsFile(c.ParamsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return params, nil
		}
		return nil, err
	}
	for k, v := range overrides {
		params[k] = v
	}
	return params, nil
}

// LoadParamsFile reads a JSON object (comments and trailing commas
// allowed) and stringifies its values. Nested values are kept as JSON.
func LoadParamsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid JSONC: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: invalid JSON object: %w", path, err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, err := stringify(v)
		if err != nil {
			return nil, fmt.Errorf("%s: param %q: %w", path, k, err)
		}
		out[k] = s
	}
	return out, nil
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case nil:
		return "", nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
