package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format identifies a rule document encoding.
type Format string

const (
	// FormatJSON is a JSON array of rules, or an object with a "rules" array.
	FormatJSON Format = "json"

	// FormatYAML is a YAML list of rules, or a mapping with a "rules" list.
	FormatYAML Format = "yaml"

	// FormatTOML is a TOML document of [[rules]] tables.
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for rule files with an unrecognised extension.
var ErrUnknownFormat = errors.New("unknown rule file format")

// FormatFromPath selects a Format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ruleFile is the object form of a rule document.
type ruleFile struct {
	Rules []Rule `json:"rules" yaml:"rules" toml:"rules"`
}

// Load reads the rule file at path from the OS filesystem.
func Load(path string) ([]Rule, error) {
	return LoadFS(afero.NewOsFs(), path)
}

// LoadFS reads the rule file at path from fsys.
func LoadFS(fsys afero.Fs, path string) ([]Rule, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	rs, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return rs, nil
}

// LoadAll loads every path in order and concatenates the rules.
func LoadAll(fsys afero.Fs, paths []string) ([]Rule, error) {
	var all []Rule
	for _, path := range paths {
		rs, err := LoadFS(fsys, path)
		if err != nil {
			return nil, err
		}
		all = append(all, rs...)
	}
	return all, nil
}

// Parse decodes a rule document. JSON and YAML accept either a bare list of
// rules or an object with a "rules" list; TOML uses [[rules]] tables.
func Parse(data []byte, format Format) ([]Rule, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	case FormatTOML:
		var file ruleFile
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		return nonNil(file.Rules), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func parseJSON(data []byte) ([]Rule, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Rule{}, nil
	}

	if trimmed[0] == '[' {
		var list []Rule
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return nonNil(list), nil
	}

	var file ruleFile
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return nonNil(file.Rules), nil
}

func parseYAML(data []byte) ([]Rule, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return []Rule{}, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var list []Rule
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return nonNil(list), nil
	}

	var file ruleFile
	if err := root.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return nonNil(file.Rules), nil
}

func nonNil(rs []Rule) []Rule {
	if rs == nil {
		return []Rule{}
	}
	return rs
}
