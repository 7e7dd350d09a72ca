package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// File is a decoded configuration file together with the keys it sets.
type File struct {
	Config
	keys map[string]struct{}
}

// Has reports whether the file sets key, given as a dotted path such as "cache.ttl".
// A key set to its zero value counts as set.
func (f File) Has(key string) bool {
	_, ok := f.keys[key]
	return ok
}

// LoadFile reads an optional YAML configuration file. ${VAR} references are expanded
// from the environment before decoding. Keys absent from the file stay at their zero
// value and are reported as unset by Has, so the result can be layered with Merge.
func LoadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read config file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(data)))

	dec := yaml.NewDecoder(bytes.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&f.Config); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode config file %s: %w", path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(expanded, &root); err != nil {
		return File{}, fmt.Errorf("decode config file %s: %w", path, err)
	}
	f.keys = make(map[string]struct{})
	if len(root.Content) > 0 {
		collectKeys(root.Content[0], "", f.keys)
	}

	f.Logging.Level = LogLevel(clean(string(f.Logging.Level)))
	f.Logging.Format = LogFormat(clean(string(f.Logging.Format)))
	f.Retry.Backoff = RetryBackoffMode(clean(string(f.Retry.Backoff)))
	return f, nil
}

// collectKeys records the dotted path of every mapping key under n.
func collectKeys(n *yaml.Node, prefix string, keys map[string]struct{}) {
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		keys[key] = struct{}{}
		collectKeys(n.Content[i+1], key, keys)
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
