// Package tagutil resolves the struct tags understood by the codec.
package tagutil

import (
	"reflect"
	"strings"
)

// FieldTag is the resolved tag view of one struct field.
type FieldTag struct {
	Name          string
	OmitEmpty     bool
	Explicit      bool
	Transient     bool
	Discriminator bool
	Variants      []string
}

// Resolve parses the json, discriminator and variant tags of sf.
func Resolve(sf reflect.StructField) FieldTag {
	tag := parseJSONTag(sf.Name, sf.Tag.Get("json"))
	tag.Discriminator = sf.Tag.Get("discriminator") == "true"
	if raw := sf.Tag.Get("variant"); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				tag.Variants = append(tag.Variants, v)
			}
		}
	}
	return tag
}

func parseJSONTag(defaultName string, raw string) FieldTag {
	if raw == "" {
		return FieldTag{Name: defaultName}
	}
	parts := strings.Split(raw, ",")
	name := parts[0]
	explicit := name != ""
	if name == "" {
		name = defaultName
	}
	tag := FieldTag{
		Name:      name,
		Explicit:  explicit,
		Transient: name == "-",
	}
	for _, p := range parts[1:] {
		if p == "omitempty" {
			tag.OmitEmpty = true
			break
		}
	}
	return tag
}
