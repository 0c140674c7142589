// Package maps decodes module Configuration maps into typed structs for
// handler factories, the way the teacher's node configs decode their own
// Configuration via mapstructure.
package maps

import "github.com/mitchellh/mapstructure"

// Map2Struct maps cfg onto out, which must be a pointer to a struct tagged
// with `mapstructure:"..."` fields. Unused keys and type mismatches that can
// be weakly coerced (e.g. a JSON number into an int field) are tolerated.
func Map2Struct(cfg map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(cfg)
}
