package plan

import "rowmapper/internal/attr"

// Config holds configuration for plan building.
type Config struct {
	// TagKey is the struct tag key holding decoding directives.
	TagKey string
	// FlattenEmbedded flattens untagged embedded struct fields in
	// name-addressed structs.
	FlattenEmbedded bool
}

// DefaultConfig returns the default build configuration.
func DefaultConfig() Config {
	return Config{
		TagKey:          attr.DefaultTagKey,
		FlattenEmbedded: true,
	}
}
