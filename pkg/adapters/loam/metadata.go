package loam

// DestinationMetadata is the frontmatter of a destination document.
//
//	---
//	name: Goa
//	region: West India
//	aliases: [Panaji]
//	summary: Beaches and Portuguese heritage.
//	---
//	Longer description in markdown.
type DestinationMetadata struct {
	Name    string   `json:"name" mapstructure:"name"`
	Region  string   `json:"region" mapstructure:"region"`
	Aliases []string `json:"aliases" mapstructure:"aliases"`
	Summary string   `json:"summary" mapstructure:"summary"`

	// Hidden excludes a document without deleting it.
	Hidden bool `json:"hidden" mapstructure:"hidden"`
}
