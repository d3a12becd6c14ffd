package domain

// Interest is a selectable interest tag.
type Interest struct {
	ID    string `json:"id" yaml:"id" mapstructure:"id"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// Destination is a known destination, used only to highlight a matching free-form entry.
type Destination struct {
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Region      string   `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty" mapstructure:"aliases"`
}
