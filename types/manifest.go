package types

// TestConfig selects one registered test by name. A non-empty description
// overrides the description the test was registered with.
type TestConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// SuiteManifest is the yaml document a host program may use to select,
// order and annotate the tests it has registered in code.
type SuiteManifest struct {
	Name          string       `yaml:"name,omitempty"`
	Description   string       `yaml:"description,omitempty"`
	FatalFailures bool         `yaml:"fatal_failures,omitempty"`
	Quiet         bool         `yaml:"quiet,omitempty"`
	Tests         []TestConfig `yaml:"tests"`
}
