package runner

// Suite is one YAML keyword suite.
type Suite struct {
	Version string `yaml:"version"`
	Name    string `yaml:"name"`
	Steps   []Step `yaml:"steps"`
}

// Step is a single keyword invocation within a suite.
type Step struct {
	Index       int      `yaml:"index"`
	Keyword     string   `yaml:"keyword"`
	Description string   `yaml:"description"`
	Args        []string `yaml:"args"`
	// Register names the variable the keyword's return value is stored
	// under, referenced from later steps as #name#.
	Register string `yaml:"register"`
	Retry    int    `yaml:"retry"`
	// ContinueOnFailure downgrades a step failure to a warning.
	ContinueOnFailure bool `yaml:"continue_on_failure"`
}
