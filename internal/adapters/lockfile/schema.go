package lockfile

// lockfileDTO mirrors the serialized lockfile grammar. YAML and JSON inputs
// both parse through this schema.
type lockfileDTO struct {
	Version  int          `yaml:"version"`
	System   string       `yaml:"system"`
	Packages []packageDTO `yaml:"packages"`
}

// packageDTO represents one resolved package entry in the lockfile.
type packageDTO struct {
	Name             string            `yaml:"name"`
	Version          string            `yaml:"version"`
	OutputPath       string            `yaml:"outputPath"`
	Priority         int               `yaml:"priority"`
	HookScript       string            `yaml:"hookScript"`
	OnActivateScript string            `yaml:"onActivateScript"`
	Vars             map[string]string `yaml:"vars"`
}
