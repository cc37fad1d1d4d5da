package hcl_adapter

// fileRoot is a struct used to decode all top-level blocks of one file.
type fileRoot struct {
	Settings  *Settings   `hcl:"settings,block"`
	Documents []*Document `hcl:"document,block"`
	Notify    *Notify     `hcl:"notify,block"`
}

// Settings is the HCL schema of the `settings` block.
type Settings struct {
	PollInterval string `hcl:"poll_interval,optional"`
	OutputDir    string `hcl:"output_dir,optional"`
}

// Document is the HCL schema of a `document "<name>"` block.
type Document struct {
	Name   string `hcl:"name,label"`
	Source string `hcl:"source"`
	Output string `hcl:"output,optional"`
}

// Notify is the HCL schema of a `notify "socketio"` block.
type Notify struct {
	Kind               string `hcl:"kind,label"`
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	Event              string `hcl:"event,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}
