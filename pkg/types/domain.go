package types

// Model describes a loadable model file discovered on disk.
type Model struct {
	// Stable identifier for the model (the file name by default).
	ID string `json:"id"`
	// Human-friendly name.
	Name string `json:"name"`
	// Absolute path to the model weights on disk.
	Path string `json:"path"`
	// Quantization level or variant string, when known.
	Quant string `json:"quant,omitempty"`
}
