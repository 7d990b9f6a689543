package availability

import "github.com/agendex/agendex/core/factory"

var sourceRegistry = factory.NewRegistry[Source]()

// RegisterSource adds a source factory, e.g. "csv" or "static".
func RegisterSource(name string, f factory.Factory[Source]) error {
	return sourceRegistry.Register(name, f)
}

// NewSource builds a source from its configuration block.
func NewSource(cfg factory.ModuleConfig) (Source, error) {
	return sourceRegistry.Create(cfg)
}
