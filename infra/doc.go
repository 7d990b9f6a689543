// Package infra contains technical adapters such as interval sources,
// run history stores and metrics exporters. These packages should depend
// only on the interfaces defined in the core packages.
package infra
