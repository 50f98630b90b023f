// Package pipeline provides the editing model of a declarative data-pipeline configuration.
//
// A pipeline is made of sources, transformations and sinks. Sources and transformations produce
// named datasets that later stages reference. The package offers a mutation API where every
// operation returns a new configuration and never modifies its input, so a previous version can
// be kept around safely. Derived views, like the datasets available to a stage, are recomputed
// from the configuration on every call.
//
// Consistency issues that should not block editing, such as a reference to an unknown dataset
// or two stages producing the same dataset, are reported as warnings by Lint. Hard failures,
// such as adding an entity whose id is already used, are returned as errors wrapping the
// sentinels of the model package.
//
// Session bundles a configuration with its editor view state and the import/export operations
// of the codec package.
package pipeline
