// Package model provides the data structures shared by the pipeline configuration packages.
// It defines the pipeline configuration itself, the sources, transformations and sinks it owns,
// the typed settings attached to each of them, and the diagram document rendered by viewers.
package model
