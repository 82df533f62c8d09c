// Package pipeline derives the editor's view of a pipeline configuration.
//
// A pipeline configuration lists stage instances, each reading a set of input lanes and writing an ordered list
// of output lanes. The package turns that document into what the graph editor displays: the edges connecting
// stages, the first output lane the user still has to connect, the error count of every stage of a running
// pipeline, and the entity that stays selected once the configuration has been replaced by a fresh copy from
// the agent.
//
// Every function of the package is pure. A reconciliation pass recomputes the whole view from scratch, so
// reconciling the same input twice gives the same result, and nothing needs to be patched incrementally when
// the agent sends a new configuration.
//
// Stateful concerns such as saving edits, polling the agent or notifying the view live in the session and
// events sub packages.
package pipeline
