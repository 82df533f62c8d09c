// Package model provides the data structures shared by the reconciler and the editing session.
// It defines the pipeline configuration document as exchanged with the agent, the stage instances
// and lanes it is made of, the validation issues reported by the server, and the derived values
// (edges, open lanes, selections) produced by a reconciliation pass.
package model
