// Package models defines flow type identifiers shared between the state
// store and the flow controllers to avoid circular imports.
package models

// FlowType identifies one multi-step guided interaction.
type FlowType string

// Flow type constants.
const (
	FlowProfileCreation FlowType = "profile_creation"
	FlowWorkoutCreation FlowType = "workout_creation"
)

// FlowData is the ephemeral payload a flow keeps between steps. Values are
// flow-specific; controllers own the schema of their own keys.
type FlowData map[string]any
