package pipeline

type reconcileOptions struct {
	hideHelp    bool
	laneMatcher LaneMatcher
}

// ReconcileOption customises a reconciliation pass.
type ReconcileOption func(o *reconcileOptions)

// WithHelpHidden skips the open lane lookup, for users who dismissed the help alerts.
func WithHelpHidden(hidden bool) ReconcileOption {
	return func(o *reconcileOptions) {
		o.hideHelp = hidden
	}
}

// WithLaneMatcher replaces the way an open lane issue is mapped to an output lane.
func WithLaneMatcher(match LaneMatcher) ReconcileOption {
	return func(o *reconcileOptions) {
		o.laneMatcher = match
	}
}
