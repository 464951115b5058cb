package aicheck

import "context"

// Vision port (interface untuk the external vision-model call)
type Vision interface {
	Analyze(ctx context.Context, image ImageRef, rules []Rule) (string, error)
}
