package store

import "context"

// Confirmer is the injected yes/no gate guarding destructive transitions
// (advancing past an incomplete day, resetting progress). The operation
// suspends on Confirm and proceeds or aborts on the answer; it is not
// cancellable once the gate has answered.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

type decisionKey struct{}

// WithDecision attaches a caller-supplied confirmation answer to the
// context. Transport layers use this to carry an explicit confirm flag
// into the gate.
func WithDecision(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, decisionKey{}, confirmed)
}

// ContextConfirmer answers from the decision carried in the context.
// A missing decision counts as declined.
type ContextConfirmer struct{}

func (ContextConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	confirmed, ok := ctx.Value(decisionKey{}).(bool)
	if !ok {
		return false, nil
	}
	return confirmed, nil
}
