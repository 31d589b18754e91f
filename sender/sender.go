package sender

import "context"

// Message is the provider-agnostic push payload. Data always ends up carrying
// at least a type tag; an icon default is injected by the sender when absent.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Result reports the per-token outcome of a multicast send. Callers are
// responsible for pruning FailedTokens from the owning account.
type Result struct {
	SuccessCount int
	FailureCount int
	FailedTokens []string
}

type PushSender interface {
	Send(ctx context.Context, tokens []string, msg Message) (Result, error)
}
