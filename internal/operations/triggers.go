package operations

import (
	"context"

	"github.com/deployrt/scmcore/internal/jsonvalue"
)

// TriggersPath is the fixed operations endpoint the function metadata
// synchronizer posts its aggregated trigger bindings to.
const TriggersPath = "/operations/settriggers"

// TriggersClient is a thin typed wrapper over Client for the one
// operation the core needs: posting the aggregated trigger-binding
// list.
type TriggersClient struct {
	client Client
}

// NewTriggersClient wraps client.
func NewTriggersClient(client Client) *TriggersClient {
	return &TriggersClient{client: client}
}

// PostTriggers posts triggers, a slice of trigger binding objects
// preserving unknown fields verbatim, to TriggersPath as a JSON array.
func (t *TriggersClient) PostTriggers(ctx context.Context, triggers []jsonvalue.Value) error {
	return t.client.Post(ctx, TriggersPath, triggers)
}
