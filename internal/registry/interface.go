package registry

import "context"

// Registry records which rooms are live on this instance, as routing
// metadata for operators and future cross-instance dispatch. It is not the
// fan-out path; in-process delivery works without it.
type Registry interface {
	Register(ctx context.Context, room string) error
	Deregister(ctx context.Context, room string) error
	StartHeartbeat(ctx context.Context) error
	StopHeartbeat()
	Close() error
}
