package rpc

import "context"

// LiveHooks is the suspension-point pair a transport implements to wire
// live-query subscription lifecycle (spec.md §4.14): "on_live(uuid)" and
// "on_kill(uuid)". The zero value fails loudly, matching the spec's
// "Default implementations fail loudly when LQ_SUPPORT is true but the
// callbacks were not provided".
type LiveHooks interface {
	OnLive(ctx context.Context, id Value)
	OnKill(ctx context.Context, id Value)
}

// noLiveHooks is installed when a transport does not support live queries;
// LQSupport being false means query_inner never reaches these, but a
// realtime session without hooks wired is a caller bug worth panicking on
// rather than silently dropping notifications.
type noLiveHooks struct{}

func (noLiveHooks) OnLive(context.Context, Value) {
	panic("rpc: live query fired on_live but no LiveHooks were configured")
}

func (noLiveHooks) OnKill(context.Context, Value) {
	panic("rpc: live query fired on_kill but no LiveHooks were configured")
}

// NoLiveHooks is the shared fail-loudly default.
var NoLiveHooks LiveHooks = noLiveHooks{}
