// Package audithook provides a built-in hook module that mirrors
// lifecycle notifications into an audit trail.
//
// The module implements the notification interfaces only — it never
// decorates a payload. Each notification emits a structured audit event
// through an injected [Recorder]; recording failures are logged and never
// propagated, so a slow or broken audit backend cannot disturb dispatch.
package audithook
