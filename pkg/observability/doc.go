/*
Package observability provides lifecycle hooks for monitoring the wayfarer engine.

Metrics exposes Prometheus collectors fed by domain.LifecycleHooks, and LogHooks writes
an audit line per transition. Combine them with domain.ChainHooks.
*/
package observability
