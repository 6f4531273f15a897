/*
Package observability exposes the agent's lifecycle as Prometheus metrics.

Metrics owns a private registry so several agents, or tests, never collide on the
default one. Hooks returns domain.LifecycleHooks that feed the collectors; merge them with
any other hooks before handing them to the agent.
*/
package observability
