// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for node
identifiers within the system.

A node is identified purely by the name of the task that produced it and
the ordered tuple of arguments the task was called with, e.g.
`markdown.read("notes.md")`. Two calls with the same name and structurally
equal arguments always address the same node.

Task names are dot-separated sequences of segments, e.g. `markdown.read`.
This package enforces the naming schema and centralizes the canonical key
encoding, so every store indexes nodes the same way.
*/
package nodeid
