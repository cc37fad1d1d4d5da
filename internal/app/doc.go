// Package app contains the core application logic. It wires a controller,
// the publishing tasks, the watcher and the notifiers together and owns
// their lifecycle, decoupled from any specific entrypoint like a CLI.
package app
