// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// All services of one process share a single Session: the loaded
// document, the chat log and the conversation window.
package services
