// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Parser: Decodes one document format into text and metadata
//   - ParserRegistry: Dispatches an upload to the parser for its extension
//   - MetricExtractor: Heuristic financial metric extraction
//   - InferenceService: The language model endpoint (Ollama wire contract)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: User-editable prompt templates. Without it the embedded template is used.
//   - TokenCounter: Prompt token estimates for verbose logging.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, parser, or extractor package
package driven
