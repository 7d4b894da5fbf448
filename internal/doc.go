// Package internal contains the core implementation packages for specgen.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the specgen CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - config: Configuration loading, defaults and schema validation
//   - errors: Typed errors with suggestions and centralized handling
//   - logging: Structured logging on log/slog
//   - rules: Comment tokens, patterns and per-type rules compiled from config
//   - validator: Structural checks of templates and specifications
//   - generator: Placeholder substitution and exclusive output writes
//   - repair: Conversion of legacy comment delimiters
//   - store: Template discovery, search and body extraction
//   - scaffolding: Starter templates that satisfy the rules
//   - services: Operations behind each command
//   - preview: Terminal rendering of documents
//   - watcher: File system monitoring with debouncing
//   - version: Build information
//
// # Inter-Package Communication
//
//   - rules is built once from config and shared by every consumer
//   - validator reports findings as data; only unreadable files are errors
//   - services wires config, rules, validator, generator, repair and store
//   - watcher delivers batches of changes to handlers supplied by cmd
//
// # Testing Strategy
//
//   - Table-driven unit tests with testify in every package
//   - Property tests with gopter behind the property build tag
//   - Temporary projects built with internal/testutils
package internal
