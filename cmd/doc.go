// Package cmd provides the command-line interface for specgen.
//
// This package implements all CLI commands using the Cobra framework. Each
// command loads the configuration, builds a services.SpecService and formats
// what the service returns.
//
// # Available Commands
//
//   - init: Create a configuration and starter templates
//   - generate: Create a specification from a template
//   - validate: Check templates, specifications or the whole project
//   - list: List configured template types and discovered templates
//   - fix-syntax: Rewrite legacy comment delimiters
//   - show: Render a document in the terminal
//   - watch: Revalidate documents as they change
//   - config: Create, show and validate the configuration
//   - version: Show build information
//
// # Command Examples
//
//	// Generate a sprint plan, filling two placeholders
//	specgen generate sprint sprint-12 --set AUTHOR=ada --set VERSION=1.0.0
//
//	// Validate everything and fail on structural errors
//	specgen validate all
//
//	// Preview the rewrite before touching files
//	specgen fix-syntax templates --dry-run
package cmd
