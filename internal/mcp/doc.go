// Package mcp exposes quilldoc over the Model Context Protocol on stdio.
//
// Four tools are registered:
//
//   - extract_module: run an interception parse over a module and optionally
//     persist the resulting catalogue
//   - list_modules: enumerate stored catalogues
//   - list_nodes: list one catalogue's nodes, optionally filtered by kind
//   - describe_symbol: search stored nodes by name
//
// Extraction requests serialize through a weight-1 semaphore because the
// compilation pipeline has a single expansion-hook slot; a request arriving
// while another extraction holds it fails with
// ErrorCodeExtractionInProgress rather than waiting.
//
// Stdout carries the MCP protocol; all logging goes to stderr.
package mcp
