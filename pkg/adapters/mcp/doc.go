// Package mcp serves an agent over the Model Context Protocol.
//
// Every registry tool is exposed as an MCP tool that runs directly. The chat
// tool appends a user message to a thread and runs the full graph.
package mcp
