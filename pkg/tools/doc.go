// Package tools provides the built-in tools: get_weather, define_word and web_search.
//
// Every handler converts its own failures into descriptive text, so a tool
// call always produces an answer the model can read.
package tools
