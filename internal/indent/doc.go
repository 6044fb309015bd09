// Package indent builds the indentation tree of a document.
//
// Every level is split into items: a line at the level's base indentation
// (shallow) or a maximal run of deeper lines. Items are grouped so that a
// group never holds two shallow lines in a row:
//
//	def foo      shallow  ┐
//	  bar        deep     │ one group: a chain (opener, body, closer)
//	end          shallow  ┘
//	puts 1       shallow    a group of its own
//
// A level with a single group becomes a chain node whose shallow lines are
// frame leaves and whose deep runs are built recursively. A level with
// several groups becomes a list node. Blank lines attach to the following
// item, trailing blank lines to the last one.
//
// Nodes live in an arena and refer to each other by index.
package indent
