// Package explain turns the invalid blocks found by the search into
// diagnostics that say which keyword or delimiter is left unmatched.
package explain

import (
	"fmt"
	"slices"

	"deadend/internal/block"
	"deadend/internal/diag"
	"deadend/internal/oracle"
	"deadend/internal/source"
)

const (
	MsgMissingEnd   = "Unmatched keyword, missing `end' ?"
	MsgUnmatchedEnd = "Unmatched `end', missing keyword (`do', `def`, `if`, etc.) ?"
	MsgUnterminated = "Unterminated string, comment or heredoc ?"
	MsgSyntax       = "Syntax error"
)

var delimiterOrder = []byte{'(', '[', '{'}

// Explain builds diagnostics for every invalid block. Without a balancer, or
// when the balancer sees nothing unmatched, a block gets a generic syntax
// error.
func Explain(path string, blocks []*block.Block, bal oracle.Balancer) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, b := range blocks {
		span := b.Span()
		if bal == nil {
			out = append(out, diag.NewError(diag.DeadSyntax, path, span, MsgSyntax))
			continue
		}
		found := forBalance(path, span, bal.Balance(source.Join(b.Lines())))
		if len(found) == 0 {
			found = append(found, diag.NewError(diag.DeadSyntax, path, span, MsgSyntax))
		}
		out = append(out, found...)
	}
	return out
}

func forBalance(path string, span source.Span, bal oracle.Balance) []diag.Diagnostic {
	var out []diag.Diagnostic
	if bal.Ends > 0 {
		out = append(out, diag.NewError(diag.DeadUnmatchedEnd, path, span, MsgUnmatchedEnd))
	}
	if bal.Keywords > 0 {
		out = append(out, diag.NewError(diag.DeadMissingEnd, path, span, MsgMissingEnd))
	}
	for _, open := range delimiterOrder {
		if bal.Unclosed[open] > 0 {
			out = append(out, diag.NewError(diag.DeadMissingCloser, path, span, MissingCloser(open)))
		}
	}
	for _, open := range delimiterOrder {
		closer := closerOf(open)
		if bal.Unopened[closer] > 0 {
			out = append(out, diag.NewError(diag.DeadUnmatchedCloser, path, span, UnmatchedCloser(closer)))
		}
	}
	if bal.Unterminated {
		out = append(out, diag.NewError(diag.DeadUnterminated, path, span, MsgUnterminated))
	}
	return out
}

// MissingCloser formats the message for an opening delimiter left open.
func MissingCloser(open byte) string {
	return fmt.Sprintf("Unmatched `%c', missing `%c' ?", open, closerOf(open))
}

// UnmatchedCloser formats the message for a closing delimiter with no opener.
func UnmatchedCloser(closer byte) string {
	return fmt.Sprintf("Unmatched `%c', missing `%c' ?", closer, openerOf(closer))
}

// Messages returns the distinct messages in first-seen order, the header
// printed above the excerpt.
func Messages(diags []diag.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		if !slices.Contains(out, d.Message) {
			out = append(out, d.Message)
		}
	}
	return out
}

func closerOf(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}

func openerOf(closer byte) byte {
	switch closer {
	case ')':
		return '('
	case ']':
		return '['
	case '}':
		return '{'
	}
	return 0
}
