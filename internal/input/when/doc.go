// Package when implements the when-clause language: boolean expressions over
// named context keys that gate whether a keybinding is active.
//
// Grammar, loosest binding first:
//
//	expr    := or
//	or      := and ( '||' and )*
//	and     := unary ( '&&' unary )*
//	unary   := '!' unary | '(' expr ')' | cmp
//	cmp     := IDENT ( ('==' | '!=') literal )?
//	literal := STRING | NUMBER | 'true' | 'false' | WORD
//
// An empty clause is always true. A key missing from the context is false,
// so an unknown key disables a binding rather than enabling it. Comparisons
// coerce the literal to the type of the context value:
//
//	editorFocus && !inputFocus
//	resourceLangId == go || resourceLangId == 'markdown'
//	editorTabCount != 0
//
// Evaluation is pure. A Cache parses each distinct clause once.
package when
