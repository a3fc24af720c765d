package token

// Kind is the category of a source token.
type Kind uint8

const (
	// Invalid marks a byte sequence the lexer could not classify.
	Invalid Kind = iota
	EOF

	Ident
	IntLit

	KwInt
	KwVoid
	KwConst
	KwIf
	KwElse
	KwWhile
	KwBreak
	KwContinue
	KwReturn

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	Assign  // =
	EqEq    // ==
	BangEq  // !=
	Lt      // <
	LtEq    // <=
	Gt      // >
	GtEq    // >=
	Bang    // !
	AndAnd  // &&
	OrOr    // ||

	Semicolon // ;
	Comma     // ,
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
)

var kindNames = [...]string{
	Invalid: "invalid", EOF: "end of file", Ident: "identifier", IntLit: "integer literal",
	KwInt: "int", KwVoid: "void", KwConst: "const", KwIf: "if", KwElse: "else",
	KwWhile: "while", KwBreak: "break", KwContinue: "continue", KwReturn: "return",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	EqEq: "==", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	Bang: "!", AndAnd: "&&", OrOr: "||",
	Semicolon: ";", Comma: ",", LParen: "(", RParen: ")",
	LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
