package token

var keywords = map[string]Kind{
	"int":      KwInt,
	"void":     KwVoid,
	"const":    KwConst,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
}

// LookupKeyword returns the keyword kind for ident, if it is reserved.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
