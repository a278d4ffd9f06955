package token

var keywords = map[string]Kind{
	"var":        KwVar,
	"let":        KwLet,
	"const":      KwConst,
	"function":   KwFunction,
	"class":      KwClass,
	"extends":    KwExtends,
	"return":     KwReturn,
	"if":         KwIf,
	"else":       KwElse,
	"while":      KwWhile,
	"do":         KwDo,
	"for":        KwFor,
	"in":         KwIn,
	"break":      KwBreak,
	"continue":   KwContinue,
	"throw":      KwThrow,
	"try":        KwTry,
	"catch":      KwCatch,
	"finally":    KwFinally,
	"switch":     KwSwitch,
	"case":       KwCase,
	"default":    KwDefault,
	"new":        KwNew,
	"delete":     KwDelete,
	"typeof":     KwTypeof,
	"void":       KwVoid,
	"instanceof": KwInstanceof,
	"this":       KwThis,
	"super":      KwSuper,
	"null":       KwNull,
	"true":       KwTrue,
	"false":      KwFalse,
	"import":     KwImport,
	"export":     KwExport,
}

// LookupKeyword returns the keyword kind for ident, if any.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
