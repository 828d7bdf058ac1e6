package token

// Keywords maps reserved identifiers to their token kinds. A table is built
// once and handed to the lexer; it is never modified afterwards.
type Keywords map[string]Kind

// DefaultKeywords returns the keyword table of the song language.
func DefaultKeywords() Keywords {
	return Keywords{
		"on":   On,
		"from": From,
		"to":   To,
		"_":    Underscore,
	}
}

// Lookup returns the keyword kind for word, or Identifier.
func (k Keywords) Lookup(word string) Kind {
	if kind, ok := k[word]; ok {
		return kind
	}
	return Identifier
}
