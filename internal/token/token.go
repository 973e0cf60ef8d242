package token

// TokenType is a string alias for token types
// Using string keeps diagnostics readable ("ASSIGN" prints as "=")
type TokenType string

// Token holds the type, literal text and source position of a lexeme.
// The parser stamps every AST node with the token that introduced it, so
// diagnostics can point back at the source.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

const (
	// Special
	ILLEGAL TokenType = "ILLEGAL"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	STRING TokenType = "STRING"
	CHAR   TokenType = "CHAR"

	// Delimiters
	ASSIGN   TokenType = "="
	LPAREN   TokenType = "("
	LBRACKET TokenType = "["

	// Keywords
	BEGIN   TokenType = "BEGIN"
	SKIP    TokenType = "SKIP"
	READ    TokenType = "READ"
	FREE    TokenType = "FREE"
	RETURN  TokenType = "RETURN"
	EXIT    TokenType = "EXIT"
	PRINT   TokenType = "PRINT"
	PRINTLN TokenType = "PRINTLN"
	IF      TokenType = "IF"
	WHILE   TokenType = "WHILE"
	NEWPAIR TokenType = "NEWPAIR"
	CALL    TokenType = "CALL"
	FST     TokenType = "FST"
	SND     TokenType = "SND"
	TRUE    TokenType = "TRUE"
	FALSE   TokenType = "FALSE"
	NULL    TokenType = "NULL"
)

// New builds a token at the given position.
func New(tt TokenType, lit string, line, col int) Token {
	return Token{Type: tt, Literal: lit, Line: line, Column: col}
}
