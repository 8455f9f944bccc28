package solver

import "context"

// Oracle tells whether a word belongs to the target language. It is called
// once per surviving candidate on every filtering pass.
type Oracle interface {
	IsWord(ctx context.Context, word string) (bool, error)
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(ctx context.Context, word string) (bool, error)

func (f OracleFunc) IsWord(ctx context.Context, word string) (bool, error) {
	return f(ctx, word)
}
