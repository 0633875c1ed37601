package syntax

// tokenStream adapts the lexer's token iterator for the statement
// dispatcher. Hidden tokens never reach the caller: they are reclassified
// into the pending trivia buffer (or discarded when trivia retention is
// off). A small peek buffer supports one-token lookahead past trivia.
type tokenStream struct {
	lexer      *Lexer
	keepTrivia bool
	// liquid treats newlines as hidden unconditionally; liquid statements
	// end at section exits only.
	liquid bool

	// buf holds fetched but unconsumed tokens, hidden ones included.
	buf []Token
	// read is the cursor into buf.
	read int

	current  Token
	previous Token

	// pending accumulates trivia until a node opens or closes.
	pending []Trivia

	// allowNewLine hides newline tokens while positive. It is raised by
	// the expression parser around constructs that span lines.
	allowNewLine int
}

// newTokenStream creates a stream over the given lexer and primes the
// first visible token.
func newTokenStream(lexer *Lexer) *tokenStream {
	ts := &tokenStream{
		lexer:      lexer,
		keepTrivia: lexer.Options().KeepTrivia,
		liquid:     lexer.Options().Dialect == DialectLiquid,
	}
	ts.current = ts.nextVisible()
	return ts
}

// Current returns the token under inspection.
func (ts *tokenStream) Current() Token {
	return ts.current
}

// Previous returns the most recently consumed visible token.
func (ts *tokenStream) Previous() Token {
	return ts.previous
}

// Advance consumes the current token and moves to the next visible one.
func (ts *tokenStream) Advance() {
	ts.previous = ts.current
	ts.current = ts.nextVisible()
}

// Peek returns the next visible token after the current one without
// consuming anything.
func (ts *tokenStream) Peek() Token {
	for i := ts.read; ; i++ {
		if i >= len(ts.buf) {
			if ts.current.Kind == Eof {
				return ts.current
			}
			ts.buf = append(ts.buf, ts.lexer.Next())
		}
		if !ts.hidden(ts.buf[i]) {
			return ts.buf[i]
		}
	}
}

// nextVisible pulls tokens until a visible one is found, routing hidden
// tokens into the pending trivia buffer.
func (ts *tokenStream) nextVisible() Token {
	for {
		tok := ts.pull()
		if !ts.hidden(tok) {
			return tok
		}
		ts.pushTrivia(triviaKindOfToken(tok.Kind), tok)
	}
}

// pull takes the next token from the peek buffer or the lexer. When the
// buffer is drained it is reset.
func (ts *tokenStream) pull() Token {
	if ts.read < len(ts.buf) {
		tok := ts.buf[ts.read]
		ts.read++
		if ts.read == len(ts.buf) {
			ts.buf = ts.buf[:0]
			ts.read = 0
		}
		return tok
	}
	return ts.lexer.Next()
}

// hidden returns true if the token never reaches the dispatcher.
func (ts *tokenStream) hidden(tok Token) bool {
	if tok.Kind.IsHidden() {
		return true
	}
	return tok.Kind == NewLine && (ts.allowNewLine > 0 || ts.liquid)
}

// pushTrivia appends a token to the pending trivia buffer.
func (ts *tokenStream) pushTrivia(kind TriviaKind, tok Token) {
	if !ts.keepTrivia {
		return
	}
	ts.pending = append(ts.pending, Trivia{
		Kind: kind,
		Span: spanOfToken(ts.lexer.SourcePath(), tok),
	})
}

// hasPending returns true if trivia are waiting for a node.
func (ts *tokenStream) hasPending() bool {
	return len(ts.pending) > 0
}

// takePending returns and clears the pending trivia.
func (ts *tokenStream) takePending() []Trivia {
	out := ts.pending
	ts.pending = nil
	return out
}

// clearPending discards the pending trivia.
func (ts *tokenStream) clearPending() {
	ts.pending = nil
}

// enterNewLineScope starts hiding newlines, for multi-line constructs.
func (ts *tokenStream) enterNewLineScope() {
	ts.allowNewLine++
}

// leaveNewLineScope restores newline visibility.
func (ts *tokenStream) leaveNewLineScope() {
	ts.allowNewLine--
}

// Text returns the current token's source text.
func (ts *tokenStream) Text(tok Token) string {
	return ts.lexer.TokenText(tok)
}
