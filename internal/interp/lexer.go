package interp

import (
	"fmt"
	"strings"
	"text/scanner"
)

type token struct {
	tok  rune
	text string
	pos  scanner.Position
}

func (t token) String() string {
	if t.tok == scanner.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", t.text)
}

// tokenize splits src into tokens, dropping comments. Multi-character
// punctuation such as :: is returned one character at a time.
func tokenize(filename, src string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Filename = filename
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments

	var errs []string
	s.Error = func(s *scanner.Scanner, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", s.Position, msg))
	}

	var toks []token
	for {
		tok := s.Scan()
		toks = append(toks, token{tok: tok, text: s.TokenText(), pos: s.Position})
		if tok == scanner.EOF {
			break
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return toks, nil
}

// mustTokenize is used for the fixed token sequences of the unit layout.
func mustTokenize(src string) []string {
	toks, err := tokenize("layout", src)
	if err != nil {
		panic(err)
	}
	texts := make([]string, 0, len(toks)-1)
	for _, t := range toks[:len(toks)-1] {
		texts = append(texts, t.text)
	}
	return texts
}
