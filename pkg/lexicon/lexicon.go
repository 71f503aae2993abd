// Package lexicon holds the domain vocabulary used for heuristic intent
// classification and answer scoring: interrogatives, document words, entity
// tokens, comparison words, boost terms, and bilingual product names.
//
// The vocabulary ships embedded in the binary so classification works with
// no external files. Load can read a replacement lexicon from disk for
// deployments with a different product catalogue.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var embedded []byte

// ProductName is one bilingual product pattern pair.
type ProductName struct {
	EN string `yaml:"en"`
	TC string `yaml:"tc"`
}

// file is the YAML schema of a lexicon document.
type file struct {
	Interrogatives []string      `yaml:"interrogatives"`
	DocumentWords  []string      `yaml:"document_words"`
	EntityTokens   []string      `yaml:"entity_tokens"`
	MultiHopWords  []string      `yaml:"multi_hop_words"`
	OverviewWords  []string      `yaml:"overview_words"`
	BoostTerms     []string      `yaml:"boost_terms"`
	Products       []ProductName `yaml:"products"`
}

// Lexicon exposes compiled matchers over the domain vocabulary.
type Lexicon struct {
	interrogative *regexp.Regexp
	document      *regexp.Regexp
	entity        *regexp.Regexp
	multiHop      *regexp.Regexp
	overview      *regexp.Regexp
	product       *regexp.Regexp
	cjk           *regexp.Regexp
	boost         map[string]struct{}
}

// Default returns the embedded lexicon. Panics only if the embedded file is
// malformed, which is a build defect, not a runtime condition.
func Default() *Lexicon {
	lex, err := parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon invalid: %v", err))
	}
	return lex
}

// Load reads a lexicon from a YAML file on disk.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Lexicon, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon yaml: %w", err)
	}
	if len(f.Interrogatives) == 0 || len(f.DocumentWords) == 0 {
		return nil, fmt.Errorf("lexicon missing required word lists")
	}

	lex := &Lexicon{
		interrogative: wordAlternation(f.Interrogatives),
		document:      wordAlternation(f.DocumentWords),
		entity:        tokenAlternation(f.EntityTokens),
		multiHop:      wordAlternation(f.MultiHopWords),
		overview:      wordAlternation(f.OverviewWords),
		cjk:           regexp.MustCompile(`[\x{4e00}-\x{9fff}]`),
		boost:         make(map[string]struct{}, len(f.BoostTerms)),
	}
	for _, term := range f.BoostTerms {
		lex.boost[strings.ToLower(term)] = struct{}{}
	}

	if len(f.Products) > 0 {
		parts := make([]string, 0, len(f.Products)*2)
		for _, p := range f.Products {
			if p.EN != "" {
				parts = append(parts, p.EN)
			}
			if p.TC != "" {
				parts = append(parts, p.TC)
			}
		}
		product, err := regexp.Compile("(?i)(" + strings.Join(parts, "|") + ")")
		if err != nil {
			return nil, fmt.Errorf("failed to compile product patterns: %w", err)
		}
		lex.product = product
	}

	return lex, nil
}

// wordAlternation compiles a case-insensitive word-boundary alternation.
func wordAlternation(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// tokenAlternation compiles a case-insensitive substring alternation for
// tokens that may contain spaces or symbols ("hk$", "credit card").
func tokenAlternation(tokens []string) *regexp.Regexp {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(tok))
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

// IsInterrogative reports whether the query contains a question word.
func (l *Lexicon) IsInterrogative(q string) bool { return l.interrogative.MatchString(q) }

// MentionsDocument reports whether the query references a document type.
func (l *Lexicon) MentionsDocument(q string) bool { return l.document.MatchString(q) }

// HasEntities reports whether the query contains a currency, amount, brand
// token, or product name.
func (l *Lexicon) HasEntities(q string) bool {
	if l.entity.MatchString(q) {
		return true
	}
	return l.product != nil && l.product.MatchString(q)
}

// RequiresMultiHop reports whether the query contains comparison words.
func (l *Lexicon) RequiresMultiHop(q string) bool { return l.multiHop.MatchString(q) }

// IsOverview reports whether the text asks for an overview or summary.
func (l *Lexicon) IsOverview(q string) bool { return l.overview.MatchString(q) }

// HasCJK reports whether the text contains CJK codepoints.
func (l *Lexicon) HasCJK(q string) bool { return l.cjk.MatchString(q) }

// IsBoostTerm reports whether the lowercase token carries answer-scoring
// boost weight.
func (l *Lexicon) IsBoostTerm(token string) bool {
	_, ok := l.boost[token]
	return ok
}

// BoostTerms returns the boost vocabulary.
func (l *Lexicon) BoostTerms() []string {
	terms := make([]string, 0, len(l.boost))
	for t := range l.boost {
		terms = append(terms, t)
	}
	return terms
}

// ExtractEntity returns the first entity-like token found in the query, or
// an empty string. Used by entity search to build structured filters.
func (l *Lexicon) ExtractEntity(q string) string {
	if m := l.entity.FindString(q); m != "" {
		return m
	}
	if l.product != nil {
		return l.product.FindString(q)
	}
	return ""
}
