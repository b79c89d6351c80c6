package eval

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ragstack/rageval/pkg/types"
)

// ExtractorRule is one independent entity extraction rule: a pure
// function from text to candidate spans. Rules are composed by union,
// so adding a rule never changes what the others produce.
type ExtractorRule struct {
	Name    string
	Extract func(text string) []string
}

var (
	latinProperNounRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	acronymRe         = regexp.MustCompile(`\b[A-Z][A-Z0-9]+\b`)
	yearRe            = regexp.MustCompile(`\b\d{4}\b`)
	versionRe         = regexp.MustCompile(`\bv?\d+(?:\.\d+)+\b`)
	bracketedRe       = regexp.MustCompile(`[（(\[]([^（）()\[\]]{2,50})[）)\]]`)
	// Lazy quantifiers keep a suffix match from swallowing the whole
	// preceding Han run.
	cjkOrgRe    = regexp.MustCompile(`[\p{Han}]{2,}?(?:公司|大学|学院|研究院|研究所|中心|集团|银行|医院|部门|组织)`)
	cjkPlaceRe  = regexp.MustCompile(`[\p{Han}]{2,}?(?:省|市|县|区|镇|村|街道)`)
	cjkPersonRe = regexp.MustCompile(`(?:李|王|张|刘|陈|杨|黄|赵|周|吴|徐|孙|马|朱|胡|郭|何|高|林|罗|郑|梁|谢|宋|唐|许|韩|冯|邓|曹|彭|曾|肖|田|董|袁|潘|蒋|蔡|余|杜|叶|程|苏|魏|吕|丁|任|沈|姚|卢|姜|崔|钟|谭|陆|汪|范|金|石|廖|贾|夏|韦|傅|方|白|邹|孟|熊|秦|邱|江|尹|薛|闫|段|雷|侯|龙|史|陶|黎|贺|顾|毛|郝|龚|邵|万|钱|严|覃|武|戴|莫|孔|向|汤)[\p{Han}]{1,2}(?:先生|女士|教授|博士|老师)?`)
)

// technicalTerms is a whitelist of terms treated as entities regardless
// of casing, since retrieval corpora mention them in every style.
var technicalTerms = []string{
	"golang", "python", "java", "javascript", "typescript", "rust",
	"kubernetes", "docker", "redis", "postgresql", "mysql", "sqlite",
	"linux", "http", "grpc", "json", "yaml", "sql", "api",
	"llm", "rag", "bm25", "ndcg", "transformer", "embedding",
}

// extractorStopwords are spans too generic to count as entities
var extractorStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "it": true, "this": true, "that": true,
	"的": true, "了": true, "和": true, "与": true,
}

// DefaultExtractorRules returns the ordered rule list used by the
// entity recall scorer. Each rule is testable in isolation.
func DefaultExtractorRules() []ExtractorRule {
	return []ExtractorRule{
		{Name: "latin_proper_nouns", Extract: regexRule(latinProperNounRe)},
		{Name: "acronyms", Extract: regexRule(acronymRe)},
		{Name: "years", Extract: regexRule(yearRe)},
		{Name: "versions", Extract: regexRule(versionRe)},
		{Name: "bracketed_spans", Extract: captureRule(bracketedRe)},
		{Name: "cjk_organizations", Extract: regexRule(cjkOrgRe)},
		{Name: "cjk_places", Extract: regexRule(cjkPlaceRe)},
		{Name: "cjk_person_names", Extract: regexRule(cjkPersonRe)},
		{Name: "technical_terms", Extract: technicalTermRule},
	}
}

func regexRule(re *regexp.Regexp) func(string) []string {
	return func(text string) []string {
		return re.FindAllString(text, -1)
	}
}

func captureRule(re *regexp.Regexp) func(string) []string {
	return func(text string) []string {
		matches := re.FindAllStringSubmatch(text, -1)
		spans := make([]string, 0, len(matches))
		for _, m := range matches {
			spans = append(spans, m[1])
		}
		return spans
	}
}

func technicalTermRule(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

// EntityRecallScorer computes an LLM-free entity-level recall score.
// It never performs network calls and never fails; a text with no
// extractable entities simply yields an empty set.
type EntityRecallScorer struct {
	rules []ExtractorRule
}

// NewEntityRecallScorer creates a scorer with the default rule list
func NewEntityRecallScorer() *EntityRecallScorer {
	return &EntityRecallScorer{rules: DefaultExtractorRules()}
}

// NewEntityRecallScorerWithRules creates a scorer with a custom rule list
func NewEntityRecallScorerWithRules(rules []ExtractorRule) *EntityRecallScorer {
	return &EntityRecallScorer{rules: rules}
}

// Extract runs every rule over the text and returns the union of
// normalized entities.
func (s *EntityRecallScorer) Extract(text string) map[string]bool {
	entities := make(map[string]bool)
	if strings.TrimSpace(text) == "" {
		return entities
	}

	for _, rule := range s.rules {
		for _, span := range rule.Extract(text) {
			if ent, ok := normalizeEntity(span); ok {
				entities[ent] = true
			}
		}
	}

	return entities
}

// Recall computes |reference ∩ context| / |reference| over the entity
// sets of the reference text and the concatenated context texts.
// Defined as 1.0 when the reference set is empty: nothing to recall.
func (s *EntityRecallScorer) Recall(reference string, contexts []string) types.EntityRecallResult {
	refEntities := s.Extract(reference)
	ctxEntities := s.Extract(strings.Join(contexts, "\n"))

	result := types.EntityRecallResult{
		ReferenceEntities: sortedKeys(refEntities),
		ContextEntities:   sortedKeys(ctxEntities),
	}

	if len(refEntities) == 0 {
		result.Recall = 1.0
		return result
	}

	for ent := range refEntities {
		if ctxEntities[ent] {
			result.IntersectionSize++
		}
	}
	result.Recall = float64(result.IntersectionSize) / float64(len(refEntities))

	return result
}

// normalizeEntity case-folds Latin spans, leaves non-Latin spans as
// extracted, and rejects spans outside the 2..50 rune range or in the
// stopword list.
func normalizeEntity(span string) (string, bool) {
	span = strings.TrimSpace(span)
	n := utf8.RuneCountInString(span)
	if n < 2 || n > 50 {
		return "", false
	}

	if isLatinSpan(span) {
		span = strings.ToLower(span)
	}
	if extractorStopwords[span] {
		return "", false
	}

	return span, true
}

func isLatinSpan(span string) bool {
	for _, r := range span {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
