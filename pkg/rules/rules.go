// Package rules 按文件名决定分类目录：先按关键字（声明顺序，先匹配者优先），
// 再按扩展名（不区分大小写）。
package rules

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/moyu-x/file-organizer/pkg/scanner"
)

// KeywordRule 文件名包含 Keyword 时归入 Folder
type KeywordRule struct {
	Keyword string
	Folder  string
}

type Kind int

const (
	KindNone Kind = iota
	KindKeyword
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindExtension:
		return "extension"
	default:
		return "none"
	}
}

// Match 一次规则匹配的结果。Kind 为 KindNone 时 Folder 为空。
type Match struct {
	Kind   Kind
	Rule   string
	Folder string
}

func (m Match) Matched() bool {
	return m.Kind != KindNone
}

type RuleSet struct {
	keywords   []KeywordRule
	extensions map[string]string
}

// New 构建规则集。关键字按 NFC 规范化，扩展名转为小写；
// 传入的切片和 map 会被复制，之后的修改不影响规则集。
func New(keywords []KeywordRule, extensions map[string]string) *RuleSet {
	rs := &RuleSet{
		keywords:   make([]KeywordRule, 0, len(keywords)),
		extensions: make(map[string]string, len(extensions)),
	}
	for _, kw := range keywords {
		rs.keywords = append(rs.keywords, KeywordRule{
			Keyword: norm.NFC.String(kw.Keyword),
			Folder:  kw.Folder,
		})
	}
	for ext, folder := range extensions {
		rs.extensions[strings.ToLower(ext)] = folder
	}
	return rs
}

func (r *RuleSet) Keywords() []KeywordRule {
	out := make([]KeywordRule, len(r.keywords))
	copy(out, r.keywords)
	return out
}

func (r *RuleSet) Extensions() map[string]string {
	out := make(map[string]string, len(r.extensions))
	for k, v := range r.extensions {
		out[k] = v
	}
	return out
}

// MatchKeyword 返回第一个出现在文件名中的关键字规则，区分大小写
func (r *RuleSet) MatchKeyword(filename string) (Match, bool) {
	name := norm.NFC.String(filename)
	for _, kw := range r.keywords {
		if kw.Keyword != "" && strings.Contains(name, kw.Keyword) {
			return Match{Kind: KindKeyword, Rule: kw.Keyword, Folder: kw.Folder}, true
		}
	}
	return Match{}, false
}

// MatchExtension 按扩展名（含前导点）查找分类，不区分大小写
func (r *RuleSet) MatchExtension(ext string) (Match, bool) {
	if ext == "" {
		return Match{}, false
	}
	ext = strings.ToLower(ext)
	folder, ok := r.extensions[ext]
	if !ok {
		return Match{}, false
	}
	return Match{Kind: KindExtension, Rule: ext, Folder: folder}, true
}

// Match 先检查关键字，未命中时再检查扩展名
func (r *RuleSet) Match(filename string) Match {
	if m, ok := r.MatchKeyword(filename); ok {
		return m
	}
	_, ext := scanner.SplitExt(filename)
	if m, ok := r.MatchExtension(ext); ok {
		return m
	}
	return Match{}
}
