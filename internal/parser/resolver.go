package parser

import (
	"regexp"
	"strings"

	"costlens/internal/model"
)

var reKeywordSplit = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeColumnName 规范化列名：去除首尾空白并转小写
func NormalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Keywords 将候选列名拆成长度大于 2 的小写字母数字关键词
func Keywords(name string) []string {
	parts := reKeywordSplit.Split(strings.ToLower(name), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) > 2 {
			out = append(out, p)
		}
	}
	return out
}

// Lookup 按候选列名查找取值，依次尝试：
//  1. 精确匹配（按候选顺序，跳过 nil 值，空串不跳过）
//  2. 忽略大小写与首尾空白
//  3. 关键词子集：列名小写后包含候选名全部关键词
//
// 第二个返回值表示是否命中。
func Lookup(row model.RawRow, candidates []string) (any, bool) {
	_, v, ok := LookupKey(row, candidates)
	return v, ok
}

// LookupKey 同 Lookup，同时返回命中的列名
func LookupKey(row model.RawRow, candidates []string) (string, any, bool) {
	for _, name := range candidates {
		if v, ok := row.Get(name); ok && v != nil {
			return name, v, true
		}
	}

	keys := row.Keys()

	normalizedKeys := make([]string, len(keys))
	for i, k := range keys {
		normalizedKeys[i] = NormalizeColumnName(k)
	}
	for _, name := range candidates {
		want := NormalizeColumnName(name)
		for i, k := range keys {
			if normalizedKeys[i] != want {
				continue
			}
			if v, _ := row.Get(k); v != nil {
				return k, v, true
			}
		}
	}

	for _, name := range candidates {
		words := Keywords(name)
		if len(words) == 0 {
			continue
		}
		for _, k := range keys {
			if !containsAll(strings.ToLower(k), words) {
				continue
			}
			if v, _ := row.Get(k); v != nil {
				return k, v, true
			}
		}
	}

	return "", nil, false
}

// Resolve 同 Lookup，未命中时返回 def
func Resolve(row model.RawRow, candidates []string, def any) any {
	if v, ok := Lookup(row, candidates); ok {
		return v
	}
	return def
}

func containsAll(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}
