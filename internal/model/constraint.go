package model

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Rule is a declarative field constraint: pattern, length bounds, and an
// optional closed value set. A zero bound means "unchecked". Rules are
// evaluated by checkString/checkEnum so every field shares one code path.
type Rule struct {
	Pattern    *regexp.Regexp
	PatternMsg string
	MinLen     int
	MaxLen     int
}

const maxContentBytes = 1048576 // 1MB inline requirements cap

var (
	ruleID = Rule{
		Pattern:    regexp.MustCompile(`^[a-zA-Z0-9_-]+$`),
		PatternMsg: "must contain only alphanumerics, hyphens, and underscores",
		MinLen:     1,
		MaxLen:     100,
	}
	ruleDocName = Rule{
		Pattern:    regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`),
		PatternMsg: "must start with a letter and contain only alphanumerics, hyphens, and underscores",
		MinLen:     1,
		MaxLen:     100,
	}
	ruleTitle = Rule{
		MinLen: 1,
		MaxLen: 255,
	}
	rulePath = Rule{
		MinLen: 1,
		MaxLen: 500,
	}
	ruleVersion = Rule{
		Pattern:    regexp.MustCompile(`^\d+\.\d+\.\d+$`),
		PatternMsg: "must be a semantic version like 1.0.0",
		MinLen:     1,
	}
	ruleInstructions = Rule{
		MinLen: 10,
		MaxLen: 10000,
	}
	ruleDescription = Rule{
		MaxLen: 500,
	}
	ruleContent = Rule{
		MaxLen: maxContentBytes,
	}
	ruleWorkerName = Rule{
		Pattern:    regexp.MustCompile(`^t2d-[a-z0-9-]+$`),
		PatternMsg: `must match "t2d-" followed by lowercase alphanumerics and hyphens`,
		MinLen:     1,
	}
)

// checkString applies a rule to a single field value, appending one error per
// violated constraint.
func checkString(errs *ErrorList, field, value string, rule Rule) {
	if rule.MinLen > 0 && len(value) < rule.MinLen {
		errs.Add(field, fmt.Sprintf("must be at least %d characters (got %d)", rule.MinLen, len(value)), ErrorTypeConstraint)
	}
	if rule.MaxLen > 0 && len(value) > rule.MaxLen {
		errs.Add(field, fmt.Sprintf("must be at most %d characters (got %d)", rule.MaxLen, len(value)), ErrorTypeConstraint)
	}
	if rule.Pattern != nil && value != "" && !rule.Pattern.MatchString(value) {
		errs.Add(field, rule.PatternMsg, ErrorTypeConstraint)
	}
}

// checkEnum verifies membership in a closed value set.
func checkEnum(errs *ErrorList, field, value string, valid map[string]bool) {
	if !valid[value] {
		errs.Add(field, fmt.Sprintf("unknown value %q", value), ErrorTypeConstraint)
	}
}

// checkMinWords enforces a word-count floor on free text.
func checkMinWords(errs *ErrorList, field, value string, minWords int) {
	if len(strings.Fields(value)) < minWords {
		errs.Add(field, fmt.Sprintf("must be at least %d words", minWords), ErrorTypeConstraint)
	}
}

// checkPath applies the path rule plus traversal and extension checks.
// allowedExts is nil when any extension is acceptable.
func checkPath(errs *ErrorList, field, value string, allowedExts map[string]bool) {
	checkString(errs, field, value, rulePath)
	if value == "" {
		return
	}
	if strings.Contains(value, "..") {
		errs.Add(field, "path traversal not allowed", ErrorTypeConstraint)
	}
	if allowedExts != nil {
		ext := fileExt(value)
		if !allowedExts[ext] {
			errs.Add(field, fmt.Sprintf("unsupported extension %q (allowed: %s)", ext, extList(allowedExts)), ErrorTypeConstraint)
		}
	}
}

func fileExt(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || strings.ContainsAny(path[idx:], "/\\") {
		return ""
	}
	return path[idx:]
}

func extList(exts map[string]bool) string {
	out := make([]string, 0, len(exts))
	for e := range exts {
		out = append(out, e)
	}
	sort.Strings(out)
	return strings.Join(out, " ")
}
