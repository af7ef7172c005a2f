package expr

import (
	"fmt"
	"regexp"
)

// forbiddenPatterns is the security denylist. Expressions matching any
// pattern are rejected both at validation and at evaluation time. The
// patterns target reflection, filesystem, process, and type-introspection
// constructs; matching is textual on purpose.
var forbiddenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsystem\s*\.`),
	regexp.MustCompile(`(?i)\breflection\b`),
	regexp.MustCompile(`(?i)\bassembly\b`),
	regexp.MustCompile(`(?i)\bactivator\b`),
	regexp.MustCompile(`(?i)\bappdomain\b`),
	regexp.MustCompile(`(?i)\bprocess\s*[.(]`),
	regexp.MustCompile(`(?i)\benvironment\s*\.`),
	regexp.MustCompile(`(?i)\bgettype\b`),
	regexp.MustCompile(`(?i)\btypeof\b`),
	regexp.MustCompile(`(?i)\bfile\s*\.`),
	regexp.MustCompile(`(?i)\bdirectory\s*\.`),
	regexp.MustCompile(`(?i)\bregistry\b`),
	regexp.MustCompile(`(?i)\bmarshal\b`),
	regexp.MustCompile(`(?i)\bdllimport\b`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
	regexp.MustCompile(`(?i)\bexec\s*\(`),
}

func checkForbidden(src string) error {
	for _, p := range forbiddenPatterns {
		if p.MatchString(src) {
			return fmt.Errorf("forbidden pattern %q", p.String())
		}
	}
	return nil
}
