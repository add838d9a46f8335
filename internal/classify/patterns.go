package classify

import "regexp"

// URL fallback patterns, tried when strict parsing rejects the content.
// Bare domains, www-prefixed hosts and scheme-prefixed URLs with ports,
// queries or fragments are all accepted.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://[^\s]+$`),
	regexp.MustCompile(`^ftp://[^\s]+$`),
	regexp.MustCompile(`^www\.[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)+([/?#][^\s]*)?$`),
	regexp.MustCompile(`^[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)+(:\d+)?([/?#][^\s]*)?$`),
}

// Email patterns: plain local@domain, plus-addressing and multi-level
// subdomain variants.
var emailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[a-zA-Z0-9._%\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`),
	regexp.MustCompile(`^[a-zA-Z0-9._%\-]+\+[a-zA-Z0-9._%\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`),
	regexp.MustCompile(`^[a-zA-Z0-9._%\-]+@([a-zA-Z0-9\-]+\.){2,}[a-zA-Z]{2,}$`),
}

// Phone patterns: NANP, E.164 and a spread of country-specific forms, closed
// by two maximally permissive fallbacks. The fallbacks match almost any digit
// run of seven or more characters; that false-positive rate is an accepted
// heuristic tradeoff users rely on; do not tighten.
var phonePatterns = []*regexp.Regexp{
	// North America
	regexp.MustCompile(`^(\+?1[\s\-\.]?)?(\(\d{3}\)|\d{3})[\s\-\.]?\d{3}[\s\-\.]?\d{4}$`),
	// E.164
	regexp.MustCompile(`^\+[1-9]\d{6,14}$`),
	// UK
	regexp.MustCompile(`^(\+44\s?|0)\d{2,4}[\s\-]?\d{3,4}[\s\-]?\d{3,4}$`),
	// France
	regexp.MustCompile(`^(\+33\s?|0)[1-9]([\s\-\.]?\d{2}){4}$`),
	// Germany
	regexp.MustCompile(`^(\+49\s?|0)\d{2,5}[\s\-/]?\d{3,9}$`),
	// Spain / Italy
	regexp.MustCompile(`^(\+3[49]\s?)?\d{2,3}[\s\-]?\d{3}[\s\-]?\d{3,4}$`),
	// Netherlands
	regexp.MustCompile(`^(\+31\s?|0)\d{1,3}[\s\-]?\d{6,8}$`),
	// Switzerland / Austria
	regexp.MustCompile(`^(\+4[13]\s?|0)\d{2,4}[\s\-]?\d{3}[\s\-]?\d{2}[\s\-]?\d{2}$`),
	// Nordic
	regexp.MustCompile(`^(\+4[567]\s?|0)\d{1,3}[\s\-]?\d{2,4}[\s\-]?\d{2,4}$`),
	// Russia
	regexp.MustCompile(`^(\+7|8)[\s\-]?\(?\d{3}\)?[\s\-]?\d{3}[\s\-]?\d{2}[\s\-]?\d{2}$`),
	// India
	regexp.MustCompile(`^(\+91[\s\-]?)?[6-9]\d{4}[\s\-]?\d{5}$`),
	// China
	regexp.MustCompile(`^(\+86[\s\-]?)?1[3-9]\d[\s\-]?\d{4}[\s\-]?\d{4}$`),
	// Japan
	regexp.MustCompile(`^(\+81[\s\-]?|0)\d{1,4}[\s\-]?\d{2,4}[\s\-]?\d{4}$`),
	// Brazil
	regexp.MustCompile(`^(\+55\s?)?\(?\d{2}\)?\s?9?\d{4}[\s\-]?\d{4}$`),
	// Australia
	regexp.MustCompile(`^(\+61\s?|0)[2-478](\s?\d{4}){2}$`),
	// Mexico
	regexp.MustCompile(`^(\+52\s?)?\(?\d{2,3}\)?\s?\d{3,4}[\s\-]?\d{4}$`),
	// Permissive fallbacks, intentionally over-broad. Do not tighten.
	regexp.MustCompile(`^\+\d{7,15}$`),
	regexp.MustCompile(`^[\+]?[\d\s\-\(\)\.]{7,}$`),
}

// Code patterns: one hit classifies the content as code. Intentionally broad,
// a keyword/structure union across common languages and tool syntaxes.
var codePatterns = []*regexp.Regexp{
	// JavaScript / TypeScript
	regexp.MustCompile(`\b(function|const|let|var)\s+\w+`),
	regexp.MustCompile(`=>\s*[{(]`),
	regexp.MustCompile(`\b(import|export)\s+.*\bfrom\s+['"]`),
	regexp.MustCompile(`\brequire\(['"]`),
	regexp.MustCompile(`\bconsole\.(log|error|warn|info)\(`),
	regexp.MustCompile(`\binterface\s+\w+\s*\{`),
	regexp.MustCompile(`:\s*(string|number|boolean|void)\b`),
	// Python
	regexp.MustCompile(`\bdef\s+\w+\s*\(`),
	regexp.MustCompile(`\bclass\s+\w+(\(\w*\))?\s*:`),
	regexp.MustCompile(`\bif\s+__name__\s*==`),
	regexp.MustCompile(`\b(import\s+\w+|from\s+[\w.]+\s+import)\b`),
	regexp.MustCompile(`\bprint\s*\(`),
	regexp.MustCompile(`\bself\.\w+`),
	// Java / C# / C++
	regexp.MustCompile(`\b(public|private|protected)\s+(static\s+)?\w+[\s<]`),
	regexp.MustCompile(`\bvoid\s+\w+\s*\(`),
	regexp.MustCompile(`\bnew\s+\w+\s*[\(<]`),
	regexp.MustCompile(`#include\s*[<"]`),
	regexp.MustCompile(`\bnamespace\s+\w+`),
	regexp.MustCompile(`\bSystem\.(out|err)\.`),
	// Go
	regexp.MustCompile(`\bfunc\s+(\(\w+\s+\*?\w+\)\s+)?\w+\s*\(`),
	regexp.MustCompile(`\b(package|go)\s+\w+$`),
	regexp.MustCompile(`:=`),
	regexp.MustCompile(`\bfmt\.\w+\(`),
	// Rust
	regexp.MustCompile(`\bfn\s+\w+\s*[(<]`),
	regexp.MustCompile(`\blet\s+mut\s+\w+`),
	regexp.MustCompile(`\bimpl\s+\w+`),
	regexp.MustCompile(`\bprintln!\(`),
	// PHP
	regexp.MustCompile(`<\?php`),
	regexp.MustCompile(`\$\w+\s*=`),
	regexp.MustCompile(`->\w+\(`),
	// Ruby
	regexp.MustCompile(`\bdef\s+\w+(\s|$)`),
	regexp.MustCompile(`\bend$`),
	regexp.MustCompile(`\bputs\s`),
	regexp.MustCompile(`\battr_(accessor|reader|writer)\b`),
	// Swift / Kotlin / Scala
	regexp.MustCompile(`\b(func|val|var)\s+\w+\s*:\s*\w+`),
	regexp.MustCompile(`\bguard\s+let\b`),
	regexp.MustCompile(`\bfun\s+\w+\s*\(`),
	regexp.MustCompile(`\bcase\s+class\s+\w+`),
	// HTML / CSS
	regexp.MustCompile(`^\s*<!DOCTYPE\s+html`),
	regexp.MustCompile(`</?[a-z][a-z0-9]*(\s+[^>]*)?>`),
	regexp.MustCompile(`\{[^}]*:\s*[^}]+;\s*\}`),
	regexp.MustCompile(`@media\s*\(`),
	// Markdown
	regexp.MustCompile("(?m)^```"),
	regexp.MustCompile(`(?m)^#{1,6}\s+\S`),
	regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`),
	// JSON / YAML
	regexp.MustCompile(`^\s*\{\s*"[^"]+"\s*:`),
	regexp.MustCompile(`^\s*\[\s*[\{"]`),
	regexp.MustCompile(`(?m)^\s*-?\s*\w+:\s+[^\s].*$[\r\n]+^\s*-?\s*\w+:`),
	// SQL
	regexp.MustCompile(`(?i)\b(SELECT\s+.+\s+FROM|INSERT\s+INTO|UPDATE\s+\w+\s+SET|DELETE\s+FROM|CREATE\s+TABLE|ALTER\s+TABLE|DROP\s+TABLE)\b`),
	// Shell
	regexp.MustCompile(`^#!/(usr/)?bin/`),
	regexp.MustCompile(`(?m)^\s*(sudo|apt|yum|brew|curl|wget|chmod|chown|mkdir|grep|awk|sed)\s+`),
	regexp.MustCompile(`\becho\s+["$]`),
	regexp.MustCompile(`\|\s*(grep|awk|sed|sort|uniq|head|tail|xargs)\b`),
	// Docker
	regexp.MustCompile(`(?m)^(FROM|RUN|CMD|COPY|ADD|ENTRYPOINT|EXPOSE|WORKDIR)\s+\S`),
	regexp.MustCompile(`\bdocker\s+(run|build|pull|push|exec|compose)\b`),
	// git
	regexp.MustCompile(`\bgit\s+(clone|commit|push|pull|checkout|merge|rebase|status|add)\b`),
	// HTTP
	regexp.MustCompile(`^(GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS)\s+/\S*\s+HTTP/`),
	regexp.MustCompile(`(?m)^(Content-Type|Authorization|Accept|User-Agent):\s`),
	// Test frameworks
	regexp.MustCompile(`\b(describe|it|test|expect|assert\w*)\s*\(`),
	// Generic call / assignment structure
	regexp.MustCompile(`\w+\.\w+\(([^)]*)\)\s*;`),
	regexp.MustCompile(`\b\w+\s*=\s*\w+\([^)]*\)\s*;`),
}
