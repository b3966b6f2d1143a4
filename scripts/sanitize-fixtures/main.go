package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var sanitizePatterns = []struct {
	Pattern     *regexp.Regexp
	Replacement string
	Description string
}{
	// Submission signature and respondent identifiers in inline scripts
	{
		regexp.MustCompile(`(?i)(jqsign|openid|unionid|sojumpparm|jqnonce)(["'\s:=]+)["']?[A-Za-z0-9%_.\-+/=]{6,}["']?`),
		`$1$2"REDACTED"`,
		"Respondent identifier",
	},

	// Session tokens / CSRF tokens
	{
		regexp.MustCompile(`(?i)(token|csrf|session)["\s:=]+["']?[a-zA-Z0-9_-]{20,}["']?`),
		`$1="REDACTED"`,
		"Token",
	},

	// Email addresses
	{
		regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		`respondent@example.com`,
		"Email",
	},

	// Mobile numbers
	{
		regexp.MustCompile(`\b1[3-9]\d{9}\b`),
		`13800000000`,
		"Mobile number",
	},

	// Client IP echoed into the page
	{
		regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		`203.0.113.1`,
		"IP address",
	},

	// Cookies in HTML
	{
		regexp.MustCompile(`(?i)document\.cookie\s*=\s*["'][^"']+["']`),
		`document.cookie="REDACTED"`,
		"Cookie",
	},
}

func main() {
	dir := flag.String("dir", filepath.Join("internal", "survey", "testdata", "fixtures"), "Fixture directory")
	name := flag.String("name", "", "Only sanitize fixtures with this name prefix")
	dryRun := flag.Bool("dry-run", false, "Show what would be changed without modifying files")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*dir, *name+"*.html"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No HTML files found in %s\n", *dir)
		os.Exit(1)
	}

	fmt.Printf("🔒 Sanitizing %d fixture(s) in %s\n", len(files), *dir)
	if *dryRun {
		fmt.Println("    (DRY RUN - no files will be modified)")
	}
	fmt.Println()

	for _, file := range files {
		sanitizeFile(file, *dryRun)
	}

	fmt.Println()
	fmt.Println("✅ Sanitization complete!")
	if *dryRun {
		fmt.Println("    Run without --dry-run to apply changes")
	}
}

func sanitizeFile(path string, dryRun bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("❌ Error reading %s: %v\n", path, err)
		return
	}

	sanitized := string(content)
	var changes []string

	for _, p := range sanitizePatterns {
		matches := p.Pattern.FindAllString(sanitized, -1)
		if len(matches) == 0 {
			continue
		}
		sanitized = p.Pattern.ReplaceAllString(sanitized, p.Replacement)
		changes = append(changes, fmt.Sprintf("  - %s: %d matched", p.Description, len(matches)))
	}

	filename := filepath.Base(path)
	if len(changes) == 0 {
		fmt.Printf("📄 %s: No respondent data found\n", filename)
		return
	}

	fmt.Printf("📄 %s: Found respondent data\n", filename)
	for _, change := range changes {
		fmt.Println(change)
	}

	if !dryRun {
		if err := os.WriteFile(path, []byte(sanitized), 0o644); err != nil {
			fmt.Printf("    ❌ Error writing %s: %v\n", path, err)
		} else {
			fmt.Println("    ✅ Sanitized and saved")
		}
	}
}
