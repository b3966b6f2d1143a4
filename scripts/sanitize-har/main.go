// sanitize-har removes respondent identifiers, signatures and cookies from
// HAR recordings before committing.
//
// Usage:
//
//	go run ./scripts/sanitize-har -name=onboarding
//	go run ./scripts/sanitize-har -input=recording.har.json -output=sanitized.har.json
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grez-lucas/survey-autofill/internal/har"
)

func main() {
	// Conventional path flag
	name := flag.String("name", "", "Recording name under internal/browser/testdata/recordings")

	// Direct path flags
	inputPath := flag.String("input", "", "Input HAR file path")
	outputPath := flag.String("output", "", "Output HAR file path (defaults to input path)")

	dryRun := flag.Bool("dry-run", false, "Show what would be redacted without modifying")
	flag.Parse()

	var inPath, outPath string
	switch {
	case *name != "":
		inPath = filepath.Join("internal", "browser", "testdata", "recordings", *name+".har.json")
		outPath = inPath
	case *inputPath != "":
		inPath = *inputPath
		outPath = *inputPath
		if *outputPath != "" {
			outPath = *outputPath
		}
	default:
		printUsage()
		os.Exit(1)
	}

	fmt.Printf("Loading HAR file: %s\n", inPath)

	// Accepts both the DevTools export and the simplified format
	original, err := har.Load(inPath)
	if err != nil {
		fmt.Printf("Error loading HAR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d entries\n", len(original.Entries))

	sanitized := har.Sanitize(original)

	redactions := diff(original, sanitized)
	fmt.Printf("Redacted %d sensitive values\n", len(redactions))

	if *dryRun {
		fmt.Println("\n[DRY RUN] No changes written.")
		fmt.Println("\nRedaction Summary:")
		fmt.Println("==================")
		for _, r := range redactions {
			fmt.Println(r)
		}
		return
	}

	if err := har.Save(outPath, sanitized); err != nil {
		fmt.Printf("Error saving HAR: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sanitized HAR saved to: %s\n", outPath)
	fmt.Println("\nSafe to commit!")
}

func printUsage() {
	fmt.Println("sanitize-har - Remove respondent data from HAR files before committing")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  go run ./scripts/sanitize-har -name=onboarding")
	fmt.Println("  go run ./scripts/sanitize-har -input=recording.har.json")
	fmt.Println("  go run ./scripts/sanitize-har -input=in.har.json -output=out.har.json")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -name      Recording name (internal/browser/testdata/recordings/{name}.har.json)")
	fmt.Println("  -input     Input HAR file path")
	fmt.Println("  -output    Output HAR file path (defaults to input)")
	fmt.Println("  -dry-run   Show redactions without modifying file")
}

// diff describes every value that differs between the two recordings.
func diff(original, sanitized *har.Log) []string {
	var out []string
	for i := range min(len(original.Entries), len(sanitized.Entries)) {
		orig, san := original.Entries[i], sanitized.Entries[i]
		where := fmt.Sprintf("entry %d: %s %s", i+1, orig.Request.Method, truncateURL(orig.Request.URL))

		if orig.Request.URL != san.Request.URL {
			out = append(out, where+": URL query parameters")
		}
		out = append(out, headerDiff(where+": request header", orig.Request.Headers, san.Request.Headers)...)
		if orig.Request.Body != san.Request.Body {
			out = append(out, where+": request body")
		}
		out = append(out, headerDiff(where+": response header", orig.Response.Headers, san.Response.Headers)...)
		if orig.Response.Content.Text != san.Response.Content.Text {
			out = append(out, where+": response body")
		}
	}
	return out
}

func headerDiff(prefix string, orig, san []har.Header) []string {
	var out []string
	for j, h := range orig {
		if j < len(san) && h.Value != san[j].Value {
			out = append(out, fmt.Sprintf("%s '%s'", prefix, h.Name))
		}
	}
	return out
}

func truncateURL(url string) string {
	if len(url) > 80 {
		return url[:77] + "..."
	}
	return url
}
