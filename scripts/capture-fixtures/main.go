package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grez-lucas/survey-autofill/internal/browser"
	"github.com/grez-lucas/survey-autofill/internal/config"
)

// Steps to capture for a survey
var captureSteps = []StepCapture{
	{Suffix: "blank", Instructions: "Open the survey page (don't answer anything yet)"},
	{Suffix: "filled", Fill: true, Instructions: "Press ENTER to fill the survey automatically, then capture it"},
	{Suffix: "submitted", Instructions: "Submit the survey manually and wait for the confirmation page (or skip)"},
}

type StepCapture struct {
	Suffix       string
	Instructions string
	// Fill runs the autofill procedure before capturing.
	Fill bool
}

func main() {
	name := flag.String("name", "", "Fixture name prefix, e.g. onboarding")
	startURL := flag.String("url", "", "Survey URL to open (default: SURVEY_URL)")
	outputDir := flag.String("output", filepath.Join("internal", "survey", "testdata", "fixtures"), "Output directory")
	flag.Parse()

	if *name == "" {
		fmt.Println("Usage: go run ./scripts/capture-fixtures -name=onboarding [-url=https://...]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *startURL == "" {
		*startURL = cfg.URL
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║           SURVEY FIXTURE CAPTURE TOOL                          ║")
	fmt.Println("╠════════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Name: %-54s  ║\n", *name)
	fmt.Printf("║  Output: %-52s  ║\n", *outputDir)
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Println()

	// Visible browser so the operator can navigate
	session, err := browser.NewSession(
		browser.WithBin(cfg.BrowserBin),
		browser.WithControlURL(cfg.ControlURL),
		browser.WithHeadless(false),
		browser.WithStealth(cfg.Stealth),
		browser.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		fmt.Printf("Error launching browser: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	tab, err := session.NewTab()
	if err != nil {
		fmt.Printf("Error opening tab: %v\n", err)
		os.Exit(1)
	}
	defer tab.Close()

	ctx := context.Background()
	if *startURL != "" {
		if err := tab.Open(ctx, *startURL); err != nil {
			fmt.Printf("   ⚠️  %v (navigate manually)\n", err)
		}
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("📋 Instructions:")
	fmt.Println("   - A browser window has opened")
	fmt.Println("   - Follow the prompts below")
	fmt.Println("   - Press ENTER after completing each step")
	fmt.Println("   - Type 'skip' to skip a step")
	fmt.Println("   - Type 'quit' to exit")
	fmt.Println()

	for _, step := range captureSteps {
		fixture := *name + "_" + step.Suffix

		fmt.Println("────────────────────────────────────────────────────────────────")
		fmt.Printf("📄 Capturing: %s.html\n", fixture)
		fmt.Printf("📝 Instructions: %s\n", step.Instructions)
		fmt.Print("   Press ENTER when ready (or 'skip'/'quit'): ")

		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))

		if input == "quit" {
			fmt.Println("\n👋 Exiting...")
			break
		}
		if input == "skip" {
			fmt.Printf("   ⏭️  Skipped %s\n\n", fixture)
			continue
		}

		if step.Fill {
			report, err := tab.Fill(ctx)
			if err != nil {
				fmt.Printf("   ❌ Fill failed: %v\n\n", err)
				continue
			}
			fmt.Printf("   ✏️  Filled %d of %d questions (%d matrix rows)\n", report.FilledTotal(), report.Fields, report.Rows)
			_ = tab.Settle(ctx, cfg.Settle)
		}

		// -- Step 1: Wait for DOM to stabilize, including iframes
		_ = browser.WaitForIFrames(tab.Page())
		time.Sleep(1 * time.Second)

		// -- Step 2: Screenshot BEFORE inlining iframes
		screenshotPath := filepath.Join(*outputDir, fixture+".png")
		if err := tab.Screenshot(screenshotPath, true); err != nil {
			fmt.Printf("   ⚠️  Screenshot failed: %v\n", err)
		} else {
			fmt.Printf("   📸 Screenshot: %s\n", screenshotPath)
		}

		// -- Step 3: Inline iframes and capture merged HTML
		html, iframeCount, err := browser.CaptureHTML(tab.Page())
		if err != nil {
			fmt.Printf("   ❌ Error capturing HTML: %v\n\n", err)
			continue
		}
		if iframeCount > 0 {
			fmt.Printf("   🔲 Inlined %d iframe(s) into captured HTML\n", iframeCount)
		}

		// -- Step 4: Save HTML fixture
		htmlPath := filepath.Join(*outputDir, fixture+".html")
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			fmt.Printf("   ❌ Error saving HTML: %v\n\n", err)
			continue
		}

		pageURL := ""
		if info, err := tab.Page().Info(); err == nil {
			pageURL = info.URL
		}
		fmt.Printf("   ✅ Saved: %s\n", htmlPath)
		fmt.Printf("   🔗 URL: %s\n\n", pageURL)
	}

	saveMetadata(*outputDir, *name)

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("✅ Capture complete!")
	fmt.Println()
	fmt.Println("⚠️  IMPORTANT: Sanitize respondent data before committing!")
	fmt.Println("   Run: go run ./scripts/sanitize-fixtures -name=" + *name)
	fmt.Println("════════════════════════════════════════════════════════════════")
}

func saveMetadata(outDir, name string) {
	metadata := fmt.Sprintf(`# Fixture Metadata
survey: %s
captured_at: %s
captured_by: %s

## Files
%s_blank.html      survey as served, nothing answered
%s_filled.html     after one autofill pass
%s_submitted.html  confirmation page (optional)
Screenshots (.png) provided for visual reference.

## Iframe Handling

Iframe content is inlined during capture as:

    <div data-captured-iframe="true" data-iframe-src="..." data-iframe-name="...">
      <style data-from-iframe="true">/* iframe styles */</style>
      <!-- iframe body content -->
    </div>

so question containers inside iframes are found by the usual selector:

    doc.Find(".field[topic]")

## Notes
- Sanitize fixtures before committing
- Re-capture when the survey template changes
`, name, time.Now().Format(time.RFC3339), os.Getenv("USER"), name, name, name)

	metaPath := filepath.Join(outDir, name+"_README.md")
	if err := os.WriteFile(metaPath, []byte(metadata), 0o644); err != nil {
		fmt.Printf("⚠️  Error saving metadata: %v\n", err)
	}
}
