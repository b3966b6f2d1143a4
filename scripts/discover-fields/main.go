// discover-fields opens a survey page and prints the iframe tree, probing
// each frame for the question markup the autofill procedure relies on. The
// output shows which frame holds which question types and whether the
// presentational wrappers and hidden matrix inputs are where they are
// expected.
//
// Usage:
//
//	go run ./scripts/discover-fields -url=https://survey.example.com/vm/abc.aspx
//
// Without -url the script opens SURVEY_URL, or a blank tab you navigate
// manually. Press ENTER to inspect the current page; repeat after
// navigating to further pages.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/grez-lucas/survey-autofill/internal/browser"
	"github.com/grez-lucas/survey-autofill/internal/config"
	"github.com/grez-lucas/survey-autofill/internal/survey"
)

// selectorProbe is a CSS selector counted in each frame.
type selectorProbe struct {
	Name     string
	Selector string
}

// Add new selectors here as you discover them.
var surveyProbes = []selectorProbe{
	{"Question containers", survey.SelectorField},
	{"Single-choice", `.field[topic][type="3"]`},
	{"Multi-choice", `.field[topic][type="4"]`},
	{"Matrix", `.field[topic][type="6"]`},
	{"Other types", `.field[topic]:not([type="3"]):not([type="4"]):not([type="6"])`},

	{"Radios", survey.SelectorRadio},
	{"Radio wrappers", survey.SelectorRadioWrapper},
	{"Radio markers", survey.SelectorRadioWrapper + " " + survey.SelectorRadioMarker},
	{"Checkboxes", survey.SelectorCheckbox},
	{"Checkbox wrappers", survey.SelectorCheckboxWrapper},
	{"Checkbox markers", survey.SelectorCheckboxWrapper + " " + survey.SelectorCheckboxMarker},
	{"Checked markers", "." + survey.ClassChecked},

	{"Matrix rows", survey.SelectorMatrixRow},
	{"Rating options", survey.SelectorMatrixRow + " " + survey.SelectorRating},
	{"Rows without fid", survey.SelectorMatrixRow + ":not([fid])"},
	{"Hidden inputs", `input[type="hidden"]`},

	{"Submit button", "#ctlNext, #submit_button"},
	{"Captcha", "[id*='captcha'], [class*='captcha']"},
}

func main() {
	startURL := flag.String("url", "", "Survey URL to open (default: SURVEY_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *startURL == "" {
		*startURL = cfg.URL
	}

	fmt.Println("================================================================")
	fmt.Println("  SURVEY FIELD DISCOVERY")
	fmt.Println("================================================================")
	fmt.Println()
	fmt.Println("This tool inspects the iframe tree on each page and reports")
	fmt.Println("how many question elements each frame contains.")
	fmt.Println()

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

	if *startURL != "" {
		if err := tab.Open(context.Background(), *startURL); err != nil {
			fmt.Printf("  %v (navigate manually)\n", err)
		}
	}

	page := tab.Page()
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("----------------------------------------------------------------")
		fmt.Print("  Press ENTER to inspect the current page (or 'quit'): ")

		input, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(input)) == "quit" {
			break
		}

		// Wait for DOM stability across all frames
		_ = browser.WaitForIFrames(page)
		time.Sleep(500 * time.Millisecond)

		pageURL := ""
		if info, err := page.Info(); err == nil {
			pageURL = info.URL
		}
		fmt.Printf("\n  URL: %s\n\n", pageURL)

		inspectFrame(page, "main", 1)
		fmt.Println()
	}

	fmt.Println("================================================================")
	fmt.Println("  Discovery complete.")
	fmt.Println("================================================================")
}

// inspectFrame recursively counts probe matches in a frame and its child
// iframes.
func inspectFrame(page *rod.Page, path string, depth int) {
	indent := strings.Repeat("  ", depth)

	found := 0
	for _, probe := range surveyProbes {
		els, err := page.Elements(probe.Selector)
		if err != nil || len(els) == 0 {
			continue
		}
		fmt.Printf("%sFOUND  %-22s %4d  %s\n", indent, probe.Name, len(els), probe.Selector)
		found++
	}
	if found == 0 {
		fmt.Printf("%s(no survey markup found)\n", indent)
	}

	iframes, err := page.Elements("iframe")
	if err != nil {
		return
	}

	for i, iframe := range iframes {
		src, _ := iframe.Attribute("src")
		id, _ := iframe.Attribute("id")
		name, _ := iframe.Attribute("name")
		visible, _ := iframe.Visible()

		label := fmt.Sprintf("iframe[%d]", i)
		if idStr := deref(id); idStr != "" {
			label = "iframe#" + idStr
		} else if nameStr := deref(name); nameStr != "" {
			label = fmt.Sprintf("iframe[name=%s]", nameStr)
		}

		childPath := fmt.Sprintf("%s > %s", path, label)
		fmt.Printf("\n%sIFRAME %s  visible=%v  src=%s\n", indent, childPath, visible, truncate(deref(src), 80))

		frame, err := iframe.Frame()
		if err != nil {
			fmt.Printf("%s  (cannot access frame: %v)\n", indent, err)
			continue
		}

		inspectFrame(frame, childPath, depth+1)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
