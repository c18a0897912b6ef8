package scraper

import (
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/chromedp/chromedp"
)

// NewAllocator builds the headless-browser allocator context shared by all
// marketplace scrapers. The returned cancel func tears the browser down.
func NewAllocator(chromeBin string) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelSilent()
		cancelAlloc()
	}
	return silentCtx, cancel
}

// FindChromeBinary locates a Chrome/Chromium binary.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

var (
	parenRegexp = regexp.MustCompile(`\(([^)]+)\)`)
	specRegexp  = regexp.MustCompile(`\b\d+(?:\.\d+)?\s?(?:GB|TB|MP|GHz|Hz|inch|cm|mm|mAh|W)\b`)
)

// FeatureTextFromTitle pulls feature-looking fragments out of a product
// title when the card exposes no explicit spec list: parenthesized groups
// plus technical specs like "16GB" or "144Hz", comma-joined for the
// normalizer to split.
func FeatureTextFromTitle(title string) string {
	var parts []string
	for _, m := range parenRegexp.FindAllStringSubmatch(title, -1) {
		parts = append(parts, m[1])
	}
	stripped := parenRegexp.ReplaceAllString(title, "")
	parts = append(parts, specRegexp.FindAllString(stripped, -1)...)
	return strings.Join(parts, ", ")
}
