package probe

// Advice turns an attempt into the guidance printed for the operator.
// browserFallback reports whether a browser fetch is configured.
func Advice(a Attempt, browserFallback bool) []string {
	if !a.OK() {
		if a.Strategy == StrategyBrowser {
			return []string{
				"Browser fetch failed. Make sure Chrome or Chromium is installed and on PATH.",
				"Set browser.probe_enabled=false to skip this step.",
			}
		}
		if !browserFallback {
			return []string{"HTTP fetch failed and the browser fallback is disabled."}
		}
		return []string{"HTTP fetch failed; trying the browser next."}
	}

	var lines []string
	switch a.Strategy {
	case StrategyHTTP:
		if a.HasCaseContent {
			lines = append(lines, "The HTTP response already contains CNR or case-number text. "+
				"A plain HTTP client plus an HTML parser is likely enough.")
		} else {
			lines = append(lines, "Did NOT find obvious CNR text in the HTTP response.")
		}
		switch {
		case a.LooksJSShell && browserFallback:
			lines = append(lines, "The page is small or asks for JavaScript. Trying the browser next.")
		case a.LooksJSShell:
			lines = append(lines, "The page is small or asks for JavaScript. "+
				"Enable browser.probe_enabled to render it in Chrome.")
		default:
			lines = append(lines, "Page looks like a full HTML document. Inspect the snapshot in a browser.")
		}
	case StrategyBrowser:
		if a.HasCaseContent {
			lines = append(lines, "The rendered page contains CNR or case-number text. "+
				"Use the browser, or find the JSON endpoint it calls in the network panel.")
		} else {
			lines = append(lines, "Even after rendering, no obvious CNR text was found. "+
				"Inspect the page manually with developer tools.")
		}
	}
	return lines
}
