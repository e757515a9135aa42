package settings

// Defaults returns the compiled-in settings tree. Every call returns a fresh
// copy.
func Defaults() *Tree {
	return treeOf(
		"refresh", treeOf(
			"interval_seconds", 28800,
			"cron", "",
		),
		"display", treeOf(
			"mode", "html",
			"orientation", "portrait",
			"template", "display.html",
		),
		"layout", treeOf(
			"enabled_widgets", []any{"agenda", "news", "market"},
		),
		"theme", treeOf(
			"background", "#0b1220",
			"primary", "#F2F5F9",
			"accent", "#3EC1D3",
			"accent2", "#FF6B6B",
			"muted", "#7D8CA3",
			"font", "",
		),
		"data", treeOf(
			"calendar", treeOf(
				"ics_url", "",
				"lookahead_days", 3,
				"timezone", "Europe/Amsterdam",
				"clock", "24h",
			),
			"news", treeOf(
				"rss_url", "https://feeds.bbci.co.uk/news/rss.xml",
				"limit", 3,
			),
			"market", treeOf(
				"symbol", "VWCE",
				"provider", "mock",
				"history_days", 30,
			),
			"weather", treeOf(
				"lat", 52.3676,
				"lon", 4.9041,
			),
		),
		"server", treeOf(
			"host", "0.0.0.0",
			"port", 8080,
		),
	)
}
