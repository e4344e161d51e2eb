package capture

// DefaultBannerSelectors match common cookie and consent overlays.
var DefaultBannerSelectors = []string{
	`[id*="cookie" i]`,
	`[class*="cookie" i]`,
	`[id*="consent" i]`,
	`[class*="consent" i]`,
	`[id*="banner" i]`,
	`[class*="banner" i]`,
	`[id*="gdpr" i]`,
	`[class*="gdpr" i]`,
	`[aria-label*="cookie" i]`,
	`[aria-modal="true"][role="dialog"]`,
	"#onetrust-consent-sdk",
	"#onetrust-banner-sdk",
	"#CybotCookiebotDialog",
	"#usercentrics-root",
	"#didomi-host",
	"#truste-consent-track",
	"#qc-cmp2-container",
	".fc-consent-root",
	".cc-window",
	".osano-cm-window",
	".klaro",
}
