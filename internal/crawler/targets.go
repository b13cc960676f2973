package crawler

import "github.com/fyxed/rentcrawl/internal/source"

// EnumerateTargets expands the city list against a source's seed URL
// templates. Cities with an empty-string slug override are skipped for
// this source. Output order follows the city list, templates in config
// order within each city.
func EnumerateTargets(cfg *source.Config, cities []string) []Target {
	targets := make([]Target, 0, len(cities)*len(cfg.StartURLTemplates))
	for _, city := range cities {
		slug, ok := cfg.SlugFor(city)
		if !ok {
			continue
		}
		for _, tpl := range cfg.StartURLTemplates {
			targets = append(targets, Target{
				City: city,
				URL:  source.BuildStartURL(tpl, city, slug),
			})
		}
	}
	return targets
}
