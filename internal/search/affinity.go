package search

import "strings"

// weatherRule maps trigger substrings in a weather description to the
// scent tags that suit that weather. Triggers cover both the English and
// Korean renderings OpenWeatherMap returns.
type weatherRule struct {
	triggers []string
	tags     []string
}

// weatherRules is checked in order; all matching rules contribute their
// tags. Order matters for deterministic tag lists.
var weatherRules = []weatherRule{
	{
		triggers: []string{"rain", "비", "소나기", "drizzle"},
		tags:     []string{"clean", "fresh", "musk", "aquatic"},
	},
	{
		triggers: []string{"cloud", "구름", "overcast"},
		tags:     []string{"powdery", "soft", "cozy"},
	},
	{
		triggers: []string{"sun", "맑", "clear"},
		tags:     []string{"citrus", "green", "aromatic", "floral"},
	},
	{
		triggers: []string{"snow", "눈", "cold"},
		tags:     []string{"amber", "woody", "spicy"},
	},
	{
		triggers: []string{"haze", "mist", "안개"},
		tags:     []string{"herbal", "tea", "soft"},
	},
}

// WeatherTags maps a free-text weather description to scent tags.
// Multiple matching rules union their tags, preserving first-seen order
// and dropping duplicates. Unknown or empty descriptions yield no tags.
func WeatherTags(description string) []string {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return nil
	}

	var tags []string
	seen := make(map[string]bool)
	for _, rule := range weatherRules {
		matched := false
		for _, trigger := range rule.triggers {
			if strings.Contains(desc, trigger) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, tag := range rule.tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}

	return tags
}

// AffinityScore is the fraction of tags that occur as whole words in the
// document text. No tags means no context signal: 0.0.
func AffinityScore(tags []string, searchText string) float64 {
	if len(tags) == 0 {
		return 0.0
	}

	// Pad with spaces so a tag only matches on word boundaries:
	// "tea" must not match inside "steam".
	padded := " " + strings.ToLower(searchText) + " "

	hits := 0
	for _, tag := range tags {
		if strings.Contains(padded, " "+tag+" ") {
			hits++
		}
	}

	return float64(hits) / float64(len(tags))
}
