package aim

import "fmt"

// buildPrompt renders the instruction sent alongside each image. The line
// vocabulary here must stay in sync with the prefixes ParseCaption scans for.
func buildPrompt(c *Config) string {
	tone := c.toneWords()

	return fmt.Sprintf(`As a photojournalist, analyze the image and describe it in a %s and %s tone.
Respond with exactly these three lines and nothing else:
Headline: a short, impactful title
Description: a brief, informative summary
Keywords: %d keywords, separated by commas`, tone[0], tone[1], c.KeywordCount)
}
