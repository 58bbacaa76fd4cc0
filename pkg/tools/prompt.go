package tools

import (
	"fmt"
	"strings"
)

// sensitiveKeywords flag editorial text that needs a softer visual
// treatment than the standard guidelines.
var sensitiveKeywords = []string{
	"death", "dying", "terminal", "fatal", "mortality",
	"pain", "suffering", "distress", "trauma",
	"crisis", "emergency", "urgent",
}

// domainVisuals maps canonical domain names to the imagery an engine
// should lean on for that subject area.
var domainVisuals = map[string][]string{
	"cancer care": {
		"molecular structures", "DNA helix", "cell division",
		"medical research", "treatment symbols",
	},
	"oncology": {
		"molecular structures", "DNA helix", "cell division",
		"medical research", "laboratory equipment", "treatment symbols",
	},
	"medicine": {
		"medical symbols", "stethoscope",
		"healthcare professionals", "medical equipment",
	},
	"research": {
		"microscopes", "laboratory", "data visualization",
		"scientific charts", "research equipment",
	},
	"technology": {
		"circuit patterns", "digital elements", "network connections",
		"innovation symbols", "tech interfaces",
	},
}

// stylePalettes maps prompt styles to a fixed color palette line, so the
// same style always renders with the same colors.
var stylePalettes = map[string]string{
	"professional": "professional blues, grays, whites",
	"modern":       "bold blues with high-contrast neutrals",
	"minimalist":   "muted grays with a single accent color",
	"artistic":     "rich complementary hues with soft gradients",
}

func stylePalette(style string) string {
	if palette, ok := stylePalettes[style]; ok {
		return palette
	}
	return stylePalettes["professional"]
}

func visualElements(domain string) []string {
	elements, ok := domainVisuals[domain]
	if !ok {
		elements = []string{"professional symbols", "domain-specific imagery"}
	}
	if len(elements) > 4 {
		elements = elements[:4]
	}
	return elements
}

func contentGuardrails(editorialText string) string {
	lowered := strings.ToLower(editorialText)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowered, keyword) {
			return strings.Join([]string{
				"- Use hopeful, supportive visual tone",
				"- Avoid dark or depressing imagery",
				"- Focus on treatment, care, and hope",
				"- Use warm, professional colors",
				"- Emphasize healing and progress",
			}, "\n")
		}
	}
	return strings.Join([]string{
		"- Professional, clean aesthetic",
		"- Appropriate subject treatment for the domain",
		"- Focus on innovation and progress",
	}, "\n")
}

// buildImagePrompt composes the generation prompt deterministically from
// the style, the extracted key concepts, the domain, and a bounded
// excerpt of the editorial text. Identical inputs always produce an
// identical prompt.
func buildImagePrompt(domain, style, excerpt string, keywords []Keyword) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a %s cover image for a %s editorial publication.\n\n", style, domain)

	if len(keywords) > 0 {
		terms := make([]string, len(keywords))
		for i, keyword := range keywords {
			terms[i] = keyword.Term
		}
		fmt.Fprintf(&b, "Key concepts: %s\n\n", strings.Join(terms, ", "))
	} else if excerpt != "" {
		fmt.Fprintf(&b, "Editorial excerpt: %s\n\n", excerpt)
	}

	fmt.Fprintf(&b, "Visual requirements:\n")
	fmt.Fprintf(&b, "- Style: %s design approach\n", style)
	fmt.Fprintf(&b, "- Color palette: %s\n", stylePalette(style))
	fmt.Fprintf(&b, "- Tone: professional, appropriate for a general news audience\n")
	fmt.Fprintf(&b, "- Visual elements: %s\n", strings.Join(visualElements(domain), ", "))
	fmt.Fprintf(&b, "- Layout: balanced composition with clear hierarchy\n\n")

	fmt.Fprintf(&b, "Content guardrails:\n%s\n\n", contentGuardrails(excerpt))

	fmt.Fprintf(&b, "Avoid cluttered or overly complex designs and any embedded text. ")
	fmt.Fprintf(&b, "The image should represent the editorial's key concepts while maintaining professional standards for the %s domain.", domain)

	return b.String()
}
