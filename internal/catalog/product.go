package catalog

import "strings"

const defaultTitle = "Produto"

// Product is the canonical, display-ready record derived from one
// upstream catalog entry. Instances are immutable after normalization;
// the cart copies what it needs instead of holding references.
type Product struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	PriceCents  int64       `json:"priceCents"`
	Images      []string    `json:"images,omitempty"`
	Category    string      `json:"category,omitempty"`
	Artist      string      `json:"artist,omitempty"`
	ReleaseDate string      `json:"releaseDate,omitempty"`
	IsPreorder  bool        `json:"isPreorder"`
	Variations  []Variation `json:"variations,omitempty"`
}

// Variation is one selectable option of a product. A positive
// PriceCents overrides the product price when the variation is chosen.
type Variation struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl,omitempty"`
	PriceCents int64  `json:"priceCents,omitempty"`
}

// TypeLabel returns the merchandising label shown next to the title.
func (p Product) TypeLabel() string {
	if p.Artist != "" {
		return p.Artist
	}
	if p.Category != "" {
		return p.Category
	}
	return defaultTitle
}

// PrimaryImage returns the first image, or empty when there is none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// VariationByID finds a variation by id, falling back to name match
// the way the storefront UI addresses unkeyed upstream variations.
func (p Product) VariationByID(variationID string) (Variation, bool) {
	if variationID == "" {
		return Variation{}, false
	}
	for _, v := range p.Variations {
		if v.ID == variationID || v.Name == variationID {
			return v, true
		}
	}
	return Variation{}, false
}

// PriceCentsFor resolves the frozen price for a cart line: the
// variation price when the selected variation carries its own,
// otherwise the product price.
func (p Product) PriceCentsFor(variationID string) int64 {
	if v, ok := p.VariationByID(variationID); ok && v.PriceCents > 0 {
		return v.PriceCents
	}
	return p.PriceCents
}

// CleanTitle strips preorder tags, trailing id codes and pipe-suffixed
// noise from an upstream title.
func CleanTitle(title string) string {
	cleaned := title
	for _, tag := range []string{"[PRE-ORDER]", "[pre-order]", "[PREORDER]", "[preorder]"} {
		cleaned = strings.ReplaceAll(cleaned, tag, "")
	}
	if idx := strings.Index(cleaned, " | "); idx >= 0 {
		cleaned = cleaned[:idx]
	}
	cleaned = stripParenNumbers(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}

func stripParenNumbers(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); {
		if value[i] == '(' {
			end := strings.IndexByte(value[i:], ')')
			if end > 1 && allDigits(value[i+1:i+end]) {
				i += end + 1
				continue
			}
		}
		b.WriteByte(value[i])
		i++
	}
	return b.String()
}

func allDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
