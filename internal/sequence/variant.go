package sequence

import "fmt"

// Variant selects how inactive items rest in a sequence.
type Variant string

const (
	VariantStackingCards Variant = "stacking-cards"
	VariantAccordion     Variant = "accordion"
	VariantSequence      Variant = "sequence"
	VariantParallax      Variant = "parallax"
)

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantStackingCards, VariantAccordion, VariantSequence, VariantParallax:
		return v, nil
	case "":
		return VariantStackingCards, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// RestOffset is the offset of an inactive item, in item heights.
// stacking cards wait one card below the active one.
func (v Variant) RestOffset() float64 {
	if v == VariantStackingCards {
		return 1
	}
	return 0
}

// ParallaxOffset moves a masked layer from -depth to +depth across the pin range.
func ParallaxOffset(progress float64, depth float64) float64 {
	return (clamp(progress, 0, 1)*2 - 1) * depth
}
