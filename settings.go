package pyrograph

// Styles is the flat style table the engine paints with. Zero values are
// replaced by DefaultStyles at engine construction; at runtime styles
// change only through Settings patches.
type Styles struct {
	BlockHeight           float64 // row height for rects with H == 0
	BlockPaddingLeftRight float64 // label inset inside a block
	FontSize              float64 // nominal label size in logical pixels
	FontColor             string  // label fill color
	BackgroundColor       string  // clear color
	LineWidth             float64 // stroke width

	TooltipHeaderFontColor string
	TooltipBodyFontColor   string
	TooltipBackgroundColor string
	TooltipShadowColor     string
	TooltipShadowBlur      float64
	TooltipShadowOffsetX   float64
	TooltipShadowOffsetY   float64
}

// DefaultStyles returns the baseline style table.
func DefaultStyles() Styles {
	return Styles{
		BlockHeight:           16,
		BlockPaddingLeftRight: 4,
		FontSize:              10,
		FontColor:             "#fff",
		BackgroundColor:       "#212127",
		LineWidth:             1,

		TooltipHeaderFontColor: "#fff",
		TooltipBodyFontColor:   "#dadada",
		TooltipBackgroundColor: "#28282c",
		TooltipShadowColor:     "black",
		TooltipShadowBlur:      5,
		TooltipShadowOffsetX:   2,
		TooltipShadowOffsetY:   2,
	}
}

// StylesPatch overrides a subset of Styles. Nil fields keep the current
// value.
type StylesPatch struct {
	BlockHeight           *float64
	BlockPaddingLeftRight *float64
	FontSize              *float64
	FontColor             *string
	BackgroundColor       *string
	LineWidth             *float64

	TooltipHeaderFontColor *string
	TooltipBodyFontColor   *string
	TooltipBackgroundColor *string
	TooltipShadowColor     *string
	TooltipShadowBlur      *float64
	TooltipShadowOffsetX   *float64
	TooltipShadowOffsetY   *float64
}

// apply merges the patch into s.
func (p *StylesPatch) apply(s *Styles) {
	if p == nil {
		return
	}
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setS := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&s.BlockHeight, p.BlockHeight)
	setF(&s.BlockPaddingLeftRight, p.BlockPaddingLeftRight)
	setF(&s.FontSize, p.FontSize)
	setS(&s.FontColor, p.FontColor)
	setS(&s.BackgroundColor, p.BackgroundColor)
	setF(&s.LineWidth, p.LineWidth)
	setS(&s.TooltipHeaderFontColor, p.TooltipHeaderFontColor)
	setS(&s.TooltipBodyFontColor, p.TooltipBodyFontColor)
	setS(&s.TooltipBackgroundColor, p.TooltipBackgroundColor)
	setS(&s.TooltipShadowColor, p.TooltipShadowColor)
	setF(&s.TooltipShadowBlur, p.TooltipShadowBlur)
	setF(&s.TooltipShadowOffsetX, p.TooltipShadowOffsetX)
	setF(&s.TooltipShadowOffsetY, p.TooltipShadowOffsetY)
}

// TooltipConfig controls the built-in tooltip. Disabled suppresses it
// entirely; a non-nil Render replaces the default panel with a custom
// drawing callback.
type TooltipConfig struct {
	Disabled bool
	Render   func(c *Canvas, fields []TooltipField, mouseX, mouseY float64)
}

// Settings is a merge-applied configuration patch. Nil fields keep the
// engine's current values, so callers can update one knob without
// restating the rest.
type Settings struct {
	Tooltip   *TooltipConfig
	TimeUnits *string
	Styles    *StylesPatch
}
