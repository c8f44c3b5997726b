package ui

import (
	"image"
	"math"
	"strconv"

	"puddle/internal/core"
)

// controlRow is where one control and its -/+ buttons sit in the panel.
type controlRow struct {
	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// sectionHeading is a group title drawn above a run of controls.
type sectionHeading struct {
	title    string
	baseline int
}

// panelLayout positions every control of a panel of the given width.
type panelLayout struct {
	rows     []controlRow
	headings []sectionHeading
	bottom   int
}

// layoutPanel stacks the controls below the title. A heading is inserted
// whenever the group changes; controls without a group get none.
func layoutPanel(controls []core.ParameterControl, width int) panelLayout {
	out := panelLayout{rows: make([]controlRow, len(controls)), bottom: controlsTop}
	if width <= 0 {
		return out
	}
	y := controlsTop
	group := ""
	for i, ctrl := range controls {
		if ctrl.Group != group {
			group = ctrl.Group
			if group != "" {
				if i > 0 {
					y += sectionGap
				}
				out.headings = append(out.headings, sectionHeading{title: group, baseline: y + sectionBaseline})
				y += sectionHeight
			}
		}
		buttonY := y + (lineHeight-buttonSize)/2
		plus := image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		out.rows[i] = controlRow{top: y, minus: minus, plus: plus}
		y += lineHeight
	}
	out.bottom = y
	return out
}

// stepTarget returns the value one step from current in direction, clamped
// to the control's bounds. ok is false when the step would not move.
func stepTarget(ctrl core.ParameterControl, current float64, direction int) (float64, bool) {
	if direction == 0 {
		return current, false
	}
	step := ctrl.Step
	switch ctrl.Type {
	case core.ParamTypeInt:
		step = math.Round(step)
		if step <= 0 {
			step = 1
		}
	case core.ParamTypeFloat:
		if step <= 0 {
			step = defaultFloatStep
		}
	default:
		return current, false
	}
	target := current + float64(direction)*step
	if ctrl.HasMin && target < ctrl.Min {
		target = ctrl.Min
	}
	if ctrl.HasMax && target > ctrl.Max {
		target = ctrl.Max
	}
	if ctrl.Type == core.ParamTypeInt {
		target = math.Round(target)
	}
	if math.Abs(target-current) < 1e-9 {
		return current, false
	}
	return target, true
}

// formatValue renders v with just enough decimals for the control's step.
func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	step := ctrl.Step
	if step <= 0 {
		step = defaultFloatStep
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding    = 12
	lineHeight      = 30
	buttonSize      = 22
	buttonGap       = 6
	headerBaseline  = 18
	labelBaseline   = 20
	infoSpacing     = 36
	controlsTop     = panelPadding + headerBaseline + 10
	sectionGap      = 8
	sectionHeight   = 18
	sectionBaseline = 13

	statsGap        = 20
	statsLineHeight = 16

	defaultFloatStep = 0.05
)
