package transform

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Preset names a family of options the step builder understands.
type Preset string

const (
	PresetEnhance           Preset = "enhance"
	PresetBackgroundRemoval Preset = "background-removal"
	PresetResize            Preset = "resize"
	PresetOrient            Preset = "orient"
)

func (p Preset) Valid() bool {
	switch p {
	case PresetEnhance, PresetBackgroundRemoval, PresetResize, PresetOrient:
		return true
	}
	return false
}

const (
	ParamBrightness  = "brightness"
	ParamContrast    = "contrast"
	ParamSaturation  = "saturation"
	ParamSharpen     = "sharpen"
	ParamQuality     = "quality"
	ParamFormat      = "format"
	ParamBlur        = "blur"
	ParamAutoEnhance = "auto_enhance"
	ParamWidth       = "width"
	ParamHeight      = "height"
	ParamBackground  = "background"
	ParamCrop        = "crop"
	ParamCropMode    = "crop_mode"
	ParamFocus       = "focus"
	ParamDPR         = "dpr"
	ParamRotate      = "rotate"
	ParamFlip        = "flip"
)

const (
	maxDimension = 10000
	minDPR       = 0.1
	maxDPR       = 5
)

var (
	allowedFormats = map[string]bool{
		"auto": true, "jpg": true, "jpeg": true, "png": true, "webp": true,
		"avif": true, "gif": true, "mp4": true, "webm": true,
	}
	allowedCrops = map[string]bool{
		"maintain_ratio": true, "force": true, "at_max": true, "at_least": true,
	}
	allowedCropModes = map[string]bool{
		"pad_resize": true, "extract": true, "pad_extract": true,
	}
	allowedFocus = map[string]bool{
		"center": true, "top": true, "left": true, "bottom": true, "right": true,
		"top_left": true, "top_right": true, "bottom_left": true, "bottom_right": true,
		"auto": true, "face": true,
	}
	flipAliases = map[string]string{
		"h": "h", "horizontal": "h",
		"v": "v", "vertical": "v",
		"h_v": "h_v", "v_h": "h_v", "both": "h_v",
	}

	hexColor   = regexp.MustCompile(`^([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)
	namedColor = regexp.MustCompile(`^[A-Za-z]{3,20}$`)
)

// BuildStep turns preset options into one flat step string. Options that
// are missing, non-numeric or otherwise unusable are left out; an unknown
// preset yields "".
func BuildStep(preset Preset, params map[string]interface{}) string {
	var tokens []Token
	switch preset {
	case PresetEnhance:
		tokens = buildEnhance(params)
	case PresetBackgroundRemoval:
		tokens = buildBackgroundRemoval(params)
	case PresetResize:
		tokens = buildResize(params)
	case PresetOrient:
		tokens = buildOrient(params)
	}
	return JoinTokens(tokens)
}

func buildEnhance(params map[string]interface{}) []Token {
	var tokens []Token

	if q, ok := clampedInt(params, ParamQuality, 1, 100); ok {
		tokens = append(tokens, Token("q-"+formatInt(q)))
	}
	if f, ok := formatParam(params); ok {
		tokens = append(tokens, Token("f-"+f))
	}
	if b, ok := clampedInt(params, ParamBlur, 0, 100); ok {
		tokens = append(tokens, Token("bl-"+formatInt(b)))
	}

	effects := []struct {
		param  string
		prefix string
		min    int
	}{
		{ParamBrightness, "e-brightness-", -100},
		{ParamContrast, "e-contrast-", -100},
		{ParamSaturation, "e-saturation-", -100},
		{ParamSharpen, "e-sharpen-", 0},
	}
	for _, e := range effects {
		if v, ok := clampedInt(params, e.param, e.min, 100); ok {
			tokens = append(tokens, Token(e.prefix+formatInt(v)))
		}
	}

	if boolParam(params, ParamAutoEnhance) {
		tokens = append(tokens, "e-auto-enhance")
	}

	return tokens
}

func buildBackgroundRemoval(params map[string]interface{}) []Token {
	var tokens []Token

	if w, ok := dimensionParam(params, ParamWidth); ok {
		tokens = append(tokens, Token("w-"+formatInt(w)))
	}
	if h, ok := dimensionParam(params, ParamHeight); ok {
		tokens = append(tokens, Token("h-"+formatInt(h)))
	}
	if q, ok := clampedInt(params, ParamQuality, 1, 100); ok {
		tokens = append(tokens, Token("q-"+formatInt(q)))
	}
	if f, ok := formatParam(params); ok {
		tokens = append(tokens, Token("f-"+f))
	}

	tokens = append(tokens, "e-bgremove")

	if c, ok := colorParam(params, ParamBackground); ok {
		tokens = append(tokens, Token("bg-"+c))
	}

	return append(tokens, "pr-true")
}

func buildResize(params map[string]interface{}) []Token {
	var tokens []Token

	if w, ok := dimensionParam(params, ParamWidth); ok {
		tokens = append(tokens, Token("w-"+formatInt(w)))
	}
	if h, ok := dimensionParam(params, ParamHeight); ok {
		tokens = append(tokens, Token("h-"+formatInt(h)))
	}
	if d, ok := numberParam(params, ParamDPR); ok {
		d = math.Min(math.Max(d, minDPR), maxDPR)
		tokens = append(tokens, Token("dpr-"+strconv.FormatFloat(math.Round(d*10)/10, 'f', -1, 64)))
	}
	if c, ok := enumParam(params, ParamCrop, allowedCrops); ok {
		tokens = append(tokens, Token("c-"+c))
	}
	if cm, ok := enumParam(params, ParamCropMode, allowedCropModes); ok {
		tokens = append(tokens, Token("cm-"+cm))
	}
	if fo, ok := enumParam(params, ParamFocus, allowedFocus); ok {
		tokens = append(tokens, Token("fo-"+fo))
	}

	return tokens
}

func buildOrient(params map[string]interface{}) []Token {
	var tokens []Token

	if r, ok := numberParam(params, ParamRotate); ok {
		if deg := normalizeDegrees(int(math.Mod(math.Round(r), 360))); deg != 0 {
			tokens = append(tokens, Token("rt-"+formatInt(deg)))
		}
	}
	if s, ok := params[ParamFlip].(string); ok {
		if f, ok := flipAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
			tokens = append(tokens, Token("fl-"+f))
		}
	}

	return tokens
}

// numberParam reads a finite number from the loosely typed params map.
func numberParam(params map[string]interface{}, key string) (float64, bool) {
	var v float64
	switch n := params[key].(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case int32:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func clampedInt(params map[string]interface{}, key string, lo, hi int) (int, bool) {
	v, ok := numberParam(params, key)
	if !ok {
		return 0, false
	}
	return int(math.Min(math.Max(math.Round(v), float64(lo)), float64(hi))), true
}

// dimensionParam ignores non-positive sizes, which mean "keep original".
func dimensionParam(params map[string]interface{}, key string) (int, bool) {
	v, ok := numberParam(params, key)
	if !ok || v < 1 {
		return 0, false
	}
	return clampedInt(params, key, 1, maxDimension)
}

func boolParam(params map[string]interface{}, key string) bool {
	switch b := params[key].(type) {
	case bool:
		return b
	case string:
		v, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && v
	}
	return false
}

func enumParam(params map[string]interface{}, key string, allowed map[string]bool) (string, bool) {
	s, ok := params[key].(string)
	if !ok {
		return "", false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	return s, allowed[s]
}

func formatParam(params map[string]interface{}) (string, bool) {
	return enumParam(params, ParamFormat, allowedFormats)
}

func colorParam(params map[string]interface{}, key string) (string, bool) {
	s, ok := params[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch {
	case hexColor.MatchString(s):
		return strings.ToUpper(s), true
	case namedColor.MatchString(s):
		return strings.ToLower(s), true
	}
	return "", false
}
