package transform

import "strings"

// Group identifies a conflict group. Groups are declared in canonical
// serialization order; GroupNone marks unclassified pass-through tokens.
type Group int

const (
	GroupNone Group = iota

	// dimensions
	GroupWidth
	GroupHeight
	GroupDPR
	GroupCrop
	GroupCropMode
	GroupFocus
	GroupColorProfile

	// quality and format
	GroupQuality
	GroupFormat
	GroupLossless

	GroupBlur

	// effects
	GroupBrightness
	GroupContrast
	GroupSaturation
	GroupSharpen
	GroupBackgroundRemoval
	GroupAutoEnhance

	GroupBackground

	// orientation
	GroupRotation
	GroupFlip

	// decoration
	GroupRadius
	GroupBorder
	GroupOverlayImage

	// utility, always last
	GroupProgressive
	GroupDefaultImage

	groupCount
)

var groupNames = [groupCount]string{
	GroupNone:              "none",
	GroupWidth:             "width",
	GroupHeight:            "height",
	GroupDPR:               "dpr",
	GroupCrop:              "crop",
	GroupCropMode:          "crop-mode",
	GroupFocus:             "focus",
	GroupColorProfile:      "color-profile",
	GroupQuality:           "quality",
	GroupFormat:            "format",
	GroupLossless:          "lossless",
	GroupBlur:              "blur",
	GroupBrightness:        "brightness",
	GroupContrast:          "contrast",
	GroupSaturation:        "saturation",
	GroupSharpen:           "sharpen",
	GroupBackgroundRemoval: "background-removal",
	GroupAutoEnhance:       "auto-enhance",
	GroupBackground:        "background",
	GroupRotation:          "rotation",
	GroupFlip:              "flip",
	GroupRadius:            "radius",
	GroupBorder:            "border",
	GroupOverlayImage:      "overlay-image",
	GroupProgressive:       "progressive",
	GroupDefaultImage:      "default-image",
}

func (g Group) String() string {
	if g < 0 || g >= groupCount {
		return "unknown"
	}
	return groupNames[g]
}

// Class describes how the merge treats a token.
type Class struct {
	Group Group
	// Cumulative groups sum their values instead of replacing them.
	Cumulative bool
	// Utility groups are emitted after every other token.
	Utility bool
}

type rule struct {
	prefix     string
	exact      bool
	group      Group
	cumulative bool
	utility    bool
}

// rules is matched top to bottom, most specific first.
var rules = []rule{
	{prefix: "e-brightness-", group: GroupBrightness},
	{prefix: "e-contrast-", group: GroupContrast},
	{prefix: "e-saturation-", group: GroupSaturation},
	{prefix: "e-sharpen-", group: GroupSharpen},

	{prefix: "e-bgremove", exact: true, group: GroupBackgroundRemoval},
	{prefix: "e-auto-enhance", exact: true, group: GroupAutoEnhance},

	{prefix: "q-", group: GroupQuality},
	{prefix: "f-", group: GroupFormat},
	{prefix: "w-", group: GroupWidth},
	{prefix: "h-", group: GroupHeight},
	{prefix: "bl-", group: GroupBlur},
	{prefix: "bg-", group: GroupBackground},
	{prefix: "rt-", group: GroupRotation, cumulative: true},
	{prefix: "fl-", group: GroupFlip},
	{prefix: "c-", group: GroupCrop},
	{prefix: "cm-", group: GroupCropMode},
	{prefix: "cp-", group: GroupColorProfile},
	{prefix: "fo-", group: GroupFocus},
	{prefix: "pr-", group: GroupProgressive, utility: true},
	{prefix: "di-", group: GroupDefaultImage, utility: true},
	{prefix: "r-", group: GroupRadius},
	{prefix: "bo-", group: GroupBorder},
	{prefix: "dpr-", group: GroupDPR},
	{prefix: "lo-", group: GroupLossless},
	{prefix: "oi-", group: GroupOverlayImage},
}

func (r rule) matches(t string) bool {
	if r.exact {
		return t == r.prefix
	}
	return len(t) > len(r.prefix) && strings.HasPrefix(t, r.prefix)
}

func matchRule(t Token) (rule, bool) {
	s := string(t)
	for _, r := range rules {
		if r.matches(s) {
			return r, true
		}
	}
	return rule{}, false
}

// Classify returns the conflict group of a token. Unknown tokens get
// GroupNone and are never deduplicated against other groups.
func Classify(t Token) Class {
	r, ok := matchRule(t)
	if !ok {
		return Class{Group: GroupNone}
	}
	return Class{
		Group:      r.group,
		Cumulative: r.cumulative,
		Utility:    r.utility,
	}
}
