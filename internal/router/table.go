package router

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clipwright/internal/command"
)

// Domain is one of the six editing domains.
type Domain string

const (
	DomainText     Domain = "text"
	DomainSubtitle Domain = "subtitle"
	DomainVideo    Domain = "video"
	DomainImage    Domain = "image"
	DomainTimeline Domain = "timeline_config"
	DomainOutput   Domain = "output_config"
)

// RenderCommand is the control instruction that submits the project for rendering.
const RenderCommand = "render_video"

var domainOrder = []Domain{DomainText, DomainSubtitle, DomainVideo, DomainImage, DomainTimeline, DomainOutput}

var table = map[Domain][]string{
	DomainText: {
		"add_text", "change_text", "change_text_color", "change_text_background_color",
		"change_text_style", "change_text_size", "change_text_effect", "change_text_opacity",
		"rotate_text", "skew_text", "flip_text", "change_text_position", "change_text_time",
		"change_text_offset", "add_text_transition",
	},
	DomainSubtitle: {
		"add_subtitle", "change_subtitle", "change_subtitle_time", "change_subtitle_color",
		"change_subtitle_style", "change_subtitle_position", "change_subtitle_size",
		"change_subtitle_background_color", "change_subtitle_offset",
	},
	DomainVideo: {
		"add_video", "change_video_volume", "change_video_volume_effect", "trim_video",
		"add_video_transition", "crop_video", "change_video_time", "scale_video",
		"set_video_position", "change_video_offset", "change_video_effect", "add_video_filter",
		"set_video_opacity", "rotate_video", "skew_video", "flip_video",
		"video_move_forward", "video_move_backward",
	},
	DomainImage: {
		"add_image", "crop_image", "add_image_transition", "change_image_time", "scale_image",
		"set_image_position", "change_image_offset", "change_image_effect", "add_image_filter",
		"set_image_opacity", "rotate_image", "skew_image", "flip_image",
		"image_move_forward", "image_move_backward",
	},
	DomainTimeline: {
		"change_timeline_background_color", "add_timeline_soundtrack",
		"change_timeline_soundtrack_effect", "change_timeline_soundtrack_volume",
		"choose_poster_from_timeline", "choose_thumbnail_from_timeline",
	},
	DomainOutput: {
		"change_output_format", "change_output_resolution", "change_output_aspect_ratio",
		"change_output_fps", "change_output_quality", "set_output_repeat", "set_output_mute",
	},
}

var purposes = map[Domain]string{
	DomainText:     "manipulation of text elements, such as changing text color",
	DomainSubtitle: "manipulation of subtitle elements, such as changing subtitle time",
	DomainVideo:    "manipulation of videos, such as trimming or adding a video transition",
	DomainImage:    "manipulation of images, such as adding an image transition",
	DomainTimeline: "manipulation of the timeline configuration, such as adding a soundtrack",
	DomainOutput:   "manipulation of the output configuration, such as changing output quality",
}

// Domains returns the six domains in catalog order.
func Domains() []Domain {
	return slices.Clone(domainOrder)
}

// ParseDomain accepts a domain name in any case, with hyphens, spaces, or
// underscores, and with or without a trailing "_agent".
func ParseDomain(value string) (Domain, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	key = strings.TrimSuffix(key, "_agent")
	switch key {
	case "timeline":
		key = string(DomainTimeline)
	case "output":
		key = string(DomainOutput)
	}
	if _, ok := table[Domain(key)]; ok {
		return Domain(key), nil
	}
	return "", fmt.Errorf("%w: unknown domain %q", ErrCapabilityViolation, value)
}

// Commands returns the command names a domain may execute.
func Commands(domain Domain) []string {
	return slices.Clone(table[domain])
}

// Specs returns the command specs of a domain in table order.
func Specs(domain Domain) []command.Spec {
	names := table[domain]
	specs := make([]command.Spec, 0, len(names))
	for _, name := range names {
		if spec, ok := command.Lookup(name); ok {
			specs = append(specs, spec)
		}
	}
	return specs
}

// DomainOf returns the domain that owns a command.
func DomainOf(name string) (Domain, bool) {
	for _, domain := range domainOrder {
		if slices.Contains(table[domain], name) {
			return domain, true
		}
	}
	return "", false
}

// Allows reports whether domain may execute the command.
func Allows(domain Domain, name string) bool {
	return slices.Contains(table[domain], name)
}

// Purpose describes what kind of edit a domain handles.
func Purpose(domain Domain) string {
	return purposes[domain]
}

// Label renders a domain for display, e.g. "Timeline Config".
func Label(domain Domain) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(domain), "_", " "))
}
