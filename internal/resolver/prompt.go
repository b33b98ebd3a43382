package resolver

import (
	"fmt"
	"strings"

	"clipwright/internal/router"
)

// UnknownReply is the answer for requests that are not video edits.
const UnknownReply = "I don't know."

// SystemPrompt builds the planning prompt from the router table so the model
// only ever sees commands the router accepts.
func SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an agent operating a video editing site. Turn the user's objective into an ordered list of editing steps.\n")
	fmt.Fprintf(&b, "If the objective cannot be achieved with the commands below, or is not related to video editing, return no steps and the reply %q.\n\n", UnknownReply)
	b.WriteString("Rules:\n")
	b.WriteString("- Times are seconds written as floats, e.g. 0.0 and 7.0.\n")
	b.WriteString("- Timed commands take (start, length), never (start, end). Convert end times into lengths.\n")
	b.WriteString("- Colors are hex strings such as #ffffff.\n")
	b.WriteString("- Booleans are the literal tokens true or false.\n")
	b.WriteString("- Create an element before changing it. Transitions on videos use the video domain, on images the image domain.\n")
	fmt.Fprintf(&b, "- When the user asks to render or export, end with the step {\"command\":%q}.\n\n", router.RenderCommand)

	b.WriteString("Domains and commands:\n")
	for _, domain := range router.Domains() {
		fmt.Fprintf(&b, "\n[%s] %s\n", domain, router.Purpose(domain))
		for _, spec := range router.Specs(domain) {
			fmt.Fprintf(&b, "  %s", spec.Usage())
			if spec.Summary != "" {
				fmt.Fprintf(&b, " - %s", spec.Summary)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nRespond with JSON only, in this shape:\n")
	b.WriteString(`{"reply":"short confirmation","steps":[{"domain":"text","command":"add_text","args":"(Sport Time, 0.0, 7.0)"}]}`)
	b.WriteString("\n")
	return b.String()
}
